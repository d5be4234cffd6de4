package vector

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sarthakj1997/business-assistant/internal/db"
	"github.com/sarthakj1997/business-assistant/internal/domain"
)

// Index writes the vector documents for one invoice: an invoice summary,
// an order-level product summary, and one document per line item. Each
// document kind carries its own natural-language text and typed metadata
// so questions land on the right granularity.
func (r *Repo) Index(ctx context.Context, inv *domain.Invoice, invoiceID int64) error {
	docs := buildDocuments(inv, invoiceID)

	items := make([]db.HashSetItem, 0, len(docs))
	for _, doc := range docs {
		emb, err := r.embed.Embed(ctx, doc.text)
		if err != nil {
			return fmt.Errorf("embed document %s: %w", doc.key, err)
		}
		doc.fields["content"] = doc.text
		doc.fields["vector"] = vectorField(emb.Embedding)
		items = append(items, db.HashSetItem{Key: doc.key, Fields: doc.fields})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("index invoice %s: %w", inv.OrderID, err)
	}
	return nil
}

type document struct {
	key    string
	text   string
	fields map[string]string
}

func buildDocuments(inv *domain.Invoice, invoiceID int64) []document {
	docs := make([]document, 0, 2+len(inv.Items))

	common := func() map[string]string {
		f := map[string]string{
			"user_id":    strconv.FormatInt(inv.UserID, 10),
			"invoice_id": strconv.FormatInt(invoiceID, 10),
			"order_id":   inv.OrderID,
		}
		if inv.ContactName != "" {
			f["contact_name"] = inv.ContactName
		}
		return f
	}

	date := ""
	if inv.InvoiceDate != nil {
		date = inv.InvoiceDate.Format(dateLayout)
	}

	// Invoice summary document.
	invFields := common()
	invFields["doc_type"] = string(domain.TypeInvoice)
	invFields["total_price"] = formatAmount(inv.TotalPrice)
	if date != "" {
		invFields["invoice_date"] = date
	}
	if inv.City != "" {
		invFields["city"] = inv.City
	}
	if inv.Country != "" {
		invFields["country"] = inv.Country
	}
	docs = append(docs, document{
		key:    KeyPrefix + "invoice_" + inv.OrderID,
		text:   invoiceText(inv, date),
		fields: invFields,
	})

	// Combined product summary document.
	if len(inv.Items) > 0 {
		names := make([]string, len(inv.Items))
		for i, item := range inv.Items {
			names[i] = item.ProductName
		}
		productsJSON, _ := json.Marshal(names)

		psFields := common()
		psFields["doc_type"] = string(domain.TypeProductSummary)
		psFields["product_count"] = strconv.Itoa(len(inv.Items))
		psFields["products"] = string(productsJSON)
		docs = append(docs, document{
			key:    KeyPrefix + "products_" + inv.OrderID,
			text:   productSummaryText(inv, date),
			fields: psFields,
		})
	}

	// Individual line item documents for product-specific questions.
	for i, item := range inv.Items {
		liFields := common()
		liFields["doc_type"] = string(domain.TypeLineItem)
		liFields["product_name"] = item.ProductName
		liFields["quantity"] = strconv.Itoa(item.Quantity)
		liFields["unit_price"] = formatAmount(item.UnitPrice)
		liFields["line_total"] = formatAmount(item.LineTotal)
		docs = append(docs, document{
			key:    fmt.Sprintf("%sitem_%s_%d", KeyPrefix, inv.OrderID, i),
			text:   lineItemText(inv, &item, date),
			fields: liFields,
		})
	}

	return docs
}

func invoiceText(inv *domain.Invoice, date string) string {
	contact := inv.ContactName
	if contact == "" {
		contact = "Unknown"
	}
	return fmt.Sprintf(
		"Invoice Order %s for customer %s. Date: %s. Total amount: $%s. "+
			"Customer details: %s, %s, %s. Order ID %s. Invoice %s.",
		inv.OrderID, contact, date, formatAmount(inv.TotalPrice),
		contact, inv.City, inv.Country, inv.OrderID, inv.OrderID,
	)
}

func productSummaryText(inv *domain.Invoice, date string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s contains the following products: ", inv.OrderID)
	for _, item := range inv.Items {
		fmt.Fprintf(&b, "%s - quantity %d at $%s each (total $%s). ",
			item.ProductName, item.Quantity, formatAmount(item.UnitPrice), formatAmount(item.LineTotal))
	}
	fmt.Fprintf(&b, "This order %s was placed by %s on %s.", inv.OrderID, inv.ContactName, date)
	return b.String()
}

func lineItemText(inv *domain.Invoice, item *domain.LineItem, date string) string {
	return fmt.Sprintf(
		"Product %s in order %s. Customer %s ordered %d units of %s at $%s per unit "+
			"for a total of $%s. Order date: %s. Order ID %s.",
		item.ProductName, inv.OrderID, inv.ContactName, item.Quantity, item.ProductName,
		formatAmount(item.UnitPrice), formatAmount(item.LineTotal), date, inv.OrderID,
	)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// vectorField renders the embedding in the little-endian FLOAT32 blob
// layout the index stores and FT.SEARCH compares against.
func vectorField(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
