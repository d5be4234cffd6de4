// Package domain holds the core types of the assistant: the vector record
// union, search hits, filter context, structured rows, and the response
// record returned to the transport layer.
package domain

import "time"

// RecordType discriminates the document kinds stored in the vector index.
type RecordType string

const (
	// TypeInvoice is an order-level invoice summary document.
	TypeInvoice RecordType = "invoice"
	// TypeProductSummary is a combined per-order product listing document.
	TypeProductSummary RecordType = "products"
	// TypeLineItem is a single line-item document.
	TypeLineItem RecordType = "line_item"
)

// VectorRecord is a tagged union over the three indexed document kinds.
// Type selects which variant pointer is set; the other two are nil.
type VectorRecord struct {
	Type      RecordType
	UserID    int64
	OrderID   string
	InvoiceID int64

	Invoice        *InvoiceFields
	ProductSummary *ProductSummaryFields
	LineItem       *LineItemFields
}

// InvoiceFields carries the invoice-summary variant.
type InvoiceFields struct {
	ContactName string
	InvoiceDate *time.Time
	TotalPrice  float64
	City        string
	Country     string
}

// ProductSummaryFields carries the per-order product listing variant.
type ProductSummaryFields struct {
	ContactName  string
	ProductCount int
	Products     []string
}

// LineItemFields carries the single line-item variant.
type LineItemFields struct {
	ProductName string
	Quantity    int
	UnitPrice   float64
	LineTotal   float64
	ContactName string
}

// ContactName returns the customer name of whichever variant is set,
// or "" when the record carries none.
func (r *VectorRecord) ContactName() string {
	switch r.Type {
	case TypeInvoice:
		if r.Invoice != nil {
			return r.Invoice.ContactName
		}
	case TypeProductSummary:
		if r.ProductSummary != nil {
			return r.ProductSummary.ContactName
		}
	case TypeLineItem:
		if r.LineItem != nil {
			return r.LineItem.ContactName
		}
	}
	return ""
}

// SearchHit is one vector index candidate with its similarity score.
// Scores are comparable only within a single search call.
type SearchHit struct {
	Score  float64
	Record VectorRecord
}
