package engine

import "github.com/sarthakj1997/business-assistant/internal/domain"

// ExtractFilters derives a filter context from one batch of search hits.
// Pure and order-independent: every hit is visited once, duplicate
// entities coalesce, and a hit missing a field contributes nothing for
// that field. It never fails.
func ExtractFilters(hits []domain.SearchHit) *domain.FilterContext {
	f := domain.NewFilterContext()

	for i := range hits {
		rec := &hits[i].Record

		f.AddOrderID(rec.OrderID)
		f.AddInvoiceID(rec.InvoiceID)

		switch rec.Type {
		case domain.TypeInvoice:
			if rec.Invoice == nil {
				continue
			}
			f.AddCustomer(rec.Invoice.ContactName)
			if rec.Invoice.InvoiceDate != nil {
				f.WidenDates(*rec.Invoice.InvoiceDate)
			}

		case domain.TypeProductSummary:
			if rec.ProductSummary == nil {
				continue
			}
			f.AddCustomer(rec.ProductSummary.ContactName)
			for _, p := range rec.ProductSummary.Products {
				f.AddProduct(p)
			}

		case domain.TypeLineItem:
			if rec.LineItem == nil {
				continue
			}
			f.AddCustomer(rec.LineItem.ContactName)
			f.AddProduct(rec.LineItem.ProductName)
		}
	}

	return f
}
