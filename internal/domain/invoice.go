package domain

import (
	"fmt"
	"time"
)

// Invoice is an extracted invoice record as delivered by the upstream
// extraction pipeline. The assistant persists it relationally and indexes
// it as vector documents; it never parses PDFs or extracts fields itself.
type Invoice struct {
	UserID      int64      `json:"user_id"`
	OrderID     string     `json:"order_id"`
	ContactName string     `json:"contact_name"`
	InvoiceDate *time.Time `json:"invoice_date"`
	TotalPrice  float64    `json:"total_price"`
	City        string     `json:"city"`
	Country     string     `json:"country"`
	Items       []LineItem `json:"items"`
}

// LineItem is one product line of an invoice.
type LineItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// Validate checks the invariants an invoice must hold before ingestion.
func (inv *Invoice) Validate() error {
	if inv.OrderID == "" {
		return fmt.Errorf("%w: order_id is required", ErrInvalidInvoice)
	}
	if inv.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInvoice)
	}
	if inv.TotalPrice < 0 {
		return fmt.Errorf("%w: total_price must not be negative", ErrInvalidInvoice)
	}
	for i, item := range inv.Items {
		if item.ProductName == "" {
			return fmt.Errorf("%w: items[%d].product_name is required", ErrInvalidInvoice, i)
		}
		if item.Quantity < 0 || item.UnitPrice < 0 || item.LineTotal < 0 {
			return fmt.Errorf("%w: items[%d] has a negative amount", ErrInvalidInvoice, i)
		}
	}
	return nil
}
