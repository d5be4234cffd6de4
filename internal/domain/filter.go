package domain

import (
	"sort"
	"time"
)

// FilterContext aggregates entities seen across one batch of search hits.
// It is built fresh per question and never persisted. Set semantics:
// duplicate values coalesce, insertion order is irrelevant.
type FilterContext struct {
	Customers  map[string]struct{}
	OrderIDs   map[string]struct{}
	Products   map[string]struct{}
	InvoiceIDs map[int64]struct{}

	// Date range over hits carrying a parseable invoice date.
	// Both nil until the first dated hit is seen.
	DateMin *time.Time
	DateMax *time.Time
}

// NewFilterContext creates an empty filter context.
func NewFilterContext() *FilterContext {
	return &FilterContext{
		Customers:  make(map[string]struct{}),
		OrderIDs:   make(map[string]struct{}),
		Products:   make(map[string]struct{}),
		InvoiceIDs: make(map[int64]struct{}),
	}
}

// AddCustomer records a customer name; empty names contribute nothing.
func (f *FilterContext) AddCustomer(name string) {
	if name != "" {
		f.Customers[name] = struct{}{}
	}
}

// AddOrderID records an order identifier; empty identifiers contribute nothing.
func (f *FilterContext) AddOrderID(id string) {
	if id != "" {
		f.OrderIDs[id] = struct{}{}
	}
}

// AddProduct records a product name; empty names contribute nothing.
func (f *FilterContext) AddProduct(name string) {
	if name != "" {
		f.Products[name] = struct{}{}
	}
}

// AddInvoiceID records an invoice primary key; zero contributes nothing.
func (f *FilterContext) AddInvoiceID(id int64) {
	if id != 0 {
		f.InvoiceIDs[id] = struct{}{}
	}
}

// WidenDates extends the date range by pointwise min/max comparison.
func (f *FilterContext) WidenDates(t time.Time) {
	if f.DateMin == nil || t.Before(*f.DateMin) {
		tt := t
		f.DateMin = &tt
	}
	if f.DateMax == nil || t.After(*f.DateMax) {
		tt := t
		f.DateMax = &tt
	}
}

// HasEntities reports whether the context holds concrete customers or
// order identifiers to filter a structured query on.
func (f *FilterContext) HasEntities() bool {
	return len(f.Customers) > 0 || len(f.OrderIDs) > 0
}

// SortedCustomers returns the customer set in sorted order, so downstream
// query synthesis is deterministic.
func (f *FilterContext) SortedCustomers() []string {
	return sortedKeys(f.Customers)
}

// SortedOrderIDs returns the order identifier set in sorted order.
func (f *FilterContext) SortedOrderIDs() []string {
	return sortedKeys(f.OrderIDs)
}

// SortedProducts returns the product set in sorted order.
func (f *FilterContext) SortedProducts() []string {
	return sortedKeys(f.Products)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
