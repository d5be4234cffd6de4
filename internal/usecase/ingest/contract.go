// Package ingest writes invoices into both stores: the relational store
// for structured queries and the vector index for semantic retrieval.
package ingest

import (
	"context"

	"github.com/sarthakj1997/business-assistant/internal/domain"
)

// StructuredWriter persists an invoice with its line items and returns
// the assigned primary key.
type StructuredWriter interface {
	Insert(ctx context.Context, inv *domain.Invoice) (int64, error)
}

// VectorIndexer embeds and stores the invoice's searchable documents.
type VectorIndexer interface {
	Index(ctx context.Context, inv *domain.Invoice, invoiceID int64) error
}
