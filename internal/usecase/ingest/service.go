package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sarthakj1997/business-assistant/internal/domain"
)

// Service validates and ingests invoices.
type Service struct {
	store   StructuredWriter
	indexer VectorIndexer
	logger  *zap.Logger
}

// NewService creates the ingest service.
func NewService(store StructuredWriter, indexer VectorIndexer, logger *zap.Logger) *Service {
	return &Service{store: store, indexer: indexer, logger: logger}
}

// Ingest validates the invoice, persists it, then indexes its documents.
// The relational write is the source of truth: an indexing failure after
// a successful insert is returned, leaving the invoice queryable through
// structured lookups only.
func (s *Service) Ingest(ctx context.Context, inv *domain.Invoice) (int64, error) {
	if err := inv.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.Insert(ctx, inv)
	if err != nil {
		return 0, fmt.Errorf("insert invoice %s: %w", inv.OrderID, err)
	}

	if err := s.indexer.Index(ctx, inv, id); err != nil {
		s.logger.Error("invoice stored but not indexed",
			zap.String("order_id", inv.OrderID),
			zap.Int64("invoice_id", id),
			zap.Error(err))
		return id, fmt.Errorf("index invoice %s: %w", inv.OrderID, err)
	}

	s.logger.Info("invoice ingested",
		zap.String("order_id", inv.OrderID),
		zap.Int64("invoice_id", id),
		zap.Int("items", len(inv.Items)))
	return id, nil
}
