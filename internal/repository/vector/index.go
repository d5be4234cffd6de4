package vector

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarthakj1997/business-assistant/internal/db"
)

// HNSWConfig tunes the vector index build.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// EnsureIndex creates the document FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context, dimensions int, hnsw HNSWConfig) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:        IndexName,
		StorageType: db.StorageHash,
		Prefixes:    []string{KeyPrefix},
		Fields: []db.IndexField{
			{Name: "doc_type", Type: db.IndexFieldTag},
			{Name: "user_id", Type: db.IndexFieldTag},
			{Name: "order_id", Type: db.IndexFieldTag},
			{Name: "contact_name", Type: db.IndexFieldTag},
			{Name: "invoice_date", Type: db.IndexFieldTag},
			{Name: "product_name", Type: db.IndexFieldTag},
			{Name: "total_price", Type: db.IndexFieldNumeric},
			{Name: "quantity", Type: db.IndexFieldNumeric},
			{Name: "content", Type: db.IndexFieldText},
			{
				Name:              "vector",
				Type:              db.IndexFieldVector,
				VectorDim:         dimensions,
				VectorAlgo:        db.VectorHNSW,
				VectorDistance:    db.DistanceCosine,
				VectorM:           hnsw.M,
				VectorEFConstruct: hnsw.EFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		// Lost race with another replica creating the same index.
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}
