// Package vector is the vector search client: embeds a question, runs a
// tenant-filtered KNN search over the invoice document index, and parses
// hits back into typed records. It also indexes invoice documents during
// ingestion.
package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sarthakj1997/business-assistant/internal/db"
	"github.com/sarthakj1997/business-assistant/internal/domain"
)

const (
	// KeyPrefix namespaces document hashes in the index backend.
	KeyPrefix = "assistant:docs:"
	// IndexName is the FT index over the document hashes.
	IndexName = "assistant:docs:idx"

	dateLayout = "2006-01-02"
)

// store is the consumer interface for index operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements the vector search client over a db.Store.
type Repo struct {
	store  store
	embed  domain.Embedder
	logger *zap.Logger
}

// New creates a vector repository.
func New(s store, embed domain.Embedder, logger *zap.Logger) *Repo {
	return &Repo{store: s, embed: embed, logger: logger}
}

var returnFields = []string{
	"doc_type", "user_id", "invoice_id", "order_id", "contact_name",
	"invoice_date", "total_price", "city", "country",
	"product_count", "products",
	"product_name", "quantity", "unit_price", "line_total",
	"__vector_score",
}

// Search embeds the question and runs a KNN search scoped to the given
// tenant, returning up to k hits. A backend failure is reported as
// domain.ErrSearchUnavailable: without retrieval there is no answer.
func (r *Repo) Search(ctx context.Context, query string, userID *int64, k int) ([]domain.SearchHit, error) {
	enhanced := enhanceQuery(query)

	emb, err := r.embed.Embed(ctx, enhanced)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	var filters []db.TagFilter
	if userID != nil {
		filters = append(filters, db.TagFilter{Field: "user_id", Value: strconv.FormatInt(*userID, 10)})
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    IndexName,
		Vector:       emb.Embedding,
		K:            k,
		Filters:      filters,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}

	hits := make([]domain.SearchHit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		rec, err := parseRecord(entry.Fields)
		if err != nil {
			r.logger.Warn("skipping malformed index document",
				zap.String("key", entry.Key), zap.Error(err))
			continue
		}
		hits = append(hits, domain.SearchHit{Score: entry.Score, Record: rec})
	}
	return hits, nil
}

// parseRecord converts hash fields into the tagged record union.
func parseRecord(fields map[string]string) (domain.VectorRecord, error) {
	rec := domain.VectorRecord{
		Type:    domain.RecordType(fields["doc_type"]),
		OrderID: fields["order_id"],
	}
	rec.UserID, _ = strconv.ParseInt(fields["user_id"], 10, 64)
	rec.InvoiceID, _ = strconv.ParseInt(fields["invoice_id"], 10, 64)

	switch rec.Type {
	case domain.TypeInvoice:
		inv := &domain.InvoiceFields{
			ContactName: fields["contact_name"],
			City:        fields["city"],
			Country:     fields["country"],
		}
		inv.TotalPrice, _ = strconv.ParseFloat(fields["total_price"], 64)
		if t, err := time.Parse(dateLayout, fields["invoice_date"]); err == nil {
			inv.InvoiceDate = &t
		}
		rec.Invoice = inv

	case domain.TypeProductSummary:
		ps := &domain.ProductSummaryFields{ContactName: fields["contact_name"]}
		ps.ProductCount, _ = strconv.Atoi(fields["product_count"])
		if raw := fields["products"]; raw != "" {
			_ = json.Unmarshal([]byte(raw), &ps.Products)
		}
		rec.ProductSummary = ps

	case domain.TypeLineItem:
		li := &domain.LineItemFields{
			ProductName: fields["product_name"],
			ContactName: fields["contact_name"],
		}
		li.Quantity, _ = strconv.Atoi(fields["quantity"])
		li.UnitPrice, _ = strconv.ParseFloat(fields["unit_price"], 64)
		li.LineTotal, _ = strconv.ParseFloat(fields["line_total"], 64)
		rec.LineItem = li

	default:
		return domain.VectorRecord{}, fmt.Errorf("unknown document type %q", fields["doc_type"])
	}

	return rec, nil
}
