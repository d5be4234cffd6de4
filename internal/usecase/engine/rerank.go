package engine

import (
	"sort"

	"github.com/sarthakj1997/business-assistant/internal/domain"
)

// Boosts are additive and independent; a hit can receive both.
const (
	exactOrderBoost  = 0.3
	invoiceTypeBoost = 0.1
)

// Rerank adjusts raw similarity scores with deterministic boosts and
// re-sorts descending. The sort is stable, so equal adjusted scores keep
// their retrieval order. One pass, no re-query: boosted scores may
// exceed 1.0 and are only comparable within this batch.
func Rerank(hits []domain.SearchHit, question string) []domain.SearchHit {
	out := append([]domain.SearchHit(nil), hits...)

	orderID, hasOrder := ExtractOrderID(question)
	for i := range out {
		if hasOrder && out[i].Record.OrderID == orderID {
			out[i].Score += exactOrderBoost
		}
		if out[i].Record.Type == domain.TypeInvoice {
			out[i].Score += invoiceTypeBoost
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
