package engine

import (
	"testing"

	"github.com/sarthakj1997/business-assistant/internal/domain"
)

func TestRerank_ExactOrderBoostDominates(t *testing.T) {
	hits := []domain.SearchHit{
		invoiceHit(0.85, "10300", "A B", nil),
		lineItemHit(0.80, "10248", "Stapler"),
	}

	out := Rerank(hits, "what is in order 10248?")
	if out[0].Record.OrderID != "10248" {
		t.Errorf("top hit = %s, want boosted 10248", out[0].Record.OrderID)
	}
	// 0.80 + 0.3 exact-order boost
	if got := out[0].Score; got < 1.09 || got > 1.11 {
		t.Errorf("boosted score = %v, want 1.10", got)
	}
}

func TestRerank_InvoiceTypeBoost(t *testing.T) {
	hits := []domain.SearchHit{
		lineItemHit(0.80, "10248", "Stapler"),
		invoiceHit(0.75, "10249", "A B", nil),
	}

	out := Rerank(hits, "office supplies")
	if out[0].Record.Type != domain.TypeInvoice {
		t.Errorf("top hit type = %s, want invoice (+0.1 boost)", out[0].Record.Type)
	}
}

func TestRerank_StableOnTies(t *testing.T) {
	hits := []domain.SearchHit{
		lineItemHit(0.80, "10248", "First"),
		lineItemHit(0.80, "10249", "Second"),
		lineItemHit(0.80, "10250", "Third"),
	}

	out := Rerank(hits, "anything")
	for i, want := range []string{"First", "Second", "Third"} {
		if out[i].Record.LineItem.ProductName != want {
			t.Fatalf("tie order broken at %d: got %s, want %s", i, out[i].Record.LineItem.ProductName, want)
		}
	}
}

func TestRerank_DoesNotMutateInput(t *testing.T) {
	hits := []domain.SearchHit{
		lineItemHit(0.50, "10248", "Stapler"),
		invoiceHit(0.90, "10249", "A B", nil),
	}

	_ = Rerank(hits, "order 10248")
	if hits[0].Score != 0.50 || hits[1].Score != 0.90 {
		t.Error("input scores must not change")
	}
	if hits[0].Record.OrderID != "10248" {
		t.Error("input order must not change")
	}
}

// Ranking the output again keeps the order when no identifier token is
// present: boosts are deterministic functions of the record.
func TestRerank_ReapplicationKeepsOrder(t *testing.T) {
	hits := []domain.SearchHit{
		lineItemHit(0.95, "10300", "Stapler"),
		invoiceHit(0.70, "10248", "A B", nil),
		lineItemHit(0.50, "10248", "Notebook"),
	}

	first := Rerank(hits, "office gear")
	second := Rerank(first, "office gear")
	for i := range first {
		if first[i].Record.OrderID != second[i].Record.OrderID ||
			first[i].Record.Type != second[i].Record.Type {
			t.Fatalf("order changed on re-application at %d", i)
		}
	}
}
