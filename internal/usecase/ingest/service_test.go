package ingest

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/sarthakj1997/business-assistant/internal/domain"
)

// --- Mocks ---

type mockWriter struct {
	id    int64
	err   error
	calls int
}

func (m *mockWriter) Insert(_ context.Context, _ *domain.Invoice) (int64, error) {
	m.calls++
	return m.id, m.err
}

type mockIndexer struct {
	err    error
	calls  int
	lastID int64
}

func (m *mockIndexer) Index(_ context.Context, _ *domain.Invoice, invoiceID int64) error {
	m.calls++
	m.lastID = invoiceID
	return m.err
}

func validInvoice() *domain.Invoice {
	return &domain.Invoice{
		UserID:      7,
		OrderID:     "10248",
		ContactName: "Mario Pontes",
		TotalPrice:  42.5,
		Items: []domain.LineItem{
			{ProductName: "Stapler", Quantity: 2, UnitPrice: 9.5, LineTotal: 19},
		},
	}
}

// --- Tests ---

func TestIngest_Success(t *testing.T) {
	w := &mockWriter{id: 42}
	idx := &mockIndexer{}

	svc := NewService(w, idx, zap.NewNop())
	id, err := svc.Ingest(context.Background(), validInvoice())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
	if idx.lastID != 42 {
		t.Errorf("indexer got id %d, want the assigned primary key", idx.lastID)
	}
}

func TestIngest_InvalidInvoice(t *testing.T) {
	w := &mockWriter{}
	idx := &mockIndexer{}

	inv := validInvoice()
	inv.OrderID = ""

	svc := NewService(w, idx, zap.NewNop())
	_, err := svc.Ingest(context.Background(), inv)
	if !errors.Is(err, domain.ErrInvalidInvoice) {
		t.Fatalf("err = %v, want ErrInvalidInvoice", err)
	}
	if w.calls != 0 || idx.calls != 0 {
		t.Error("invalid invoice must not reach the stores")
	}
}

func TestIngest_InsertFailure(t *testing.T) {
	w := &mockWriter{err: errors.New("unique violation")}
	idx := &mockIndexer{}

	svc := NewService(w, idx, zap.NewNop())
	if _, err := svc.Ingest(context.Background(), validInvoice()); err == nil {
		t.Fatal("expected error")
	}
	if idx.calls != 0 {
		t.Error("failed insert must not be indexed")
	}
}

func TestIngest_IndexFailureReturnsID(t *testing.T) {
	w := &mockWriter{id: 42}
	idx := &mockIndexer{err: errors.New("embed timeout")}

	svc := NewService(w, idx, zap.NewNop())
	id, err := svc.Ingest(context.Background(), validInvoice())
	if err == nil {
		t.Fatal("expected error")
	}
	if id != 42 {
		t.Errorf("id = %d, want the stored key even when indexing fails", id)
	}
}
