// Package chi exposes the assistant over HTTP: question answering,
// semantic search, conversation history, invoice ingestion, and health.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sarthakj1997/business-assistant/internal/domain"
	healthuc "github.com/sarthakj1997/business-assistant/internal/usecase/health"
	sessionuc "github.com/sarthakj1997/business-assistant/internal/usecase/session"
)

const (
	defaultSessionID = "default"
	defaultSearchK   = 5
	maxSearchK       = 50
)

// Engine answers questions.
type Engine interface {
	Answer(ctx context.Context, question string, userID *int64, sessionID string) (*domain.Response, error)
}

// Searcher runs a raw semantic search without answer composition.
type Searcher interface {
	Search(ctx context.Context, query string, userID *int64, k int) ([]domain.SearchHit, error)
}

// Ingestor stores and indexes invoices.
type Ingestor interface {
	Ingest(ctx context.Context, inv *domain.Invoice) (int64, error)
}

// HistoryReader exposes a session's conversation window.
type HistoryReader interface {
	History(sessionID string) []sessionuc.Turn
}

// errorCode is the machine-readable error discriminator in error payloads.
type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeValidationFailed   errorCode = "validation_failed"
	codeSearchUnavailable  errorCode = "search_unavailable"
	codeEmbeddingProvider  errorCode = "embedding_provider_error"
	codeGenerationProvider errorCode = "generation_provider_error"
	codeInternalError      errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use cases into HTTP handlers.
type Server struct {
	engine        Engine
	search        Searcher
	ingest        Ingestor
	history       HistoryReader
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	engine Engine,
	search Searcher,
	ingest Ingestor,
	history HistoryReader,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		engine:  engine,
		search:  search,
		ingest:  ingest,
		history: history,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInvoice, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrSearchUnavailable, http.StatusBadGateway, codeSearchUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, codeGenerationProvider),
	}
	return s
}

// Routes registers the API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/rag/ask", s.handleAsk)
	r.Get("/rag/search", s.handleSearch)
	r.Get("/rag/history/{sessionID}", s.handleHistory)
	r.Post("/invoices", s.handleIngest)
	r.Get("/health", s.handleHealth)
}

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
	UserID    *int64 `json:"user_id"`
}

// handleAsk handles POST /rag/ask.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "question is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = defaultSessionID
	}

	resp, err := s.engine.Answer(r.Context(), req.Question, req.UserID, req.SessionID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type searchHitResponse struct {
	Score    float64           `json:"score"`
	Type     domain.RecordType `json:"type"`
	OrderID  string            `json:"order_id,omitempty"`
	Customer string            `json:"customer,omitempty"`
	Product  string            `json:"product,omitempty"`
}

type searchResponse struct {
	Query string              `json:"query"`
	Items []searchHitResponse `json:"items"`
	Total int                 `json:"total"`
}

// handleSearch handles GET /rag/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "q is required")
		return
	}

	k := defaultSearchK
	if v := r.URL.Query().Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxSearchK {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"k must be between 1 and "+strconv.Itoa(maxSearchK))
			return
		}
		k = n
	}

	var userID *int64
	if v := r.URL.Query().Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id must be an integer")
			return
		}
		userID = &id
	}

	hits, err := s.search.Search(r.Context(), query, userID, k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchHitResponse, len(hits))
	for i, h := range hits {
		items[i] = searchHitResponse{
			Score:    h.Score,
			Type:     h.Record.Type,
			OrderID:  h.Record.OrderID,
			Customer: h.Record.ContactName(),
		}
		if li := h.Record.LineItem; li != nil {
			items[i].Product = li.ProductName
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query: query,
		Items: items,
		Total: len(items),
	})
}

type historyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type historyResponse struct {
	SessionID string           `json:"session_id"`
	History   []historyMessage `json:"history"`
}

// handleHistory handles GET /rag/history/{sessionID}. Each stored turn is
// flattened into a human message followed by an assistant message.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns := s.history.History(sessionID)
	messages := make([]historyMessage, 0, 2*len(turns))
	for _, turn := range turns {
		messages = append(messages,
			historyMessage{Role: "human", Content: turn.Question},
			historyMessage{Role: "assistant", Content: turn.Answer},
		)
	}

	writeJSON(w, http.StatusOK, historyResponse{
		SessionID: sessionID,
		History:   messages,
	})
}

type ingestItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type ingestRequest struct {
	UserID      int64        `json:"user_id"`
	OrderID     string       `json:"order_id"`
	ContactName string       `json:"contact_name"`
	InvoiceDate string       `json:"invoice_date"`
	TotalPrice  float64      `json:"total_price"`
	City        string       `json:"city"`
	Country     string       `json:"country"`
	Items       []ingestItem `json:"items"`
}

type ingestResponse struct {
	InvoiceID int64  `json:"invoice_id"`
	OrderID   string `json:"order_id"`
}

// handleIngest handles POST /invoices.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	inv := domain.Invoice{
		UserID:      req.UserID,
		OrderID:     req.OrderID,
		ContactName: req.ContactName,
		TotalPrice:  req.TotalPrice,
		City:        req.City,
		Country:     req.Country,
	}
	if req.InvoiceDate != "" {
		t, err := time.Parse("2006-01-02", req.InvoiceDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "invoice_date must be YYYY-MM-DD")
			return
		}
		inv.InvoiceDate = &t
	}
	for _, item := range req.Items {
		inv.Items = append(inv.Items, domain.LineItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}

	id, err := s.ingest.Ingest(r.Context(), &inv)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingestResponse{InvoiceID: id, OrderID: inv.OrderID})
}

type healthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInvoice,
		domain.ErrSearchUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
