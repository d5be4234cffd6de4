package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sarthakj1997/business-assistant/internal/domain"
	"github.com/sarthakj1997/business-assistant/internal/metrics"
)

// Config tunes the engine. Zero values fall back to the defaults below.
type Config struct {
	// TopK is the number of results the answer context is built from.
	// The initial retrieval fetches twice this to give the re-ranker a
	// wider candidate pool.
	TopK int

	// HistoryTurns is the number of past question/answer pairs rendered
	// into the prompt.
	HistoryTurns int
}

const (
	defaultTopK         = 5
	defaultHistoryTurns = 5
)

// Service answers questions over the invoice corpus. Each question is
// routed to a structured lookup or a semantic pass, and every call
// produces a Response; only retrieval or generation outages surface as
// errors.
type Service struct {
	search   VectorSearcher
	store    StructuredStore
	gen      Generator
	sessions History
	logger   *zap.Logger
	cfg      Config
}

// NewService creates the engine.
func NewService(search VectorSearcher, store StructuredStore, gen Generator, sessions History, logger *zap.Logger, cfg Config) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = defaultHistoryTurns
	}
	return &Service{
		search:   search,
		store:    store,
		gen:      gen,
		sessions: sessions,
		logger:   logger,
		cfg:      cfg,
	}
}

// Answer resolves one question within a session. The returned error is
// non-nil only when the vector index or the generation backend is
// unavailable; structured-query failures are folded into the response.
func (s *Service) Answer(ctx context.Context, question string, userID *int64, sessionID string) (*domain.Response, error) {
	history := s.sessions.Render(sessionID, s.cfg.HistoryTurns)
	if history == "" {
		history = HistoryPlaceholder
	}

	if orderID, ok := ExtractOrderID(question); ok {
		return s.answerOrderLookup(ctx, question, orderID, userID, sessionID, history)
	}

	hits, err := s.search.Search(ctx, question, userID, 2*s.cfg.TopK)
	if err != nil {
		return nil, err
	}

	filters := ExtractFilters(hits)
	ranked := Rerank(hits, question)
	if len(ranked) > s.cfg.TopK {
		ranked = ranked[:s.cfg.TopK]
	}
	decision := Classify(question, filters)

	thinking := []string{
		fmt.Sprintf("Retrieved %d candidates from the vector index.", len(hits)),
		fmt.Sprintf("Extracted %d customers, %d orders, %d products from results.",
			len(filters.Customers), len(filters.OrderIDs), len(filters.Products)),
		fmt.Sprintf("Strategy: %s (rule: %s).", decision.Strategy, decision.Rule),
	}
	s.logger.Debug("question routed",
		zap.String("strategy", string(decision.Strategy)),
		zap.String("rule", decision.Rule),
		zap.Int("candidates", len(hits)))

	var resp *domain.Response
	if decision.Strategy == StrategyDirectSQL {
		resp, err = s.answerStructured(ctx, question, filters, userID, sessionID, history, thinking)
	} else {
		resp, err = s.answerSemantic(ctx, question, ranked, sessionID, history, thinking)
	}
	if err != nil {
		return nil, err
	}

	metrics.QuestionsTotal.WithLabelValues(string(decision.Strategy)).Inc()
	s.sessions.Append(sessionID, question, resp.Answer)
	return resp, nil
}

// answerOrderLookup resolves a question carrying an exact order
// identifier. No retrieval, no ranking: the identifier wins outright.
func (s *Service) answerOrderLookup(ctx context.Context, question, orderID string, userID *int64, sessionID, history string) (*domain.Response, error) {
	thinking := []string{
		fmt.Sprintf("Detected order identifier %s; resolving by direct lookup.", orderID),
	}

	q := OrderLookupQuery(orderID, userID)
	rows := s.store.Select(ctx, q)

	sources := domain.EmptySources()
	sources.DatabaseQuery = &q.Text
	sources.SQLResults = rows

	var answer string
	if len(rows) == 0 {
		answer = fmt.Sprintf("No order found with ID %s.", orderID)
	} else {
		prompt := fmt.Sprintf(structuredPrompt, history, question, serializeRows(rows))
		var err error
		answer, err = s.gen.Generate(ctx, prompt, structuredMaxTokens)
		if err != nil {
			return nil, err
		}
	}

	metrics.QuestionsTotal.WithLabelValues(string(StrategyDirectSQL)).Inc()
	s.sessions.Append(sessionID, question, answer)

	return &domain.Response{
		Thinking:  thinking,
		Answer:    answer,
		Sources:   sources,
		SessionID: sessionID,
	}, nil
}

func (s *Service) answerStructured(ctx context.Context, question string, filters *domain.FilterContext, userID *int64, sessionID, history string, thinking []string) (*domain.Response, error) {
	q := BuildQuery(question, filters, userID)
	rows := s.store.Select(ctx, q)
	thinking = append(thinking, fmt.Sprintf("Structured query returned %d rows.", len(rows)))

	prompt := fmt.Sprintf(structuredPrompt, history, question, serializeRows(rows))
	answer, err := s.gen.Generate(ctx, prompt, structuredMaxTokens)
	if err != nil {
		return nil, err
	}

	sources := domain.EmptySources()
	sources.DatabaseQuery = &q.Text
	sources.SQLResults = rows

	return &domain.Response{
		Thinking:  thinking,
		Answer:    answer,
		Sources:   sources,
		SessionID: sessionID,
	}, nil
}

func (s *Service) answerSemantic(ctx context.Context, question string, ranked []domain.SearchHit, sessionID, history string, thinking []string) (*domain.Response, error) {
	contextText := semanticContext(ranked)
	if contextText == "" {
		thinking = append(thinking, "No candidate cleared the relevance threshold.")
		return &domain.Response{
			Thinking:  thinking,
			Answer:    NoRelevantResults,
			Sources:   domain.EmptySources(),
			SessionID: sessionID,
		}, nil
	}

	prompt := fmt.Sprintf(semanticPrompt, history, contextText, question)
	answer, err := s.gen.Generate(ctx, prompt, semanticMaxTokens)
	if err != nil {
		return nil, err
	}

	sources := domain.EmptySources()
	sources.VectorSearch = formatSources(ranked)

	return &domain.Response{
		Thinking:  thinking,
		Answer:    answer,
		Sources:   sources,
		SessionID: sessionID,
	}, nil
}
