// Package engine is the hybrid retrieval and answer-composition core:
// it routes each question to a structured lookup or a semantic search,
// narrows structured queries with entities extracted from retrieval
// results, re-ranks hits deterministically, and composes bounded
// instructions for the generation backend.
package engine

import (
	"context"

	"github.com/sarthakj1997/business-assistant/internal/domain"
)

// VectorSearcher retrieves scored records from the vector index.
type VectorSearcher interface {
	Search(ctx context.Context, query string, userID *int64, k int) ([]domain.SearchHit, error)
}

// StructuredStore executes read queries against the relational store.
// Implementations never return an error: failures surface as a single
// {"error": message} row.
type StructuredStore interface {
	Select(ctx context.Context, q domain.Query) []domain.StructuredRow
}

// Generator produces an answer from an instruction prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// History is the conversational memory consumed and appended by the engine.
type History interface {
	Render(sessionID string, maxTurns int) string
	Append(sessionID, question, answer string)
}
