package domain

import "errors"

var (
	// ErrInvalidInvoice signals an ingestion payload violating invoice invariants.
	ErrInvalidInvoice = errors.New("invalid invoice")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a generation backend failure.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrSearchUnavailable signals that the vector backend could not be reached.
	// Retrieval failures are not recovered locally: no context means no answer.
	ErrSearchUnavailable = errors.New("vector search unavailable")
)
