package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks over the vector store, the
// relational store, and the embedding provider.
type Service struct {
	vector     Pinger
	relational Pinger
	embedding  EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(vector, relational Pinger, embedding EmbeddingChecker) *Service {
	return &Service{vector: vector, relational: relational, embedding: embedding}
}

// Check runs health checks against all components. Any single failure
// degrades the report; the report is unhealthy only when every checked
// component fails.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	ping := func(name string, p Pinger) {
		if err := p.Ping(ctx); err != nil {
			checks[name] = CheckError
		} else {
			checks[name] = CheckOK
		}
	}
	ping("vector_store", s.vector)
	ping("database", s.relational)

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	failures := 0
	for _, v := range checks {
		if v == CheckError {
			failures++
		}
	}

	status := Healthy
	switch {
	case failures == len(checks) && failures > 0:
		status = Unhealthy
	case failures > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
