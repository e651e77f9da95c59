// Package services – RecommendationService
//
// This file implements RecommendationService, which turns a free-text
// sourcing query plus the running chat history into a list of supplier
// recommendations. Retrieval itself is delegated to the upstream supply
// chain API via the recs client; this service validates input, forwards
// the conversation window, and normalizes the raw records into the chat
// message shape.
//
// Observability: Suggest is OpenTelemetry-instrumented; spans include the
// history length so slow queries can be correlated with context size.
package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/metamorphs/supplygenie-backend/internal/domain"
	"github.com/metamorphs/supplygenie-backend/internal/suppliers"
)

// RecsClient is the outbound contract for supplier retrieval.
type RecsClient interface {
	// Recommendations sends query and history upstream and returns the raw
	// supplier records.
	Recommendations(ctx context.Context, query string, history []suppliers.HistoryItem) ([]suppliers.Record, error)
}

// RecommendationService validates queries and maps upstream supplier
// records into display-ready suppliers.
type RecommendationService struct {
	Client RecsClient
}

// NewRecommendationService constructs a RecommendationService.
func NewRecommendationService(c RecsClient) *RecommendationService {
	return &RecommendationService{Client: c}
}

// Suggest forwards query and history to the upstream API and normalizes
// the result. The query must be non-blank; validation happens before any
// network traffic. Upstream failures are returned unwrapped so callers can
// inspect recs.UpstreamError.
func (s *RecommendationService) Suggest(ctx context.Context, query string, history []suppliers.HistoryItem) ([]domain.Supplier, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Suggest",
		trace.WithAttributes(attribute.Int("history.len", len(history))),
	)
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	records, err := s.Client.Recommendations(ctx, query, history)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Supplier, 0, len(records))
	for i, rec := range records {
		out = append(out, suppliers.Transform(rec, i))
	}
	return out, nil
}
