// Package recs holds the HTTP client for the external supplier
// recommendation backend. The backend does all the retrieval and ranking
// work; this client only forwards a query plus conversation history and
// decodes the supplier list, relaying upstream failures verbatim.
package recs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/metamorphs/supplygenie-backend/internal/suppliers"
)

// maxErrorBody caps how much of an upstream error body is retained.
const maxErrorBody = 8 << 10

var (
	upstreamReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of recommendation backend calls.",
		},
		[]string{"status"},
	)
	upstreamLat = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of recommendation backend calls in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(upstreamReqs, upstreamLat)
}

// UpstreamError carries the HTTP status and raw error body of a failed
// backend call so the proxy endpoint can relay both to the caller.
type UpstreamError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("recommendation backend returned %d: %s", e.Status, e.Body)
}

// request is the JSON payload sent to the backend.
type request struct {
	Query       string                  `json:"query"`
	ChatHistory []suppliers.HistoryItem `json:"chat_history"`
}

// response is the JSON payload returned by the backend.
type response struct {
	Suppliers []suppliers.Record `json:"suppliers"`
}

// Client is a thin HTTP client for the recommendation backend. The zero
// value is not usable; construct with NewClient.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a Client for baseURL. A zero timeout leaves the
// transport defaults in place (no overall deadline).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Recommendations forwards query and history to the backend and returns the
// decoded supplier records. Non-2xx responses yield *UpstreamError; network
// and decoding failures yield the underlying error.
func (c *Client) Recommendations(ctx context.Context, query string, history []suppliers.HistoryItem) ([]suppliers.Record, error) {
	tr := otel.Tracer("recs/Client")
	ctx, span := tr.Start(ctx, "Recommendations",
		trace.WithAttributes(attribute.Int("history.len", len(history))),
	)
	defer span.End()

	if history == nil {
		history = []suppliers.HistoryItem{}
	}
	body, err := json.Marshal(request{Query: query, ChatHistory: history})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	upstreamLat.Observe(time.Since(start).Seconds())
	if err != nil {
		upstreamReqs.WithLabelValues("error").Inc()
		return nil, err
	}
	defer resp.Body.Close()
	upstreamReqs.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(raw)),
		}
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded.Suppliers, nil
}
