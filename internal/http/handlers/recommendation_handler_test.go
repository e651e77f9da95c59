package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/metamorphs/supplygenie-backend/internal/domain"
	"github.com/metamorphs/supplygenie-backend/internal/recs"
	"github.com/metamorphs/supplygenie-backend/internal/services"
	"github.com/metamorphs/supplygenie-backend/internal/suppliers"
)

// Flexible recommendation service stub
type stubRecSvc struct {
	suggest func(context.Context, string, []suppliers.HistoryItem) ([]domain.Supplier, error)

	gotQuery   string
	gotHistory []suppliers.HistoryItem
}

func (s *stubRecSvc) Suggest(ctx context.Context, query string, history []suppliers.HistoryItem) ([]domain.Supplier, error) {
	s.gotQuery = query
	s.gotHistory = history
	if s.suggest != nil {
		return s.suggest(ctx, query, history)
	}
	return []domain.Supplier{}, nil
}

type stubChatSvcRec struct{}

func (stubChatSvcRec) List(ctx context.Context, userID string) ([]domain.Chat, error) {
	return nil, nil
}
func (stubChatSvcRec) Get(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	return nil, nil
}
func (stubChatSvcRec) Create(ctx context.Context, userID, chatName string) (*domain.Chat, error) {
	return nil, nil
}
func (stubChatSvcRec) AppendMessage(ctx context.Context, userID, chatID string, msg domain.Message) (*domain.Chat, error) {
	return nil, nil
}
func (stubChatSvcRec) Rename(ctx context.Context, userID, chatID, chatName string) (*domain.Chat, error) {
	return nil, nil
}
func (stubChatSvcRec) Delete(ctx context.Context, userID, chatID string) error {
	return nil
}

func newRecRouter(t *testing.T, svc RecommendationService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := New(stubChatSvcRec{}, svc)
	r := gin.New()
	r.POST("/supply-chain/recommendations", h.Recommendations)
	return r
}

func TestRecommendations_Success(t *testing.T) {
	stub := &stubRecSvc{suggest: func(ctx context.Context, q string, h []suppliers.HistoryItem) ([]domain.Supplier, error) {
		return []domain.Supplier{{ID: "supplier_1", Name: "Acme Fasteners"}}, nil
	}}
	r := newRecRouter(t, stub)

	w := doJSON(r, http.MethodPost, "/supply-chain/recommendations", gin.H{
		"query": "stainless bolts",
		"chat_history": []gin.H{
			{"role": "user", "content": "need M3 bolts"},
		},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var out RecommendationsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Suppliers) != 1 || out.Suppliers[0].Name != "Acme Fasteners" {
		t.Fatalf("suppliers = %+v", out.Suppliers)
	}
	if stub.gotQuery != "stainless bolts" || len(stub.gotHistory) != 1 {
		t.Fatalf("forwarded query=%q history=%+v", stub.gotQuery, stub.gotHistory)
	}
}

func TestRecommendations_EmptyResult(t *testing.T) {
	r := newRecRouter(t, &stubRecSvc{})

	w := doJSON(r, http.MethodPost, "/supply-chain/recommendations", gin.H{"query": "unobtainium"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var out RecommendationsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Suppliers == nil || len(out.Suppliers) != 0 {
		t.Fatalf("suppliers = %#v, want empty array", out.Suppliers)
	}
}

func TestRecommendations_MissingQuery(t *testing.T) {
	stub := &stubRecSvc{suggest: func(ctx context.Context, q string, h []suppliers.HistoryItem) ([]domain.Supplier, error) {
		return nil, services.ErrEmptyQuery
	}}
	r := newRecRouter(t, stub)

	w := doJSON(r, http.MethodPost, "/supply-chain/recommendations", gin.H{"query": "  "}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var resp ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != ErrCodeBadRequest || resp.Message != "query is required" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestRecommendations_UpstreamErrorRelayed(t *testing.T) {
	stub := &stubRecSvc{suggest: func(ctx context.Context, q string, h []suppliers.HistoryItem) ([]domain.Supplier, error) {
		return nil, &recs.UpstreamError{Status: http.StatusBadGateway, Body: "model overloaded"}
	}}
	r := newRecRouter(t, stub)

	w := doJSON(r, http.MethodPost, "/supply-chain/recommendations", gin.H{"query": "bolts"}, nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want upstream 502", w.Code)
	}
	var resp ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != ErrCodeUpstream || resp.Message != "model overloaded" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestRecommendations_GenericFailure(t *testing.T) {
	stub := &stubRecSvc{suggest: func(ctx context.Context, q string, h []suppliers.HistoryItem) ([]domain.Supplier, error) {
		return nil, errors.New("boom")
	}}
	r := newRecRouter(t, stub)

	w := doJSON(r, http.MethodPost, "/supply-chain/recommendations", gin.H{"query": "bolts"}, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
}

func TestRecommendations_InvalidJSON(t *testing.T) {
	r := newRecRouter(t, &stubRecSvc{})

	w := doJSON(r, http.MethodPost, "/supply-chain/recommendations", "not an object", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
}
