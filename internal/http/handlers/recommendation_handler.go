// Supplier recommendation HTTP handler.
//
// This file exposes the proxy endpoint that forwards a sourcing query plus
// the running conversation to the external supply chain API:
//   - POST /supply-chain/recommendations
//
// Upstream failures are relayed: the upstream HTTP status and raw error body
// are passed through so clients see exactly what the external service said.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metamorphs/supplygenie-backend/internal/domain"
	"github.com/metamorphs/supplygenie-backend/internal/recs"
	"github.com/metamorphs/supplygenie-backend/internal/services"
	"github.com/metamorphs/supplygenie-backend/internal/suppliers"
)

// RecommendationsRequest is the JSON payload for requesting supplier
// recommendations.
type RecommendationsRequest struct {
	// Query is the natural-language sourcing request.
	Query string `json:"query" example:"stainless steel fasteners, ISO 9001, EU"`
	// ChatHistory is the running conversation, oldest first.
	ChatHistory []suppliers.HistoryItem `json:"chat_history"`
}

// RecommendationsResponse wraps the normalized supplier list.
type RecommendationsResponse struct {
	Suppliers []domain.Supplier `json:"suppliers"`
}

// Recommendations godoc
// @ID          recommendations
// @Summary     Get supplier recommendations
// @Description Forwards the query and chat history to the external supply chain API and returns normalized suppliers. Upstream errors are relayed with their original status and body.
// @Tags        Recommendations
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RecommendationsRequest  true  "Recommendation payload"
//
// @Success     200  {object}  handlers.RecommendationsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing query"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /supply-chain/recommendations [post]
func (h *Handlers) Recommendations(c *gin.Context) {
	var req RecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	sups, err := h.recSvc.Suggest(c.Request.Context(), req.Query, req.ChatHistory)
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuery) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query is required")
			return
		}
		var ue *recs.UpstreamError
		if errors.As(err, &ue) {
			fail(c, ue.Status, ErrCodeUpstream, ue.Body)
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, RecommendationsResponse{Suppliers: sups})
}
