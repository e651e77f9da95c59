// Chat HTTP handlers.
//
// This file exposes REST endpoints for the per-user chat history:
//   - GET    /chats   (list the user's chats, ETag support)
//   - POST   /chats   (create a chat)
//   - PATCH  /chats   (append a message to a chat)
//   - PUT    /chats   (rename a chat)
//   - DELETE /chats   (delete a chat)
//
// The user is identified by an explicit user_id carried in the query string
// (GET) or the JSON body (all other verbs); there is no path parameter.
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/metamorphs/supplygenie-backend/internal/domain"
	"github.com/metamorphs/supplygenie-backend/internal/http/middleware"
	"github.com/metamorphs/supplygenie-backend/internal/repo"
	"github.com/metamorphs/supplygenie-backend/internal/services"
	"github.com/metamorphs/supplygenie-backend/internal/suppliers"
)

//
// Service contracts (context-aware)
//

// ChatService defines chat lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// List returns the user's full chat history (empty for unknown users).
	List(ctx context.Context, userID string) ([]domain.Chat, error)
	// Get fetches one chat from the user's history.
	Get(ctx context.Context, userID, chatID string) (*domain.Chat, error)
	// Create starts a new named chat for userID.
	Create(ctx context.Context, userID, chatName string) (*domain.Chat, error)
	// AppendMessage appends a message to a chat and returns the updated chat.
	AppendMessage(ctx context.Context, userID, chatID string, msg domain.Message) (*domain.Chat, error)
	// Rename changes a chat's display name and returns the updated chat.
	Rename(ctx context.Context, userID, chatID, chatName string) (*domain.Chat, error)
	// Delete removes a chat from the user's history.
	Delete(ctx context.Context, userID, chatID string) error
}

// RecommendationService defines supplier retrieval consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RecommendationService interface {
	// Suggest forwards a query plus conversation history upstream and returns
	// normalized suppliers.
	Suggest(ctx context.Context, query string, history []suppliers.HistoryItem) ([]domain.Supplier, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for chats and supplier recommendations.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	chatSvc ChatService
	recSvc  RecommendationService

	// IdemTTL bounds how long a stored idempotent result can be replayed.
	IdemTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(chatSvc ChatService, recSvc RecommendationService) *Handlers {
	return &Handlers{chatSvc: chatSvc, recSvc: recSvc, IdemTTL: 24 * time.Hour}
}

// db exposes the underlying GORM handle when the chat service is the concrete
// implementation. Stats and idempotency lookups are best effort and skipped
// when a fake service is injected in tests.
func (h *Handlers) db() *gorm.DB {
	if svc, ok := h.chatSvc.(*services.ChatService); ok {
		return svc.DB
	}
	return nil
}

//
// DTOs
//

// CreateChatRequest is the JSON payload for creating a chat.
type CreateChatRequest struct {
	// UserID identifies the owner of the chat history.
	UserID string `json:"user_id" binding:"required" example:"firebase-uid-123"`
	// ChatName is the display name for the new chat.
	ChatName string `json:"chat_name" binding:"required" example:"Aluminum extrusion sourcing"`
}

// AppendMessageRequest is the JSON payload for appending a message to a chat.
type AppendMessageRequest struct {
	UserID string `json:"user_id" binding:"required" example:"firebase-uid-123"`
	ChatID string `json:"chat_id" binding:"required" example:"chat_1736433000000"`
	// Message is the message to append; missing id/type/timestamp are defaulted.
	Message *domain.Message `json:"message" binding:"required"`
}

// RenameChatRequest is the JSON payload for renaming a chat.
type RenameChatRequest struct {
	UserID string `json:"user_id" binding:"required" example:"firebase-uid-123"`
	ChatID string `json:"chat_id" binding:"required" example:"chat_1736433000000"`
	// NewChatName is the replacement display name (1-255 chars).
	NewChatName string `json:"new_chat_name" binding:"required,min=1,max=255" example:"Q3 packaging suppliers"`
}

// DeleteChatRequest is the JSON payload for deleting a chat.
type DeleteChatRequest struct {
	UserID string `json:"user_id" binding:"required" example:"firebase-uid-123"`
	ChatID string `json:"chat_id" binding:"required" example:"chat_1736433000000"`
}

// ChatResponse wraps a single chat resource.
type ChatResponse struct {
	Chat *domain.Chat `json:"chat"`
}

// ListChatsResponse wraps the user's full chat history.
type ListChatsResponse struct {
	Chats []domain.Chat `json:"chats"`
}

// DeleteChatResponse acknowledges a successful delete.
type DeleteChatResponse struct {
	Success bool `json:"success" example:"true"`
}

//
// Handlers
//

// ListChats godoc
// @ID          listChats
// @Summary     List a user's chats
// @Description Returns the user's full chat history in creation order. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Chats
// @Produce     json
//
// @Param       user_id        query   string  true  "User ID"                      example(firebase-uid-123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"   example(W/\"abc123\")
//
// @Success     200  {object} handlers.ListChatsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Missing user_id"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats [get]
func (h *Handlers) ListChats(c *gin.Context) {
	ctx := c.Request.Context()
	uid := strings.TrimSpace(c.Query("user_id"))
	if uid == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id is required")
		return
	}

	// ETag pre-check (best effort).
	if db := h.db(); db != nil {
		count, maxTS, err := repo.UserChatsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"chats:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	chats, err := h.chatSvc.List(ctx, uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListChatsResponse{Chats: chats})
}

// CreateChat godoc
// @ID          createChat
// @Summary     Create a new chat
// @Description Creates a named chat in the user's history and returns it. The user document is created on first use.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateChatRequest  true  "Create chat payload"
//
// @Success     201  {object}  handlers.ChatResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chats [post]
func (h *Handlers) CreateChat(c *gin.Context) {
	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id and chat_name are required")
		return
	}

	ch, err := h.chatSvc.Create(c.Request.Context(), req.UserID, req.ChatName)
	if err != nil {
		if errors.Is(err, services.ErrEmptyChatName) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat_name must not be blank")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, ChatResponse{Chat: ch})
}

// AppendMessage godoc
// @ID          appendMessage
// @Summary     Append a message to a chat
// @Description Appends one message to the identified chat and returns the updated chat. Supports Idempotency-Key replay.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Deduplicates retried appends"  example(append-7f3a)
// @Param       body             body    handlers.AppendMessageRequest  true  "Append payload"
//
// @Success     200  {object}  handlers.ChatResponse
// @Header      200  {string}  Idempotency-Replayed "true when a stored result was replayed"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chats [patch]
func (h *Handlers) AppendMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id, chat_id and message are required")
		return
	}

	// Replay a previously completed append when the client retries with the
	// same Idempotency-Key.
	key, hasKey := middleware.GetIdempotencyKey(c)
	db := h.db()
	if hasKey && db != nil {
		rec, err := repo.GetIdempotency(ctx, db, req.UserID, key, time.Now().UTC())
		if err == nil && rec != nil {
			chat, gErr := h.chatSvc.Get(ctx, req.UserID, rec.ChatID)
			if gErr == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, rec.Status, ChatResponse{Chat: chat})
				return
			}
		}
	}

	chat, err := h.chatSvc.AppendMessage(ctx, req.UserID, req.ChatID, *req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message content must not be blank")
		case errors.Is(err, services.ErrChatNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	// Record the completed append for future replays (best effort).
	if hasKey && db != nil {
		_, _ = repo.CreateIdempotency(ctx, db, req.UserID, key, req.ChatID, http.StatusOK, h.IdemTTL)
	}

	ok(c, http.StatusOK, ChatResponse{Chat: chat})
}

// RenameChat godoc
// @ID          renameChat
// @Summary     Rename a chat
// @Description Changes the chat's display name and returns the updated chat. Messages and chat_id are untouched.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RenameChatRequest  true  "Rename payload"
//
// @Success     200  {object}  handlers.ChatResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chats [put]
func (h *Handlers) RenameChat(c *gin.Context) {
	var req RenameChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id, chat_id and new_chat_name are required")
		return
	}

	chat, err := h.chatSvc.Rename(c.Request.Context(), req.UserID, req.ChatID, req.NewChatName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyChatName):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "new_chat_name must not be blank")
		case errors.Is(err, services.ErrChatNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, ChatResponse{Chat: chat})
}

// DeleteChat godoc
// @ID          deleteChat
// @Summary     Delete a chat
// @Description Removes the chat from the user's history. Deleting an unknown chat_id for an existing user succeeds; an unknown user returns 404.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.DeleteChatRequest  true  "Delete payload"
//
// @Success     200  {object}  handlers.DeleteChatResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chats [delete]
func (h *Handlers) DeleteChat(c *gin.Context) {
	var req DeleteChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id and chat_id are required")
		return
	}

	if err := h.chatSvc.Delete(c.Request.Context(), req.UserID, req.ChatID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, DeleteChatResponse{Success: true})
}
