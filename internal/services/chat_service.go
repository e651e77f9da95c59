// Package services – ChatService
//
// This file implements the ChatService, which manages the lifecycle of a
// user's chat document. It validates and normalizes chat names, fills in
// message defaults, and coordinates repository operations for listing,
// creating, appending to, renaming, and deleting chats.
//
// Service-level errors (e.g. ErrChatNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/metamorphs/supplygenie-backend/internal/domain"
)

// ChatRepo defines the repository contract required by ChatService.
// Implementations are responsible for persistence of the per-user chat
// document.
type ChatRepo interface {
	// ListChats returns the user's ordered chat history (empty when the
	// user has no document).
	ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error)

	// GetChat fetches one chat from the user's history.
	GetChat(ctx context.Context, db *gorm.DB, userID, chatID string) (*domain.Chat, error)

	// CreateChat appends a new empty chat, creating the user document when
	// absent.
	CreateChat(ctx context.Context, db *gorm.DB, userID, chatName string) (*domain.Chat, error)

	// AppendMessage appends a message to the identified chat.
	AppendMessage(ctx context.Context, db *gorm.DB, userID, chatID string, msg domain.Message) (*domain.Chat, error)

	// RenameChat sets the chat's display name.
	RenameChat(ctx context.Context, db *gorm.DB, userID, chatID, chatName string) (*domain.Chat, error)

	// DeleteChat removes the chat from the user's history.
	DeleteChat(ctx context.Context, db *gorm.DB, userID, chatID string) error
}

// ChatService provides chat-level operations over the per-user document.
// It enforces name rules and message defaults; all state lives in the store.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the chat repository used by this service.
	Repo ChatRepo

	// NameMaxLen caps stored chat names by rune length.
	NameMaxLen int
}

// NewChatService constructs a ChatService with sane defaults for name handling.
func NewChatService(db *gorm.DB, r ChatRepo) *ChatService {
	return &ChatService{
		DB:         db,
		Repo:       r,
		NameMaxLen: 120,
	}
}

// List returns the user's chat history. Unknown users get an empty slice,
// never an error.
func (s *ChatService) List(ctx context.Context, userID string) ([]domain.Chat, error) {
	return s.Repo.ListChats(ctx, s.DB, userID)
}

// Get fetches one chat from the user's history.
func (s *ChatService) Get(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	chat, err := s.Repo.GetChat(ctx, s.DB, userID, chatID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	return chat, err
}

// Create appends a new empty chat named chatName to the user's history,
// creating the user document when absent. Names are normalized, trimmed,
// and clipped.
func (s *ChatService) Create(ctx context.Context, userID, chatName string) (*domain.Chat, error) {
	chatName = normalizeName(chatName)
	if chatName == "" {
		return nil, ErrEmptyChatName
	}
	return s.Repo.CreateChat(ctx, s.DB, userID, s.clip(chatName))
}

// AppendMessage appends msg to the identified chat and returns the updated
// chat. Missing id, timestamp, and type are filled with defaults before the
// message is persisted.
func (s *ChatService) AppendMessage(ctx context.Context, userID, chatID string, msg domain.Message) (*domain.Chat, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "AppendMessage",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	if strings.TrimSpace(msg.Content) == "" {
		return nil, ErrEmptyMessage
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Type == "" {
		msg.Type = domain.MessageTypeUser
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	chat, err := s.Repo.AppendMessage(ctx, s.DB, userID, chatID, msg)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	return chat, err
}

// Rename sets the chat's display name, ensuring the chat exists in the
// user's history. Messages and chat_id are untouched.
func (s *ChatService) Rename(ctx context.Context, userID, chatID, chatName string) (*domain.Chat, error) {
	chatName = normalizeName(chatName)
	if chatName == "" {
		return nil, ErrEmptyChatName
	}
	chat, err := s.Repo.RenameChat(ctx, s.DB, userID, chatID, s.clip(chatName))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	return chat, err
}

// Delete removes the chat from the user's history. A wholly unknown user
// yields ErrUserNotFound; deleting a nonexistent chat_id within an existing
// user document is a no-op success.
func (s *ChatService) Delete(ctx context.Context, userID, chatID string) error {
	err := s.Repo.DeleteChat(ctx, s.DB, userID, chatID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

// clip truncates a chat name to the configured maximum rune length.
func (s *ChatService) clip(name string) string {
	if s.NameMaxLen > 0 && utf8.RuneCountInString(name) > s.NameMaxLen {
		return string([]rune(name)[:s.NameMaxLen])
	}
	return name
}

// normalizeName trims leading/trailing whitespace and collapses internal
// whitespace runs to a single space.
func normalizeName(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

var whitespaceRE = regexp.MustCompile(`\s+`)
