// Package repo implements the data persistence layer for user chat documents,
// backed by GORM. This file provides the document-style operations over the
// UserChatCollection model: all of a user's chats live in one row, and every
// mutation reads, edits, and rewrites that row inside a transaction. SQLite's
// write lock serializes concurrent writers, so concurrent appends to chats of
// the same user are never lost.
//
// All functions are context-aware and accept a *gorm.DB handle. They follow
// the "thin repository" approach: no business logic, only persistence.
//
// Error semantics:
//   - When a referenced user row or chat is missing, functions return
//     ErrNotFound (an alias of gorm.ErrRecordNotFound).
//   - Deleting a chat_id that does not exist within an EXISTING user row is a
//     no-op success; only a missing user row yields ErrNotFound. This
//     asymmetry is deliberate and mirrors the documented API behavior.
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/metamorphs/supplygenie-backend/internal/domain"
)

// ErrNotFound is returned when a requested user row or chat does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency across
// the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ListChats returns the ordered chat history for userID. A user without a
// row yields an empty slice, never ErrNotFound.
func ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error) {
	var rec domain.UserChatCollection
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []domain.Chat{}, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.ChatHistory == nil {
		return []domain.Chat{}, nil
	}
	return rec.ChatHistory, nil
}

// GetChat returns a copy of the chat identified by chatID within userID's
// history, or ErrNotFound.
func GetChat(ctx context.Context, db *gorm.DB, userID, chatID string) (*domain.Chat, error) {
	var rec domain.UserChatCollection
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error; err != nil {
		return nil, err
	}
	c := rec.FindChat(chatID)
	if c == nil {
		return nil, ErrNotFound
	}
	out := *c
	return &out, nil
}

// CreateChat appends a new empty chat named chatName to userID's history,
// creating the user row when absent (upsert semantics). The chat id is a
// time-based token; a _<n> suffix keeps it unique within the user's history
// when the same millisecond already produced one.
func CreateChat(ctx context.Context, db *gorm.DB, userID, chatName string) (*domain.Chat, error) {
	var created domain.Chat
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec domain.UserChatCollection
		err := tx.Where("user_id = ?", userID).First(&rec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = domain.Chat{
				ChatID:   NewChatID(nil),
				ChatName: chatName,
				Messages: []domain.Message{},
			}
			rec = domain.UserChatCollection{
				UserID:      userID,
				ChatHistory: domain.ChatList{created},
				CreatedAt:   time.Now().UTC(),
			}
			return tx.Create(&rec).Error
		case err != nil:
			return err
		}

		created = domain.Chat{
			ChatID:   NewChatID(rec.ChatHistory),
			ChatName: chatName,
			Messages: []domain.Message{},
		}
		rec.ChatHistory = append(rec.ChatHistory, created)
		return saveHistory(tx, userID, rec.ChatHistory)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// AppendMessage appends msg to the messages of the chat identified by chatID
// within userID's history and returns the updated chat. It returns
// ErrNotFound when the user row or the chat is missing.
func AppendMessage(ctx context.Context, db *gorm.DB, userID, chatID string, msg domain.Message) (*domain.Chat, error) {
	var updated domain.Chat
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec domain.UserChatCollection
		if err := tx.Where("user_id = ?", userID).First(&rec).Error; err != nil {
			return err
		}
		c := rec.FindChat(chatID)
		if c == nil {
			return ErrNotFound
		}
		c.Messages = append(c.Messages, msg)
		updated = *c
		return saveHistory(tx, userID, rec.ChatHistory)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RenameChat sets chat_name on the chat identified by chatID within userID's
// history and returns the updated chat. Only the name is mutated; messages
// and chat_id are untouched. Returns ErrNotFound when the user row or the
// chat is missing.
func RenameChat(ctx context.Context, db *gorm.DB, userID, chatID, chatName string) (*domain.Chat, error) {
	var updated domain.Chat
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec domain.UserChatCollection
		if err := tx.Where("user_id = ?", userID).First(&rec).Error; err != nil {
			return err
		}
		c := rec.FindChat(chatID)
		if c == nil {
			return ErrNotFound
		}
		c.ChatName = chatName
		updated = *c
		return saveHistory(tx, userID, rec.ChatHistory)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteChat removes the chat identified by chatID from userID's history
// (hard removal, no tombstone). A missing user row yields ErrNotFound; a
// missing chat_id within an existing row succeeds without change.
func DeleteChat(ctx context.Context, db *gorm.DB, userID, chatID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec domain.UserChatCollection
		if err := tx.Where("user_id = ?", userID).First(&rec).Error; err != nil {
			return err
		}
		kept := make(domain.ChatList, 0, len(rec.ChatHistory))
		for _, c := range rec.ChatHistory {
			if c.ChatID != chatID {
				kept = append(kept, c)
			}
		}
		if len(kept) == len(rec.ChatHistory) {
			return nil
		}
		return saveHistory(tx, userID, kept)
	})
}

// saveHistory rewrites the chat_history column for userID.
func saveHistory(tx *gorm.DB, userID string, history domain.ChatList) error {
	return tx.Model(&domain.UserChatCollection{}).
		Where("user_id = ?", userID).
		Update("chat_history", history).Error
}

// NewChatID generates a time-based chat token of the form chat_<unix-millis>.
// When the id already exists in history (two creates within one millisecond),
// a _<n> suffix disambiguates it.
func NewChatID(history domain.ChatList) string {
	base := fmt.Sprintf("chat_%d", time.Now().UnixMilli())
	id := base
	for n := 1; containsChatID(history, id); n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return id
}

func containsChatID(history domain.ChatList, id string) bool {
	for _, c := range history {
		if c.ChatID == id {
			return true
		}
	}
	return false
}
