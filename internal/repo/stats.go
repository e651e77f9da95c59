// Package repo implements the data persistence layer for user chat documents,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/metamorphs/supplygenie-backend/internal/domain"
)

// UserChatsStats returns metadata for a user's chat document: the number of
// chats in the history and the row's UpdatedAt. A user without a row yields
// (0, nil, nil) — the same identity an empty listing has.
func UserChatsStats(ctx context.Context, db *gorm.DB, userID string) (count int, updatedAt *time.Time, err error) {
	var rec domain.UserChatCollection
	err = db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil, nil
	}
	if err != nil {
		return 0, nil, err
	}
	ts := rec.UpdatedAt
	return len(rec.ChatHistory), &ts, nil
}
