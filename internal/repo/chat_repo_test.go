package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/metamorphs/supplygenie-backend/internal/domain"
)

func newChatRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("chat_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA busy_timeout=5000;")

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateChat_Error_NoTable(t *testing.T) {
	db := newChatRepoDB(t /* no migrations */)
	chat, err := CreateChat(context.Background(), db, "u1", "t")
	if err == nil || chat != nil {
		t.Fatalf("expected error creating without table, got chat=%v err=%v", chat, err)
	}
}

func TestListChats_UnknownUser_EmptySlice(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})

	chats, err := ListChats(context.Background(), db, "nobody")
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if chats == nil || len(chats) != 0 {
		t.Fatalf("expected empty slice, got %#v", chats)
	}
}

func TestCreateChat_FirstChat_CreatesUserRow(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})

	chat, err := CreateChat(context.Background(), db, "u1", "My Sourcing Chat")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if chat.ChatID == "" || chat.ChatName != "My Sourcing Chat" {
		t.Fatalf("unexpected chat: %+v", chat)
	}
	if chat.Messages == nil || len(chat.Messages) != 0 {
		t.Fatalf("new chat should have empty messages, got %#v", chat.Messages)
	}

	chats, err := ListChats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(chats) != 1 || chats[0].ChatID != chat.ChatID {
		t.Fatalf("created chat not listed exactly once: %+v", chats)
	}
}

func TestCreateChat_AppendsToExistingHistory(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})
	ctx := context.Background()

	first, err := CreateChat(ctx, db, "u1", "one")
	if err != nil {
		t.Fatalf("CreateChat one: %v", err)
	}
	second, err := CreateChat(ctx, db, "u1", "two")
	if err != nil {
		t.Fatalf("CreateChat two: %v", err)
	}
	if first.ChatID == second.ChatID {
		t.Fatalf("chat ids must be unique within a user, both %q", first.ChatID)
	}

	chats, _ := ListChats(ctx, db, "u1")
	if len(chats) != 2 || chats[0].ChatID != first.ChatID || chats[1].ChatID != second.ChatID {
		t.Fatalf("history must preserve creation order: %+v", chats)
	}
}

func TestAppendMessage_MonotonicOrder(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})
	ctx := context.Background()

	chat, err := CreateChat(ctx, db, "u1", "chat")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	const n = 5
	for i := 0; i < n; i++ {
		msg := domain.Message{
			ID:      fmt.Sprintf("m%d", i),
			Type:    domain.MessageTypeUser,
			Content: fmt.Sprintf("msg %d", i),
		}
		if _, err := AppendMessage(ctx, db, "u1", chat.ChatID, msg); err != nil {
			t.Fatalf("AppendMessage %d: %v", i, err)
		}
	}

	got, err := GetChat(ctx, db, "u1", chat.ChatID)
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if len(got.Messages) != n {
		t.Fatalf("expected %d messages, got %d", n, len(got.Messages))
	}
	for i, m := range got.Messages {
		if m.ID != fmt.Sprintf("m%d", i) {
			t.Fatalf("message %d out of order: %+v", i, m)
		}
	}
}

func TestAppendMessage_ConcurrentAppendsToDifferentChats(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})
	ctx := context.Background()

	a, _ := CreateChat(ctx, db, "u1", "a")
	b, _ := CreateChat(ctx, db, "u1", "b")

	var wg sync.WaitGroup
	errc := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := AppendMessage(ctx, db, "u1", a.ChatID, domain.Message{ID: "ma", Type: "user", Content: "to a"})
		errc <- err
	}()
	go func() {
		defer wg.Done()
		_, err := AppendMessage(ctx, db, "u1", b.ChatID, domain.Message{ID: "mb", Type: "user", Content: "to b"})
		errc <- err
	}()
	wg.Wait()
	close(errc)
	for err := range errc {
		if err != nil {
			t.Fatalf("concurrent append: %v", err)
		}
	}

	gotA, _ := GetChat(ctx, db, "u1", a.ChatID)
	gotB, _ := GetChat(ctx, db, "u1", b.ChatID)
	if len(gotA.Messages) != 1 || len(gotB.Messages) != 1 {
		t.Fatalf("an append was lost: a=%d b=%d", len(gotA.Messages), len(gotB.Messages))
	}
}

func TestAppendMessage_NotFound(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})
	ctx := context.Background()

	// Unknown user.
	if _, err := AppendMessage(ctx, db, "ghost", "chat_1", domain.Message{Content: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}

	// Known user, unknown chat.
	if _, err := CreateChat(ctx, db, "u1", "only"); err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if _, err := AppendMessage(ctx, db, "u1", "chat_missing", domain.Message{Content: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown chat, got %v", err)
	}
}

func TestRenameChat_OnlyNameChanges(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})
	ctx := context.Background()

	chat, _ := CreateChat(ctx, db, "u1", "before")
	if _, err := AppendMessage(ctx, db, "u1", chat.ChatID, domain.Message{ID: "m1", Type: "user", Content: "hi"}); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	updated, err := RenameChat(ctx, db, "u1", chat.ChatID, "after")
	if err != nil {
		t.Fatalf("RenameChat: %v", err)
	}
	if updated.ChatName != "after" {
		t.Fatalf("name not updated: %+v", updated)
	}
	if updated.ChatID != chat.ChatID {
		t.Fatalf("chat_id must not change: %q -> %q", chat.ChatID, updated.ChatID)
	}
	if len(updated.Messages) != 1 || updated.Messages[0].ID != "m1" {
		t.Fatalf("messages must be untouched: %+v", updated.Messages)
	}
}

func TestRenameChat_NotFound(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})
	ctx := context.Background()

	if _, err := RenameChat(ctx, db, "ghost", "chat_1", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
	CreateChat(ctx, db, "u1", "only")
	if _, err := RenameChat(ctx, db, "u1", "chat_missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown chat, got %v", err)
	}
}

func TestDeleteChat_RemovesExactlyOne(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})
	ctx := context.Background()

	a, _ := CreateChat(ctx, db, "u1", "a")
	b, _ := CreateChat(ctx, db, "u1", "b")

	if err := DeleteChat(ctx, db, "u1", a.ChatID); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}
	chats, _ := ListChats(ctx, db, "u1")
	if len(chats) != 1 || chats[0].ChatID != b.ChatID {
		t.Fatalf("expected only %q to remain, got %+v", b.ChatID, chats)
	}
}

func TestDeleteChat_MissingChatForExistingUser_NoError(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})
	ctx := context.Background()

	CreateChat(ctx, db, "u1", "keep")
	if err := DeleteChat(ctx, db, "u1", "chat_never_existed"); err != nil {
		t.Fatalf("delete of nonexistent chat for existing user must succeed, got %v", err)
	}
	chats, _ := ListChats(ctx, db, "u1")
	if len(chats) != 1 {
		t.Fatalf("existing chat must be left intact: %+v", chats)
	}
}

func TestDeleteChat_UnknownUser_NotFound(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})

	if err := DeleteChat(context.Background(), db, "ghost", "chat_1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestGetChat(t *testing.T) {
	db := newChatRepoDB(t, &domain.UserChatCollection{})
	ctx := context.Background()

	chat, _ := CreateChat(ctx, db, "u1", "fetch me")
	got, err := GetChat(ctx, db, "u1", chat.ChatID)
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if got.ChatName != "fetch me" {
		t.Fatalf("unexpected chat: %+v", got)
	}

	if _, err := GetChat(ctx, db, "u1", "chat_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := GetChat(ctx, db, "ghost", chat.ChatID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestNewChatID_SuffixDisambiguation(t *testing.T) {
	base := NewChatID(nil)
	history := domain.ChatList{{ChatID: base}}

	// Force a collision: same-millisecond creation gets a numeric suffix.
	id := fmt.Sprintf("%s_%d", base, 1)
	if containsChatID(history, base) != true {
		t.Fatal("containsChatID should see the base id")
	}
	if containsChatID(history, id) {
		t.Fatal("suffixed id should be free")
	}
}
