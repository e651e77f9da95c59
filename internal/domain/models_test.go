package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMessageUnmarshal_CanonicalShape(t *testing.T) {
	raw := `{"id":"m1","type":"assistant","content":"hello","timestamp":"2024-05-01T10:00:00Z"}`

	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.ID != "m1" || m.Type != MessageTypeAssistant || m.Content != "hello" {
		t.Fatalf("unexpected message: %+v", m)
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if !m.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", m.Timestamp, want)
	}
}

func TestMessageUnmarshal_LegacySenderMapping(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		wantType string
		wantBody string
	}{
		{"user", `{"sender":"user","message":"hi","order":3}`, MessageTypeUser, "hi"},
		{"bot", `{"sender":"bot","message":"hello there"}`, MessageTypeAssistant, "hello there"},
		{"passthrough", `{"sender":"system","message":"x"}`, "system", "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m Message
			if err := json.Unmarshal([]byte(tc.raw), &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if m.Type != tc.wantType {
				t.Fatalf("type = %q, want %q", m.Type, tc.wantType)
			}
			if m.Content != tc.wantBody {
				t.Fatalf("content = %q, want %q", m.Content, tc.wantBody)
			}
		})
	}
}

func TestMessageUnmarshal_CanonicalWinsOverLegacy(t *testing.T) {
	raw := `{"type":"user","content":"new","sender":"bot","message":"old"}`

	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Type != MessageTypeUser || m.Content != "new" {
		t.Fatalf("canonical fields should win: %+v", m)
	}
}

func TestChatListValue_NilStoredAsEmptyArray(t *testing.T) {
	var l ChatList
	v, err := l.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != "[]" {
		t.Fatalf("value = %v, want []", v)
	}
}

func TestChatListScan_RoundTrip(t *testing.T) {
	in := ChatList{
		{ChatID: "chat_1", ChatName: "First", Messages: []Message{
			{ID: "m1", Type: MessageTypeUser, Content: "hi"},
		}},
		{ChatID: "chat_2", ChatName: "Second", Messages: []Message{}},
	}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out ChatList
	if err := out.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(out) != 2 || out[0].ChatID != "chat_1" || out[1].ChatName != "Second" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if len(out[0].Messages) != 1 || out[0].Messages[0].Content != "hi" {
		t.Fatalf("messages lost in round trip: %+v", out[0].Messages)
	}
}

func TestChatListScan_LegacyDocument(t *testing.T) {
	// Persisted before the current message shape existed.
	legacy := `[{"chat_id":"chat_9","chat_name":"Old","messages":[{"sender":"bot","message":"welcome","order":1}]}]`

	var out ChatList
	if err := out.Scan(legacy); err != nil {
		t.Fatalf("scan: %v", err)
	}
	msg := out[0].Messages[0]
	if msg.Type != MessageTypeAssistant || msg.Content != "welcome" {
		t.Fatalf("legacy message not normalized: %+v", msg)
	}
}

func TestChatListScan_NilAndUnsupported(t *testing.T) {
	var out ChatList
	if err := out.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("scan nil should yield empty list, got %+v", out)
	}
	if err := out.Scan(42); err == nil {
		t.Fatal("expected error scanning unsupported type")
	}
}

func TestFindChat(t *testing.T) {
	u := UserChatCollection{
		UserID: "u1",
		ChatHistory: ChatList{
			{ChatID: "a"}, {ChatID: "b"},
		},
	}
	if c := u.FindChat("b"); c == nil || c.ChatID != "b" {
		t.Fatalf("FindChat(b) = %+v", c)
	}
	if c := u.FindChat("zzz"); c != nil {
		t.Fatalf("FindChat(zzz) should be nil, got %+v", c)
	}

	// The returned pointer aliases the history entry.
	u.FindChat("a").ChatName = "renamed"
	if u.ChatHistory[0].ChatName != "renamed" {
		t.Fatal("FindChat should return a pointer into the history")
	}
}
