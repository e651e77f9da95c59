// Package domain defines the persistence and display models for user chat
// documents and supplier results. UserChatCollection is mapped with GORM;
// the chat history itself is stored as a single JSON document per user.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Message author types.
const (
	MessageTypeUser      = "user"
	MessageTypeAssistant = "assistant"
)

// Supplier field render types, used by clients for generic card rendering.
const (
	FieldTypeText     = "text"
	FieldTypeBadge    = "badge"
	FieldTypeRating   = "rating"
	FieldTypePrice    = "price"
	FieldTypeLocation = "location"
	FieldTypeTime     = "time"
)

// SupplierField is one label/value/render-type triple on a supplier card.
type SupplierField struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Supplier is the display model derived from an upstream supplier record.
// Fields is an ordered sequence; clients render it top to bottom as-is.
type Supplier struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Fields []SupplierField `json:"fields"`
}

// Message is a single utterance within a chat, authored by "user" or
// "assistant". Assistant messages that returned results carry Suppliers.
type Message struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	Suppliers []Supplier `json:"suppliers,omitempty"`
}

// messageRecord is the on-disk superset of the current and legacy message
// shapes. Legacy documents carry sender/message (and an order field that is
// ignored; array position is authoritative).
type messageRecord struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	Suppliers []Supplier `json:"suppliers,omitempty"`

	Sender  string `json:"sender,omitempty"`
	Message string `json:"message,omitempty"`
	Order   int    `json:"order,omitempty"`
}

// UnmarshalJSON resolves the legacy message variant into the canonical shape
// at read time: sender "user"→"user", "bot"→"assistant" (anything else passes
// through), message→content. Downstream code only ever sees the canonical form.
func (m *Message) UnmarshalJSON(data []byte) error {
	var rec messageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	m.ID = rec.ID
	m.Type = rec.Type
	m.Content = rec.Content
	m.Timestamp = rec.Timestamp
	m.Suppliers = rec.Suppliers

	if m.Type == "" && rec.Sender != "" {
		switch rec.Sender {
		case "user":
			m.Type = MessageTypeUser
		case "bot":
			m.Type = MessageTypeAssistant
		default:
			m.Type = rec.Sender
		}
	}
	if m.Content == "" && rec.Message != "" {
		m.Content = rec.Message
	}
	return nil
}

// Chat is a named, ordered sequence of messages belonging to one user.
// Messages are append-only; only ChatName is ever mutated after creation.
type Chat struct {
	ChatID   string    `json:"chat_id"`
	ChatName string    `json:"chat_name"`
	Messages []Message `json:"messages"`
}

// ChatList stores an ordered chat history as a JSON text column.
type ChatList []Chat

// Value implements driver.Valuer. A nil list is stored as an empty array so
// the column round-trips without null handling.
func (l ChatList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *ChatList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = ChatList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("chat list: cannot scan %T", src)
	}
}

// UserChatCollection is the single persistence record for one user: the user
// id and the whole ordered chat history (insertion order = creation order).
// All chat mutations rewrite this one row.
type UserChatCollection struct {
	UserID      string    `json:"user_id"      gorm:"type:varchar(64);primaryKey"`
	ChatHistory ChatList  `json:"chat_history" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for UserChatCollection.
func (UserChatCollection) TableName() string { return "user_chats" }

// FindChat returns a pointer into ChatHistory for chatID, or nil.
func (u *UserChatCollection) FindChat(chatID string) *Chat {
	for i := range u.ChatHistory {
		if u.ChatHistory[i].ChatID == chatID {
			return &u.ChatHistory[i]
		}
	}
	return nil
}
