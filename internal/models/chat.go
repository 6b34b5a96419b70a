package models

import "time"

// MessageRole tags who authored a conversation message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Conversation is the single counselling thread owned by one student. It is
// created lazily on the student's first history read or chat turn and is never
// deleted or truncated.
type Conversation struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Message is one immutable entry in a conversation's append-only log.
type Message struct {
	ID             string      `db:"id" json:"id"`
	ConversationID string      `db:"conversation_id" json:"conversation_id"`
	Role           MessageRole `db:"role" json:"role"`
	Content        string      `db:"content" json:"content"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// ChatMessage is the wire shape for history responses.
type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ChatRequest carries one outgoing user message. The sender's identity comes
// from the verified token, never from the payload.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply is the wire shape for a completed chat turn.
type ChatReply struct {
	Reply string `json:"reply"`
}
