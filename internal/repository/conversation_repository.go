package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentor-connect-api/internal/models"
)

// ConversationRepository manages the per-student counselling conversation and
// its append-only message log.
type ConversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository constructs a ConversationRepository.
func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetOrCreate returns the conversation owned by the student, creating an empty
// one when absent. Exactly one conversation exists per student; the unique
// constraint on student_id backs the invariant under concurrent first access.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, studentID string) (*models.Conversation, error) {
	const selectQuery = `SELECT id, student_id, created_at, updated_at FROM conversations WHERE student_id = $1`

	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, selectQuery, studentID)
	if err == nil {
		return &conv, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find conversation: %w", err)
	}

	now := time.Now().UTC()
	conv = models.Conversation{
		ID:        uuid.NewString(),
		StudentID: studentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	const insertQuery = `INSERT INTO conversations (id, student_id, created_at, updated_at)
        VALUES (:id, :student_id, :created_at, :updated_at)
        ON CONFLICT (student_id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, insertQuery, &conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	// Re-read so a concurrent creator's row wins consistently.
	if err := r.db.GetContext(ctx, &conv, selectQuery, studentID); err != nil {
		return nil, fmt.Errorf("reload conversation: %w", err)
	}
	return &conv, nil
}

// AppendMessage durably appends one message to the conversation log.
func (r *ConversationRepository) AppendMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO messages (id, conversation_id, role, content, created_at)
        VALUES (:id, :conversation_id, :role, :content, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE conversations SET updated_at = $2 WHERE id = $1`, msg.ConversationID, msg.CreatedAt); err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}

// ListMessages returns the conversation's messages oldest first.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	const query = `SELECT id, conversation_id, role, content, created_at FROM messages
        WHERE conversation_id = $1 ORDER BY created_at ASC, id ASC`
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, conversationID); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}
