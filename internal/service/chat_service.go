package service

import (
	"context"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
)

// replyFallback is returned when the provider response carries no usable text.
const replyFallback = "No reply from model"

type chatConversationRepository interface {
	GetOrCreate(ctx context.Context, studentID string) (*models.Conversation, error)
	AppendMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
}

// chatModel is the slice of llms.Model the chat service needs; tests stub it.
type chatModel interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// ChatConfig tunes the provider invocation.
type ChatConfig struct {
	MaxTokens int
	Timeout   time.Duration
}

// ChatService executes counselling chat turns against the external model with
// server-persisted history as the single source of truth. Callers never supply
// prior turns; identity comes from the verified token.
type ChatService struct {
	conversations chatConversationRepository
	briefing      *BriefingService
	model         chatModel
	metrics       *MetricsService
	logger        *zap.Logger
	config        ChatConfig
}

// NewChatService constructs a ChatService.
func NewChatService(conversations chatConversationRepository, briefing *BriefingService, model chatModel, metrics *MetricsService, logger *zap.Logger, config ChatConfig) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 300
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &ChatService{
		conversations: conversations,
		briefing:      briefing,
		model:         model,
		metrics:       metrics,
		logger:        logger,
		config:        config,
	}
}

// SendMessage executes one chat turn: persist the user message, invoke the
// provider with the fresh briefing plus the full history, persist the reply.
// The user message is durably stored before the provider call, so it survives
// a provider failure; an assistant message is never stored without the user
// message that elicited it.
func (s *ChatService) SendMessage(ctx context.Context, studentInternalID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "message is required")
	}

	briefing, err := s.briefing.Build(ctx, studentInternalID)
	if err != nil {
		return "", err
	}

	conv, err := s.conversations.GetOrCreate(ctx, studentInternalID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conversation")
	}

	history, err := s.conversations.ListMessages(ctx, conv.ID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}

	userMsg := &models.Message{
		ConversationID: conv.ID,
		Role:           models.MessageRoleUser,
		Content:        text,
	}
	if err := s.conversations.AppendMessage(ctx, userMsg); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record message")
	}

	prompt := buildPrompt(briefing, history, text)

	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.model.GenerateContent(callCtx, prompt, llms.WithMaxTokens(s.config.MaxTokens))
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.ObserveCounsellorTurn("upstream_error", elapsed)
		// Raw provider errors stay server-side; the client gets a generic message.
		s.logger.Warn("provider call failed",
			zap.String("student_id", studentInternalID),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}

	reply := extractReply(resp)

	assistantMsg := &models.Message{
		ConversationID: conv.ID,
		Role:           models.MessageRoleAssistant,
		Content:        reply,
	}
	if err := s.conversations.AppendMessage(ctx, assistantMsg); err != nil {
		s.metrics.ObserveCounsellorTurn("store_error", elapsed)
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record reply")
	}

	s.metrics.ObserveCounsellorTurn("ok", elapsed)
	return reply, nil
}

// History returns the full ordered message list, lazily creating the
// conversation on first access.
func (s *ChatService) History(ctx context.Context, studentInternalID string) ([]models.ChatMessage, error) {
	conv, err := s.conversations.GetOrCreate(ctx, studentInternalID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conversation")
	}

	messages, err := s.conversations.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}

	out := make([]models.ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, models.ChatMessage{Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	return out, nil
}

// buildPrompt assembles the outbound prompt: the briefing as the system entry,
// then the stored history oldest first, then the new user message. The
// briefing is prepended per request and never stored as a conversation
// message.
func buildPrompt(briefing string, history []models.Message, text string) []llms.MessageContent {
	prompt := make([]llms.MessageContent, 0, len(history)+2)
	prompt = append(prompt, llms.TextParts(schema.ChatMessageTypeSystem, briefing))
	for _, m := range history {
		role := schema.ChatMessageTypeHuman
		if m.Role == models.MessageRoleAssistant {
			role = schema.ChatMessageTypeAI
		}
		prompt = append(prompt, llms.TextParts(role, m.Content))
	}
	prompt = append(prompt, llms.TextParts(schema.ChatMessageTypeHuman, text))
	return prompt
}

func extractReply(resp *llms.ContentResponse) string {
	if resp == nil || len(resp.Choices) == 0 {
		return replyFallback
	}
	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return replyFallback
	}
	return content
}
