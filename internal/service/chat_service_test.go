package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
)

type convStoreStub struct {
	conv      *models.Conversation
	messages  []models.Message
	getErr    error
	listErr   error
	appendErr map[models.MessageRole]error
	seq       int
}

func (s *convStoreStub) GetOrCreate(ctx context.Context, studentID string) (*models.Conversation, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.conv == nil {
		s.conv = &models.Conversation{ID: "conv-1", StudentID: studentID}
	}
	return s.conv, nil
}

func (s *convStoreStub) AppendMessage(ctx context.Context, msg *models.Message) error {
	if err := s.appendErr[msg.Role]; err != nil {
		return err
	}
	s.seq++
	msg.ID = strconv.Itoa(s.seq)
	msg.CreatedAt = time.Now().UTC()
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *convStoreStub) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

type studentStoreStub struct {
	students map[string]*models.Student
}

func (s studentStoreStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if student, ok := s.students[id]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

type modelStub struct {
	prompts [][]llms.MessageContent
	replies []string
	resp    *llms.ContentResponse
	err     error
}

func (m *modelStub) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.prompts = append(m.prompts, messages)
	if m.err != nil {
		return nil, m.err
	}
	if m.resp != nil {
		return m.resp, nil
	}
	reply := "I can help with that."
	if len(m.replies) > 0 {
		reply = m.replies[0]
		m.replies = m.replies[1:]
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: reply}}}, nil
}

func chatTestStudent() *models.Student {
	return &models.Student{
		ID:            "uuid-1",
		StudentID:     "S001",
		FullName:      "Ravi Kumar",
		AttendancePct: 72,
		LastTestScore: 55,
		FeeStatus:     "Due",
		FeeDueAmount:  15000,
		MentorName:    "Anita Rao",
		MentorEmail:   "anita.rao@college.edu",
		WeeklyScores:  pq.Float64Array{62, 58, 49, 55},
		RiskLevel:     "High",
	}
}

func newChatFixture(student *models.Student) (*ChatService, *convStoreStub, *modelStub) {
	store := &convStoreStub{appendErr: map[models.MessageRole]error{}}
	model := &modelStub{}
	students := studentStoreStub{students: map[string]*models.Student{}}
	if student != nil {
		students.students[student.ID] = student
	}
	svc := NewChatService(store, NewBriefingService(students), model, nil, nil, ChatConfig{})
	return svc, store, model
}

func promptText(msg llms.MessageContent) string {
	var text string
	for _, part := range msg.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			text += tc.Text
		}
	}
	return text
}

func TestChatServiceFirstTurnStoresBothMessages(t *testing.T) {
	svc, store, _ := newChatFixture(chatTestStudent())

	reply, err := svc.SendMessage(context.Background(), "uuid-1", "How can I improve my attendance?")
	require.NoError(t, err)
	assert.Equal(t, "I can help with that.", reply)

	require.Len(t, store.messages, 2)
	assert.Equal(t, models.MessageRoleUser, store.messages[0].Role)
	assert.Equal(t, "How can I improve my attendance?", store.messages[0].Content)
	assert.Equal(t, models.MessageRoleAssistant, store.messages[1].Role)
	assert.Equal(t, reply, store.messages[1].Content)
}

func TestChatServiceBriefingReflectsStoredRecord(t *testing.T) {
	student := chatTestStudent()
	svc, _, model := newChatFixture(student)

	_, err := svc.SendMessage(context.Background(), "uuid-1", "hello")
	require.NoError(t, err)

	require.Len(t, model.prompts, 1)
	system := promptText(model.prompts[0][0])
	assert.Equal(t, schema.ChatMessageTypeSystem, model.prompts[0][0].Role)
	assert.Contains(t, system, "Attendance: 72%")
	assert.Contains(t, system, "Last Test Score: 55")
	assert.Contains(t, system, "Mentor: Anita Rao (anita.rao@college.edu)")

	// The briefing is rebuilt per turn, so an updated record shows up
	// immediately on the next message.
	student.AttendancePct = 73
	_, err = svc.SendMessage(context.Background(), "uuid-1", "and now?")
	require.NoError(t, err)
	require.Len(t, model.prompts, 2)
	assert.Contains(t, promptText(model.prompts[1][0]), "Attendance: 73%")
}

func TestChatServicePromptCarriesFullHistory(t *testing.T) {
	svc, _, model := newChatFixture(chatTestStudent())
	model.replies = []string{"first answer", "second answer"}

	_, err := svc.SendMessage(context.Background(), "uuid-1", "first question")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "uuid-1", "second question")
	require.NoError(t, err)

	require.Len(t, model.prompts, 2)
	second := model.prompts[1]
	require.Len(t, second, 4)
	assert.Equal(t, schema.ChatMessageTypeSystem, second[0].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, second[1].Role)
	assert.Equal(t, "first question", promptText(second[1]))
	assert.Equal(t, schema.ChatMessageTypeAI, second[2].Role)
	assert.Equal(t, "first answer", promptText(second[2]))
	assert.Equal(t, schema.ChatMessageTypeHuman, second[3].Role)
	assert.Equal(t, "second question", promptText(second[3]))
}

func TestChatServiceProviderFailureKeepsUserMessage(t *testing.T) {
	svc, store, model := newChatFixture(chatTestStudent())
	model.err = errors.New("connection refused")

	_, err := svc.SendMessage(context.Background(), "uuid-1", "hello")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrUpstream.Status, appErr.Status)
	// The raw provider error never reaches the client-facing message.
	assert.NotContains(t, appErr.Message, "connection refused")

	require.Len(t, store.messages, 1)
	assert.Equal(t, models.MessageRoleUser, store.messages[0].Role)
}

func TestChatServiceEmptyMessageRejected(t *testing.T) {
	svc, store, model := newChatFixture(chatTestStudent())

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.SendMessage(context.Background(), "uuid-1", text)
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	}
	assert.Empty(t, store.messages)
	assert.Empty(t, model.prompts)
}

func TestChatServiceUnknownStudent(t *testing.T) {
	svc, store, _ := newChatFixture(nil)

	_, err := svc.SendMessage(context.Background(), "uuid-missing", "hello")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Empty(t, store.messages)
}

func TestChatServiceEmptyProviderResponseFallback(t *testing.T) {
	svc, store, model := newChatFixture(chatTestStudent())
	model.resp = &llms.ContentResponse{}

	reply, err := svc.SendMessage(context.Background(), "uuid-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, replyFallback, reply)

	require.Len(t, store.messages, 2)
	assert.Equal(t, replyFallback, store.messages[1].Content)
}

func TestChatServiceAssistantStoreFailure(t *testing.T) {
	svc, store, _ := newChatFixture(chatTestStudent())
	store.appendErr[models.MessageRoleAssistant] = fmt.Errorf("insert failed")

	_, err := svc.SendMessage(context.Background(), "uuid-1", "hello")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)

	// The user message stays recorded even when the reply could not be.
	require.Len(t, store.messages, 1)
	assert.Equal(t, models.MessageRoleUser, store.messages[0].Role)
}

func TestChatServiceHistory(t *testing.T) {
	svc, store, _ := newChatFixture(chatTestStudent())

	history, err := svc.History(context.Background(), "uuid-1")
	require.NoError(t, err)
	assert.Empty(t, history)
	require.NotNil(t, store.conv)

	_, err = svc.SendMessage(context.Background(), "uuid-1", "hello")
	require.NoError(t, err)

	first, err := svc.History(context.Background(), "uuid-1")
	require.NoError(t, err)
	second, err := svc.History(context.Background(), "uuid-1")
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, models.MessageRoleUser, first[0].Role)
	assert.Equal(t, models.MessageRoleAssistant, first[1].Role)
	assert.Equal(t, first, second)
}
