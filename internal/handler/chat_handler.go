package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
	"github.com/noah-isme/mentor-connect-api/pkg/response"
)

type chatService interface {
	SendMessage(ctx context.Context, studentInternalID, text string) (string, error)
	History(ctx context.Context, studentInternalID string) ([]models.ChatMessage, error)
}

// ChatHandler wires the counselling chat endpoints to the chat service. The
// acting student always comes from the verified token.
type ChatHandler struct {
	service chatService
}

// NewChatHandler creates a new handler.
func NewChatHandler(svc chatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// Send godoc
// @Summary Send a chat message
// @Description Append one user message and return the counsellor's reply
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body models.ChatRequest true "Chat payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /chat [post]
func (h *ChatHandler) Send(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid chat payload"))
		return
	}

	reply, err := h.service.SendMessage(c.Request.Context(), claims.UserID, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, models.ChatReply{Reply: reply}, nil)
}

// History godoc
// @Summary Fetch chat history
// @Description Return the full ordered conversation for the calling student
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /chat/history [get]
func (h *ChatHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	messages, err := h.service.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"messages": messages}, nil)
}
