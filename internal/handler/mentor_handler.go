package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
	"github.com/noah-isme/mentor-connect-api/pkg/response"
)

type mentorService interface {
	Create(ctx context.Context, req models.CreateMentorRequest) (*models.Mentor, error)
	List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, *models.Pagination, error)
	Get(ctx context.Context, mentorID string) (*models.Mentor, error)
	Students(ctx context.Context, mentorID string) ([]models.Student, error)
}

// MentorHandler wires HTTP endpoints to the mentor service.
type MentorHandler struct {
	service mentorService
}

// NewMentorHandler creates a new handler.
func NewMentorHandler(svc mentorService) *MentorHandler {
	return &MentorHandler{service: svc}
}

// Create godoc
// @Summary Provision a mentor
// @Description Provision a mentor account from the institution master dataset
// @Tags Mentors
// @Accept json
// @Produce json
// @Param payload body models.CreateMentorRequest true "Mentor payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mentors [post]
func (h *MentorHandler) Create(c *gin.Context) {
	var req models.CreateMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mentor payload"))
		return
	}

	mentor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, mentor)
}

// List godoc
// @Summary List mentors
// @Description List provisioned mentors with search and pagination
// @Tags Mentors
// @Produce json
// @Param search query string false "Search by name or identifier"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /mentors [get]
func (h *MentorHandler) List(c *gin.Context) {
	filter := models.MentorFilter{Search: c.Query("search")}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	mentors, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, mentors, pagination)
}

// Get godoc
// @Summary Fetch a mentor
// @Tags Mentors
// @Produce json
// @Param mentorId path string true "Mentor identifier"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/{mentorId} [get]
func (h *MentorHandler) Get(c *gin.Context) {
	mentor, err := h.service.Get(c.Request.Context(), c.Param("mentorId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, mentor, nil)
}

// Students godoc
// @Summary List a mentor's students
// @Tags Mentors
// @Produce json
// @Param mentorId path string true "Mentor identifier"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/{mentorId}/students [get]
func (h *MentorHandler) Students(c *gin.Context) {
	students, err := h.service.Students(c.Request.Context(), c.Param("mentorId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, nil)
}
