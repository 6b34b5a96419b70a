package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
	"github.com/noah-isme/mentor-connect-api/pkg/response"
)

type studentService interface {
	Create(ctx context.Context, mentorExternalID string, req models.CreateStudentRequest) (*models.Student, error)
	Get(ctx context.Context, studentID string) (*models.Student, error)
}

// StudentHandler wires HTTP endpoints to the student service.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc studentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Create godoc
// @Summary Provision a student
// @Description Provision a student account under the calling mentor from the institution master dataset
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	student, err := h.service.Create(c.Request.Context(), claims.ExternalID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, student)
}

// Get godoc
// @Summary Fetch a student
// @Tags Students
// @Produce json
// @Param studentId path string true "Student identifier"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{studentId} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.Get(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, student, nil)
}
