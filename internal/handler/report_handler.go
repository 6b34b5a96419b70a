package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	"github.com/noah-isme/mentor-connect-api/internal/service"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
	"github.com/noah-isme/mentor-connect-api/pkg/response"
)

type reportService interface {
	Generate(ctx context.Context, studentID string, format service.ReportFormat, actor *models.JWTClaims) (*service.Report, error)
}

// ReportHandler serves downloadable student progress reports.
type ReportHandler struct {
	service reportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Progress godoc
// @Summary Download a progress report
// @Description Render a student's academic record as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param studentId path string true "Student identifier"
// @Param format query string false "Report format (csv or pdf)" default(pdf)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{studentId}/report [get]
func (h *ReportHandler) Progress(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := service.ReportFormat(c.DefaultQuery("format", string(service.ReportFormatPDF)))

	report, err := h.service.Generate(c.Request.Context(), c.Param("studentId"), format, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
