package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
	"github.com/noah-isme/mentor-connect-api/pkg/export"
)

// ReportFormat selects the rendered export type.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

type reportStudentRepository interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
}

// Report bundles the rendered bytes with serving metadata.
type Report struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ReportService renders a student progress report as CSV or PDF. The report
// covers the same academic record the counsellor briefing is built from.
type ReportService struct {
	students reportStudentRepository
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
}

// NewReportService constructs a ReportService.
func NewReportService(students reportStudentRepository) *ReportService {
	return &ReportService{
		students: students,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
	}
}

// Generate renders a progress report for the student in the given format.
// Mentors may only export students provisioned under them; admins are exempt.
func (s *ReportService) Generate(ctx context.Context, studentID string, format ReportFormat, actor *models.JWTClaims) (*Report, error) {
	student, err := s.students.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if actor.Role == models.RoleMentor && student.MentorID != actor.ExternalID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student is not assigned to this mentor")
	}

	dataset := weeklyScoreDataset(student)

	switch format {
	case ReportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return &Report{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("progress-%s.csv", student.StudentID),
		}, nil
	case ReportFormatPDF:
		content, err := s.pdf.Render(dataset, fmt.Sprintf("Progress Report %s", student.StudentID), reportSummary(student))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return &Report{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("progress-%s.pdf", student.StudentID),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
}

func weeklyScoreDataset(student *models.Student) export.Dataset {
	headers := []string{"Week", "Score"}
	rows := make([]map[string]string, 0, len(student.WeeklyScores))
	for i, score := range student.WeeklyScores {
		rows = append(rows, map[string]string{
			"Week":  strconv.Itoa(i + 1),
			"Score": formatNumber(score),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func reportSummary(student *models.Student) []export.Summary {
	return []export.Summary{
		{Label: "Name", Value: student.FullName},
		{Label: "Student ID", Value: student.StudentID},
		{Label: "Program", Value: fmt.Sprintf("%s (Year %d)", student.Program, student.Year)},
		{Label: "Mentor", Value: fmt.Sprintf("%s (%s)", student.MentorName, student.MentorEmail)},
		{Label: "Attendance", Value: formatNumber(student.AttendancePct) + "%"},
		{Label: "Average Score", Value: formatNumber(student.AvgScore)},
		{Label: "Last Test Score", Value: formatNumber(student.LastTestScore)},
		{Label: "Fee Status", Value: fmt.Sprintf("%s (Due: %s)", student.FeeStatus, formatNumber(student.FeeDueAmount))},
		{Label: "Risk Level", Value: student.RiskLevel},
	}
}
