package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
)

type briefingStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// BriefingService renders the counsellor briefing: a fixed-template summary of
// one student's academic state. It is rebuilt from the stored record on every
// chat turn so the model always grounds its answers in current data rather
// than stale client-supplied claims.
type BriefingService struct {
	students briefingStudentRepository
}

// NewBriefingService constructs a BriefingService.
func NewBriefingService(students briefingStudentRepository) *BriefingService {
	return &BriefingService{students: students}
}

// Build loads the student record and renders the briefing string.
func (s *BriefingService) Build(ctx context.Context, studentInternalID string) (string, error) {
	student, err := s.students.FindByID(ctx, studentInternalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return Render(student), nil
}

// Render produces the briefing for an already-loaded student record. Purely
// deterministic; no side effects.
func Render(student *models.Student) string {
	var b strings.Builder
	b.WriteString("You are a helpful student assistant and counsellor.\n")
	b.WriteString("Given below are the details of student of whom you are counsellor:\n")
	fmt.Fprintf(&b, "- Name: %s\n", student.FullName)
	fmt.Fprintf(&b, "- Student ID: %s\n", student.StudentID)
	fmt.Fprintf(&b, "- Attendance: %s%%\n", formatNumber(student.AttendancePct))
	fmt.Fprintf(&b, "- Last Test Score: %s\n", formatNumber(student.LastTestScore))
	fmt.Fprintf(&b, "- Fee Status: %s (Due: ₹%s)\n", student.FeeStatus, formatNumber(student.FeeDueAmount))
	fmt.Fprintf(&b, "- Mentor: %s (%s)\n", student.MentorName, student.MentorEmail)
	fmt.Fprintf(&b, "- Weekly Scores: %s\n", joinScores(student.WeeklyScores))
	fmt.Fprintf(&b, "- Risk Level: %s\n", student.RiskLevel)
	fmt.Fprintf(&b, "- Attempts (Math, Physics, Chemistry, English): %d, %d, %d, %d\n",
		student.AttemptsMath, student.AttemptsPhysics, student.AttemptsChemistry, student.AttemptsEnglish)
	b.WriteString("Respond helpfully and only to the topic asked. You are a counsellor so answer only on these specific topics. ")
	b.WriteString("Your conversation with the student begins now. Do not give a message first; let the student ask first.")
	return b.String()
}

func joinScores(scores []float64) string {
	parts := make([]string, len(scores))
	for i, score := range scores {
		parts[i] = formatNumber(score)
	}
	return strings.Join(parts, ", ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
