package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
)

func TestRenderBriefing(t *testing.T) {
	student := chatTestStudent()
	briefing := Render(student)

	assert.True(t, strings.HasPrefix(briefing, "You are a helpful student assistant and counsellor.\n"))
	assert.Contains(t, briefing, "- Name: Ravi Kumar\n")
	assert.Contains(t, briefing, "- Student ID: S001\n")
	assert.Contains(t, briefing, "- Attendance: 72%\n")
	assert.Contains(t, briefing, "- Last Test Score: 55\n")
	assert.Contains(t, briefing, "- Fee Status: Due (Due: ₹15000)\n")
	assert.Contains(t, briefing, "- Mentor: Anita Rao (anita.rao@college.edu)\n")
	assert.Contains(t, briefing, "- Weekly Scores: 62, 58, 49, 55\n")
	assert.Contains(t, briefing, "- Risk Level: High\n")
	assert.Contains(t, briefing, "let the student ask first.")
}

func TestRenderBriefingFractionalNumbers(t *testing.T) {
	student := chatTestStudent()
	student.AttendancePct = 72.5
	student.LastTestScore = 55.25

	briefing := Render(student)
	assert.Contains(t, briefing, "- Attendance: 72.5%\n")
	assert.Contains(t, briefing, "- Last Test Score: 55.25\n")
}

func TestRenderBriefingAttempts(t *testing.T) {
	student := chatTestStudent()
	student.AttemptsMath = 2
	student.AttemptsPhysics = 1
	student.AttemptsChemistry = 1
	student.AttemptsEnglish = 3

	briefing := Render(student)
	assert.Contains(t, briefing, "- Attempts (Math, Physics, Chemistry, English): 2, 1, 1, 3\n")
}

func TestBriefingServiceBuildUnknownStudent(t *testing.T) {
	svc := NewBriefingService(studentStoreStub{students: map[string]*models.Student{}})

	_, err := svc.Build(context.Background(), "missing")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
