package roster

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestRoster(t *testing.T) *Roster {
	t.Helper()
	r, err := Load(filepath.Join("testdata", "mentors.json"), filepath.Join("testdata", "students.json"))
	require.NoError(t, err)
	return r
}

func TestLoadRoster(t *testing.T) {
	r := loadTestRoster(t)
	assert.Equal(t, 2, r.MentorCount())
	assert.Equal(t, 1, r.StudentCount())
}

func TestFindMentor(t *testing.T) {
	r := loadTestRoster(t)

	mentor, ok := r.FindMentor("M001")
	require.True(t, ok)
	assert.Equal(t, "Anita Rao", mentor.Name)
	assert.Equal(t, "Computer Science", mentor.Department)

	_, ok = r.FindMentor("M999")
	assert.False(t, ok)
}

func TestFindStudent(t *testing.T) {
	r := loadTestRoster(t)

	student, ok := r.FindStudent("S001")
	require.True(t, ok)
	assert.Equal(t, "Ravi Kumar", student.Name)
	assert.InDelta(t, 72, student.AttendancePct, 0.01)
	assert.Len(t, student.WeeklyScores, 4)

	_, ok = r.FindStudent("S999")
	assert.False(t, ok)
}

func TestLoadRosterMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "absent.json"), filepath.Join("testdata", "students.json"))
	require.Error(t, err)
}
