package roster

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/noah-isme/mentor-connect-api/internal/models"
)

// Roster holds the institution master datasets. Provisioning validates every
// new mentor or student against these lists and copies profile data from them.
type Roster struct {
	mentors  map[string]models.MasterMentor
	students map[string]models.MasterStudent
}

// Load reads both master dataset files.
func Load(mentorFile, studentFile string) (*Roster, error) {
	r := &Roster{
		mentors:  make(map[string]models.MasterMentor),
		students: make(map[string]models.MasterStudent),
	}

	var mentors []models.MasterMentor
	if err := readJSON(mentorFile, &mentors); err != nil {
		return nil, fmt.Errorf("load mentor roster: %w", err)
	}
	for _, m := range mentors {
		r.mentors[m.ID] = m
	}

	var students []models.MasterStudent
	if err := readJSON(studentFile, &students); err != nil {
		return nil, fmt.Errorf("load student roster: %w", err)
	}
	for _, s := range students {
		r.students[s.StudentID] = s
	}

	return r, nil
}

// FindMentor looks up a mentor entry by its external identifier.
func (r *Roster) FindMentor(mentorID string) (models.MasterMentor, bool) {
	m, ok := r.mentors[mentorID]
	return m, ok
}

// FindStudent looks up a student entry by its external identifier.
func (r *Roster) FindStudent(studentID string) (models.MasterStudent, bool) {
	s, ok := r.students[studentID]
	return s, ok
}

// MentorCount reports the number of mentor entries loaded.
func (r *Roster) MentorCount() int { return len(r.mentors) }

// StudentCount reports the number of student entries loaded.
func (r *Roster) StudentCount() int { return len(r.students) }

func readJSON(path string, dest interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
