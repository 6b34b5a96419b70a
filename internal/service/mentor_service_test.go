package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
)

type mentorRepoStub struct {
	mentors   []models.Mentor
	byID      map[string]*models.Mentor
	created   []*models.Mentor
	listErr   error
	existsErr error
	createErr error
}

func (s *mentorRepoStub) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error) {
	return s.mentors, len(s.mentors), s.listErr
}

func (s *mentorRepoStub) FindByMentorID(ctx context.Context, mentorID string) (*models.Mentor, error) {
	if mentor, ok := s.byID[mentorID]; ok {
		return mentor, nil
	}
	return nil, sql.ErrNoRows
}

func (s *mentorRepoStub) ExistsByMentorID(ctx context.Context, mentorID string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.byID[mentorID]
	return ok, nil
}

func (s *mentorRepoStub) Create(ctx context.Context, mentor *models.Mentor) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, mentor)
	if s.byID == nil {
		s.byID = map[string]*models.Mentor{}
	}
	s.byID[mentor.MentorID] = mentor
	return nil
}

type studentListStub struct {
	students []models.Student
	err      error
}

func (s studentListStub) ListByMentorID(ctx context.Context, mentorID string) ([]models.Student, error) {
	return s.students, s.err
}

type rosterStub struct {
	mentors  map[string]models.MasterMentor
	students map[string]models.MasterStudent
}

func (s rosterStub) FindMentor(mentorID string) (models.MasterMentor, bool) {
	m, ok := s.mentors[mentorID]
	return m, ok
}

func (s rosterStub) FindStudent(studentID string) (models.MasterStudent, bool) {
	st, ok := s.students[studentID]
	return st, ok
}

func testRoster() rosterStub {
	return rosterStub{
		mentors: map[string]models.MasterMentor{
			"M001": {ID: "M001", Name: "Anita Rao", Email: "anita.rao@college.edu", Department: "Physics", Year: "2", Skills: []string{"Mentoring", "Physics"}},
		},
		students: map[string]models.MasterStudent{
			"S001": {
				StudentID: "S001", Name: "Ravi Kumar", Program: "B.Tech", Year: 2,
				AttendancePct: 72, LastTestScore: 55, FeeStatus: "Due", FeeDueAmount: 15000,
				WeeklyScores: []float64{62, 58, 49, 55}, RiskLevel: "High",
			},
		},
	}
}

func TestMentorServiceCreateFromMasterDataset(t *testing.T) {
	repo := &mentorRepoStub{byID: map[string]*models.Mentor{}}
	svc := NewMentorService(repo, studentListStub{}, testRoster(), nil, nil, nil)

	mentor, err := svc.Create(context.Background(), models.CreateMentorRequest{MentorID: "M001", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "M001", mentor.MentorID)
	assert.Equal(t, "Anita Rao", mentor.FullName)
	assert.Equal(t, "anita.rao@college.edu", mentor.Email)
	assert.Equal(t, []string{"Mentoring", "Physics"}, []string(mentor.Skills))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(mentor.PasswordHash), []byte("secret-pass")))
	require.Len(t, repo.created, 1)
}

func TestMentorServiceCreateNotInDataset(t *testing.T) {
	svc := NewMentorService(&mentorRepoStub{}, studentListStub{}, testRoster(), nil, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateMentorRequest{MentorID: "M999", Password: "secret-pass"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestMentorServiceCreateAlreadyProvisioned(t *testing.T) {
	repo := &mentorRepoStub{byID: map[string]*models.Mentor{"M001": {MentorID: "M001"}}}
	svc := NewMentorService(repo, studentListStub{}, testRoster(), nil, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateMentorRequest{MentorID: "M001", Password: "secret-pass"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestMentorServiceCreateRejectsShortPassword(t *testing.T) {
	svc := NewMentorService(&mentorRepoStub{}, studentListStub{}, testRoster(), nil, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateMentorRequest{MentorID: "M001", Password: "abc"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestMentorServiceList(t *testing.T) {
	repo := &mentorRepoStub{mentors: []models.Mentor{{MentorID: "M001"}, {MentorID: "M002"}}}
	svc := NewMentorService(repo, studentListStub{}, testRoster(), nil, nil, nil)

	mentors, pagination, err := svc.List(context.Background(), models.MentorFilter{})
	require.NoError(t, err)
	assert.Len(t, mentors, 2)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 2, pagination.TotalCount)
}

func TestMentorServiceGetUnknown(t *testing.T) {
	svc := NewMentorService(&mentorRepoStub{byID: map[string]*models.Mentor{}}, studentListStub{}, testRoster(), nil, nil, nil)

	_, err := svc.Get(context.Background(), "M404")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestMentorServiceStudents(t *testing.T) {
	repo := &mentorRepoStub{byID: map[string]*models.Mentor{"M001": {MentorID: "M001"}}}
	svc := NewMentorService(repo, studentListStub{students: []models.Student{{StudentID: "S001"}}}, testRoster(), nil, nil, nil)

	students, err := svc.Students(context.Background(), "M001")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "S001", students[0].StudentID)
}
