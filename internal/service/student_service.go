package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

type studentMentorRepository interface {
	FindByMentorID(ctx context.Context, mentorID string) (*models.Mentor, error)
}

type studentRoster interface {
	FindStudent(studentID string) (models.MasterStudent, bool)
}

// StudentService provisions student accounts under a mentor and serves
// student records.
type StudentService struct {
	students  studentRepository
	mentors   studentMentorRepository
	roster    studentRoster
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(students studentRepository, mentors studentMentorRepository, roster studentRoster, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{students: students, mentors: mentors, roster: roster, validator: validate, logger: logger}
}

// Create provisions a student account under the calling mentor. The academic
// record is copied from the master dataset entry; the mentor's name and email
// are snapshotted onto the student so the briefing can be rendered without a
// join.
func (s *StudentService) Create(ctx context.Context, mentorExternalID string, req models.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	entry, ok := s.roster.FindStudent(req.StudentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found in master dataset")
	}

	mentor, err := s.mentors.FindByMentorID(ctx, mentorExternalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch mentor")
	}

	exists, err := s.students.ExistsByStudentID(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already provisioned")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student := &models.Student{
		StudentID:    entry.StudentID,
		PasswordHash: string(hash),
		MentorID:     mentor.MentorID,

		FullName: entry.Name,
		Gender:   entry.Gender,
		DOB:      entry.DOB,
		Program:  entry.Program,
		Year:     entry.Year,

		AttendancePct:     entry.AttendancePct,
		DaysAbsentEst:     entry.DaysAbsentEst,
		AttemptsMath:      entry.AttemptsMath,
		AttemptsPhysics:   entry.AttemptsPhysics,
		AttemptsChemistry: entry.AttemptsChemistry,
		AttemptsEnglish:   entry.AttemptsEnglish,
		AttemptsTotalGT1:  entry.AttemptsTotalGT1,
		WeeklyScores:      pq.Float64Array(entry.WeeklyScores),
		AvgScore:          entry.AvgScore,
		LastTestScore:     entry.LastTestScore,

		FeeStatus:       entry.FeeStatus,
		FeeDueAmount:    entry.FeeDueAmount,
		LastPaymentDate: entry.LastPaymentDate,

		MentorName:      mentor.FullName,
		MentorEmail:     mentor.Email,
		GuardianContact: entry.GuardianContact,

		RiskPoints: entry.RiskPoints,
		RiskLevel:  entry.RiskLevel,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.logger.Info("student provisioned",
		zap.String("student_id", student.StudentID),
		zap.String("mentor_id", mentor.MentorID))
	return student, nil
}

// Get fetches one student by external identifier.
func (s *StudentService) Get(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := s.students.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	return student, nil
}

// GetByInternalID fetches one student by internal identifier.
func (s *StudentService) GetByInternalID(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	return student, nil
}
