package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentor-connect-api/internal/models"
)

// StudentRepository manages persistence for provisioned student accounts and
// their academic records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, student_id, password_hash, mentor_id, full_name, gender, dob, program, year,
        attendance_pct, days_absent_est, attempts_math, attempts_physics, attempts_chemistry, attempts_english,
        attempts_total_gt1, weekly_scores, avg_score, last_test_score, fee_status, fee_due_amount,
        last_payment_date, mentor_name, mentor_email, guardian_contact, risk_points, risk_level,
        created_at, updated_at`

// FindByID fetches a student by internal identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByStudentID fetches a student by external identifier.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE student_id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, studentID); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListByMentorID returns all students owned by the given mentor external id.
func (r *StudentRepository) ListByMentorID(ctx context.Context, mentorID string) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE mentor_id = $1 ORDER BY student_id ASC", studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, mentorID); err != nil {
		return nil, fmt.Errorf("list students by mentor: %w", err)
	}
	return students, nil
}

// ExistsByStudentID checks whether a student has already been provisioned.
func (r *StudentRepository) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM students WHERE student_id = $1 LIMIT 1", studentID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student id: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, student_id, password_hash, mentor_id, full_name, gender, dob, program, year,
        attendance_pct, days_absent_est, attempts_math, attempts_physics, attempts_chemistry, attempts_english,
        attempts_total_gt1, weekly_scores, avg_score, last_test_score, fee_status, fee_due_amount,
        last_payment_date, mentor_name, mentor_email, guardian_contact, risk_points, risk_level, created_at, updated_at)
        VALUES (:id, :student_id, :password_hash, :mentor_id, :full_name, :gender, :dob, :program, :year,
        :attendance_pct, :days_absent_est, :attempts_math, :attempts_physics, :attempts_chemistry, :attempts_english,
        :attempts_total_gt1, :weekly_scores, :avg_score, :last_test_score, :fee_status, :fee_due_amount,
        :last_payment_date, :mentor_name, :mentor_email, :guardian_contact, :risk_points, :risk_level, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
