package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-connect-api/internal/models"
)

func newStudentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "student_id", "password_hash", "mentor_id", "full_name", "gender", "dob", "program", "year",
		"attendance_pct", "days_absent_est", "attempts_math", "attempts_physics", "attempts_chemistry", "attempts_english",
		"attempts_total_gt1", "weekly_scores", "avg_score", "last_test_score", "fee_status", "fee_due_amount",
		"last_payment_date", "mentor_name", "mentor_email", "guardian_contact", "risk_points", "risk_level",
		"created_at", "updated_at",
	}).AddRow(
		"uuid-1", "S001", "hash", "M001", "Ravi Kumar", "M", "2005-03-14", "B.Tech", 2,
		72.0, 18, 2, 1, 1, 1,
		1, pq.Float64Array{62, 58, 49, 55}, 56.0, 55.0, "Due", 15000.0,
		"2024-11-02", "Anita Rao", "anita.rao@college.edu", "+91-9876500001", 6, "High",
		time.Now(), time.Now(),
	)
}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM students WHERE id").
		WithArgs("uuid-1").
		WillReturnRows(studentRows())

	student, err := repo.FindByID(context.Background(), "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "S001", student.StudentID)
	assert.InDelta(t, 72.0, student.AttendancePct, 0.01)
	assert.Len(t, []float64(student.WeeklyScores), 4)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByMentorID(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM students WHERE mentor_id").
		WithArgs("M001").
		WillReturnRows(studentRows())

	students, err := repo.ListByMentorID(context.Background(), "M001")
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, "Ravi Kumar", students[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{
		StudentID:     "S001",
		PasswordHash:  "hash",
		MentorID:      "M001",
		FullName:      "Ravi Kumar",
		WeeklyScores:  pq.Float64Array{62, 58, 49, 55},
		AttendancePct: 72,
	}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
