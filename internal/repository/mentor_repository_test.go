package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-connect-api/internal/models"
)

func newMentorMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func mentorRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "mentor_id", "password_hash", "full_name", "email", "department", "year", "skills", "created_at", "updated_at"}).
		AddRow("uuid-1", "M001", "hash", "Anita Rao", "anita.rao@college.edu", "Computer Science", "2023", pq.StringArray{"algorithms"}, time.Now(), time.Now())
}

func TestMentorRepositoryList(t *testing.T) {
	db, mock, cleanup := newMentorMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM mentors WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WillReturnRows(mentorRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM mentors WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mentors, total, err := repo.List(context.Background(), models.MentorFilter{})
	require.NoError(t, err)
	assert.Len(t, mentors, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorRepositoryFindByMentorID(t *testing.T) {
	db, mock, cleanup := newMentorMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM mentors WHERE mentor_id").
		WithArgs("M001").
		WillReturnRows(mentorRows())

	mentor, err := repo.FindByMentorID(context.Background(), "M001")
	require.NoError(t, err)
	assert.Equal(t, "Anita Rao", mentor.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorRepositoryExistsByMentorID(t *testing.T) {
	db, mock, cleanup := newMentorMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectQuery("SELECT 1 FROM mentors WHERE mentor_id").
		WithArgs("M404").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByMentorID(context.Background(), "M404")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMentorMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectExec("INSERT INTO mentors").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mentor := &models.Mentor{
		MentorID:     "M001",
		PasswordHash: "hash",
		FullName:     "Anita Rao",
		Email:        "anita.rao@college.edu",
		Department:   "Computer Science",
		Year:         "2023",
		Skills:       pq.StringArray{"algorithms"},
	}
	err := repo.Create(context.Background(), mentor)
	require.NoError(t, err)
	assert.NotEmpty(t, mentor.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
