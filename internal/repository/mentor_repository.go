package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentor-connect-api/internal/models"
)

// MentorRepository manages persistence for provisioned mentor accounts.
type MentorRepository struct {
	db *sqlx.DB
}

// NewMentorRepository constructs a MentorRepository.
func NewMentorRepository(db *sqlx.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

const mentorColumns = "id, mentor_id, password_hash, full_name, email, department, year, skills, created_at, updated_at"

// List returns mentors matching the provided filter with a total count.
func (r *MentorRepository) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(mentor_id) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM mentors WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d", mentorColumns, where, size, offset)

	var mentors []models.Mentor
	if err := r.db.SelectContext(ctx, &mentors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list mentors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM mentors WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count mentors: %w", err)
	}
	return mentors, total, nil
}

// FindByID fetches a mentor by internal identifier.
func (r *MentorRepository) FindByID(ctx context.Context, id string) (*models.Mentor, error) {
	query := fmt.Sprintf("SELECT %s FROM mentors WHERE id = $1", mentorColumns)
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, id); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// FindByMentorID fetches a mentor by external identifier.
func (r *MentorRepository) FindByMentorID(ctx context.Context, mentorID string) (*models.Mentor, error) {
	query := fmt.Sprintf("SELECT %s FROM mentors WHERE mentor_id = $1", mentorColumns)
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, mentorID); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// ExistsByMentorID checks whether a mentor has already been provisioned.
func (r *MentorRepository) ExistsByMentorID(ctx context.Context, mentorID string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM mentors WHERE mentor_id = $1 LIMIT 1", mentorID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check mentor id: %w", err)
	}
	return true, nil
}

// Create inserts a new mentor record.
func (r *MentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	if mentor.ID == "" {
		mentor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if mentor.CreatedAt.IsZero() {
		mentor.CreatedAt = now
	}
	mentor.UpdatedAt = now
	const query = `INSERT INTO mentors (id, mentor_id, password_hash, full_name, email, department, year, skills, created_at, updated_at)
        VALUES (:id, :mentor_id, :password_hash, :full_name, :email, :department, :year, :skills, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, mentor); err != nil {
		return fmt.Errorf("create mentor: %w", err)
	}
	return nil
}
