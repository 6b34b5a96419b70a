package models

import (
	"time"

	"github.com/lib/pq"
)

// Mentor is a provisioned mentor account. Profile fields are copied from the
// institution master dataset at provisioning time.
type Mentor struct {
	ID           string         `db:"id" json:"id"`
	MentorID     string         `db:"mentor_id" json:"mentor_id"`
	PasswordHash string         `db:"password_hash" json:"-"`
	FullName     string         `db:"full_name" json:"full_name"`
	Email        string         `db:"email" json:"email"`
	Department   string         `db:"department" json:"department"`
	Year         string         `db:"year" json:"year"`
	Skills       pq.StringArray `db:"skills" json:"skills"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// MentorFilter captures list parameters for the mentor directory.
type MentorFilter struct {
	Search   string
	Page     int
	PageSize int
}

// CreateMentorRequest provisions a mentor account. The identifier must exist
// in the mentor master dataset; profile fields come from there, never from
// the request.
type CreateMentorRequest struct {
	MentorID string `json:"mentor_id" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}
