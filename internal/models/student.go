package models

import (
	"time"

	"github.com/lib/pq"
)

// Student is a provisioned student account plus the academic record the
// counsellor briefing is built from. Academic fields are copied from the
// institution master dataset; mentor name/email are a snapshot of the
// provisioning mentor taken at creation time.
type Student struct {
	ID           string `db:"id" json:"id"`
	StudentID    string `db:"student_id" json:"student_id"`
	PasswordHash string `db:"password_hash" json:"-"`
	MentorID     string `db:"mentor_id" json:"mentor_id"`

	FullName string `db:"full_name" json:"full_name"`
	Gender   string `db:"gender" json:"gender"`
	DOB      string `db:"dob" json:"dob"`
	Program  string `db:"program" json:"program"`
	Year     int    `db:"year" json:"year"`

	AttendancePct     float64         `db:"attendance_pct" json:"attendance_pct"`
	DaysAbsentEst     int             `db:"days_absent_est" json:"days_absent_est"`
	AttemptsMath      int             `db:"attempts_math" json:"attempts_math"`
	AttemptsPhysics   int             `db:"attempts_physics" json:"attempts_physics"`
	AttemptsChemistry int             `db:"attempts_chemistry" json:"attempts_chemistry"`
	AttemptsEnglish   int             `db:"attempts_english" json:"attempts_english"`
	AttemptsTotalGT1  int             `db:"attempts_total_gt1" json:"attempts_total_gt1"`
	WeeklyScores      pq.Float64Array `db:"weekly_scores" json:"weekly_scores"`
	AvgScore          float64         `db:"avg_score" json:"avg_score"`
	LastTestScore     float64         `db:"last_test_score" json:"last_test_score"`

	FeeStatus       string  `db:"fee_status" json:"fee_status"`
	FeeDueAmount    float64 `db:"fee_due_amount" json:"fee_due_amount"`
	LastPaymentDate string  `db:"last_payment_date" json:"last_payment_date"`

	MentorName      string `db:"mentor_name" json:"mentor_name"`
	MentorEmail     string `db:"mentor_email" json:"mentor_email"`
	GuardianContact string `db:"guardian_contact" json:"guardian_contact"`

	RiskPoints int    `db:"risk_points" json:"risk_points"`
	RiskLevel  string `db:"risk_level" json:"risk_level"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateStudentRequest provisions a student account under the calling mentor.
// The identifier must exist in the student master dataset; the academic record
// comes from there, never from the request.
type CreateStudentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}
