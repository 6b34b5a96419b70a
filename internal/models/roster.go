package models

// MasterMentor mirrors one entry of the mentor master dataset.
type MasterMentor struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	Year       string   `json:"year"`
	Skills     []string `json:"skills"`
}

// MasterStudent mirrors one entry of the student master dataset.
type MasterStudent struct {
	StudentID         string    `json:"student_id"`
	Name              string    `json:"name"`
	Gender            string    `json:"gender"`
	DOB               string    `json:"dob"`
	Program           string    `json:"program"`
	Year              int       `json:"year"`
	AttendancePct     float64   `json:"attendance_pct"`
	DaysAbsentEst     int       `json:"days_absent_est"`
	AttemptsMath      int       `json:"attempts_math"`
	AttemptsPhysics   int       `json:"attempts_physics"`
	AttemptsChemistry int       `json:"attempts_chemistry"`
	AttemptsEnglish   int       `json:"attempts_english"`
	AttemptsTotalGT1  int       `json:"attempts_total_gt1"`
	WeeklyScores      []float64 `json:"weekly_scores"`
	AvgScore          float64   `json:"avg_score"`
	LastTestScore     float64   `json:"last_test_score"`
	FeeStatus         string    `json:"fee_status"`
	FeeDueAmount      float64   `json:"fee_due_amount"`
	LastPaymentDate   string    `json:"last_payment_date"`
	GuardianContact   string    `json:"guardian_contact"`
	RiskPoints        int       `json:"risk_points"`
	RiskLevel         string    `json:"risk_level"`
}
