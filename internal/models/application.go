package models

import (
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	InterviewStatusNone      InterviewStatus = "none"
	InterviewStatusEligible  InterviewStatus = "eligible"
	InterviewStatusRejected  InterviewStatus = "rejected"
	InterviewStatusCompleted InterviewStatus = "completed"
)

// CanTransitionTo enforces the forward-only lifecycle:
// none -> eligible|rejected, eligible -> completed. Terminal states never move.
func (s InterviewStatus) CanTransitionTo(next InterviewStatus) bool {
	switch s {
	case InterviewStatusNone:
		return next == InterviewStatusEligible || next == InterviewStatusRejected
	case InterviewStatusEligible:
		return next == InterviewStatusCompleted
	default:
		return false
	}
}

// Application is a candidate submission for a job. Created on submission,
// mutated by the scoring step and by interview completion, never deleted
// directly (only via job cascade).
type Application struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"job_id"`
	Name            string          `gorm:"type:text;not null" json:"name"`
	Email           string          `gorm:"type:text;not null" json:"email"`
	Phone           string          `gorm:"type:text;not null" json:"phone"`
	CurrentCTC      string          `gorm:"type:text" json:"current_ctc"`
	ExpectedCTC     string          `gorm:"type:text" json:"expected_ctc"`
	ResumeURL       string          `gorm:"type:text;not null" json:"resume_url"`
	ResumeText      *string         `gorm:"type:text" json:"resume_text,omitempty"`
	JDMatchScore    *float64        `gorm:"type:decimal(5,2)" json:"jd_match_score,omitempty"`
	AnalysisError   *string         `gorm:"type:text" json:"analysis_error,omitempty"`
	InterviewStatus InterviewStatus `gorm:"type:text;not null;default:'none'" json:"interview_status"`
	InterviewResult *string         `gorm:"type:text" json:"interview_result,omitempty"`
	Shortlisted     bool            `gorm:"not null;default:false" json:"shortlisted"`
	CreatedAt       time.Time       `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"type:timestamp;default:now()" json:"updated_at"`

	// Relations
	Job Job `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}
