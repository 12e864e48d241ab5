package models

import (
	"time"

	"github.com/google/uuid"
)

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

func (t JobType) IsValid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// Job is an admin-created posting. Immutable except delete.
type Job struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title        string    `gorm:"type:text;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Requirements string    `gorm:"type:text" json:"requirements"`
	Location     string    `gorm:"type:text" json:"location"`
	Type         JobType   `gorm:"type:text" json:"type"`
	SalaryRange  string    `gorm:"type:text" json:"salary_range"`
	CreatedAt    time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (Job) TableName() string {
	return "jobs"
}
