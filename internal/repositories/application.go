package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/internal/apperr"
	"hireflow/internal/models"
)

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id uuid.UUID) (*models.Application, error)
	FindAll(jobID *uuid.UUID) ([]models.Application, error)
	UpdateShortlist(id uuid.UUID, shortlisted bool) (*models.Application, error)
	UpdateAnalysis(id uuid.UUID, resumeText string, matchScore float64, status models.InterviewStatus) error
	UpdateAnalysisError(id uuid.UUID, errorMsg string) error
	UpdateInterviewResult(id uuid.UUID, resultJSON string, shortlisted bool) error
	FindUnanalyzed(limit int) ([]models.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *models.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) FindByID(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.Preload("Job").Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("application %s", id)
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) FindAll(jobID *uuid.UUID) ([]models.Application, error) {
	query := r.db.Model(&models.Application{})
	if jobID != nil {
		query = query.Where("job_id = ?", *jobID)
	}

	var apps []models.Application
	if err := query.Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// UpdateShortlist flips the manual shortlist flag. Both the admin and the
// post-interview decision may write this field; last write wins.
func (r *applicationRepository) UpdateShortlist(id uuid.UUID, shortlisted bool) (*models.Application, error) {
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"shortlisted": shortlisted,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return nil, fmt.Errorf("failed to update shortlist: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("application %s", id)
	}

	return r.FindByID(id)
}

// UpdateAnalysis records the scoring outcome. The WHERE guard keeps the
// status lifecycle forward-only: only unanalyzed applications may move to
// eligible or rejected, so a concurrent second analysis is a no-op error.
func (r *applicationRepository) UpdateAnalysis(id uuid.UUID, resumeText string, matchScore float64, status models.InterviewStatus) error {
	if !models.InterviewStatusNone.CanTransitionTo(status) {
		return apperr.Validation("invalid analysis status %q", status)
	}

	result := r.db.Model(&models.Application{}).
		Where("id = ? AND interview_status = ?", id, models.InterviewStatusNone).
		Updates(map[string]interface{}{
			"resume_text":      resumeText,
			"jd_match_score":   matchScore,
			"analysis_error":   nil,
			"interview_status": status,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update analysis: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Validation("application %s already analyzed", id)
	}
	return nil
}

// UpdateAnalysisError records a scoring failure without touching the status,
// so a failed analysis is never presented as a low score.
func (r *applicationRepository) UpdateAnalysisError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"analysis_error": errorMsg,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to record analysis error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("application %s", id)
	}
	return nil
}

// UpdateInterviewResult closes out an interview: evaluation JSON, the
// decision-driven shortlist flag, and the completed status. Guarded so only
// eligible applications complete.
func (r *applicationRepository) UpdateInterviewResult(id uuid.UUID, resultJSON string, shortlisted bool) error {
	result := r.db.Model(&models.Application{}).
		Where("id = ? AND interview_status = ?", id, models.InterviewStatusEligible).
		Updates(map[string]interface{}{
			"interview_result": resultJSON,
			"shortlisted":      shortlisted,
			"interview_status": models.InterviewStatusCompleted,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update interview result: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Validation("application %s is not awaiting interview completion", id)
	}
	return nil
}

// FindUnanalyzed returns applications that were submitted but never scored
// and never failed scoring. Failed applications stay out of the queue; a
// retry is an explicit admin action.
func (r *applicationRepository) FindUnanalyzed(limit int) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Where("interview_status = ? AND jd_match_score IS NULL AND analysis_error IS NULL", models.InterviewStatusNone).
		Order("created_at ASC").
		Limit(limit).
		Find(&apps).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find unanalyzed applications: %w", err)
	}
	return apps, nil
}
