package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// AnalysisJobRepository handles analysis job data operations
type AnalysisJobRepository struct {
	db *gorm.DB
}

// NewAnalysisJobRepository creates a new analysis job repository
func NewAnalysisJobRepository(db *gorm.DB) *AnalysisJobRepository {
	return &AnalysisJobRepository{db: db}
}

// Create creates a new job
func (r *AnalysisJobRepository) Create(ctx context.Context, job *entities.AnalysisJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID finds a job by ID
func (r *AnalysisJobRepository) FindByID(ctx context.Context, jobID uuid.UUID) (*entities.AnalysisJob, error) {
	var job entities.AnalysisJob
	if err := r.db.WithContext(ctx).Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindByExternalID finds a job by the transcription service's job id
func (r *AnalysisJobRepository) FindByExternalID(ctx context.Context, externalID string) (*entities.AnalysisJob, error) {
	var job entities.AnalysisJob
	if err := r.db.WithContext(ctx).Where("external_job_id = ?", externalID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindByCallID returns the latest job for a call
func (r *AnalysisJobRepository) FindByCallID(ctx context.Context, callID uuid.UUID) (*entities.AnalysisJob, error) {
	var job entities.AnalysisJob
	if err := r.db.WithContext(ctx).
		Where("call_id = ?", callID).
		Order("created_at DESC").
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ListByStatus returns jobs in a given state, oldest first
func (r *AnalysisJobRepository) ListByStatus(ctx context.Context, status entities.AnalysisJobStatus, limit int) ([]entities.AnalysisJob, error) {
	if limit == 0 {
		limit = 100
	}
	var jobs []entities.AnalysisJob
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ClaimForProcessing atomically moves one job from `from` to `to`. The
// WHERE on the old status makes the claim a compare-and-swap: only one
// worker's UPDATE matches the row.
func (r *AnalysisJobRepository) ClaimForProcessing(ctx context.Context, jobID uuid.UUID, from, to entities.AnalysisJobStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ? AND status = ?", jobID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Update persists job field changes
func (r *AnalysisJobRepository) Update(ctx context.Context, job *entities.AnalysisJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", job.ID).
		Save(job).Error
}

// MarkAsSubmitted marks a job as submitted with its external id
func (r *AnalysisJobRepository) MarkAsSubmitted(ctx context.Context, jobID uuid.UUID, externalID string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":          entities.AnalysisJobStatusSubmitted,
			"external_job_id": externalID,
			"started_at":      now,
			"updated_at":      now,
		}).Error
}

// MarkAsCompleted marks a job as completed with the stored transcript id
func (r *AnalysisJobRepository) MarkAsCompleted(ctx context.Context, jobID uuid.UUID, transcriptID *uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":        entities.AnalysisJobStatusCompleted,
			"transcript_id": transcriptID,
			"completed_at":  now,
			"updated_at":    now,
		}).Error
}

// MarkAsFailed marks a job as failed with an error message
func (r *AnalysisJobRepository) MarkAsFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":     entities.AnalysisJobStatusFailed,
			"last_error": errMsg,
			"updated_at": now,
		}).Error
}

// IncrementRetryCount bumps the retry counter and moves the job to retrying
func (r *AnalysisJobRepository) IncrementRetryCount(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"status":      entities.AnalysisJobStatusRetrying,
			"last_error":  errMsg,
			"updated_at":  now,
		}).Error
}

// FindStuckJobs returns jobs stuck in an in-flight state since before the cutoff
func (r *AnalysisJobRepository) FindStuckJobs(ctx context.Context, statuses []entities.AnalysisJobStatus, before time.Time, limit int) ([]entities.AnalysisJob, error) {
	if limit == 0 {
		limit = 10
	}
	var jobs []entities.AnalysisJob
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", statuses, before).
		Order("updated_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}
