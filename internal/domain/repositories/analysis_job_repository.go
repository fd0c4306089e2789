package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// AnalysisJobRepository defines persistence operations for the
// recording-to-analysis pipeline jobs
type AnalysisJobRepository interface {
	// Create creates a new job
	Create(ctx context.Context, job *entities.AnalysisJob) error

	// FindByID finds a job by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.AnalysisJob, error)

	// FindByExternalID finds a job by the transcription service's job id
	FindByExternalID(ctx context.Context, externalID string) (*entities.AnalysisJob, error)

	// FindByCallID returns the latest job for a call
	FindByCallID(ctx context.Context, callID uuid.UUID) (*entities.AnalysisJob, error)

	// ListByStatus returns jobs in a given state, oldest first
	ListByStatus(ctx context.Context, status entities.AnalysisJobStatus, limit int) ([]entities.AnalysisJob, error)

	// ClaimForProcessing atomically moves one job from `from` to `to`
	// and reports whether this worker won the claim
	ClaimForProcessing(ctx context.Context, jobID uuid.UUID, from, to entities.AnalysisJobStatus) (bool, error)

	// Update persists job field changes
	Update(ctx context.Context, job *entities.AnalysisJob) error

	// MarkAsSubmitted marks a job as submitted with its external id
	MarkAsSubmitted(ctx context.Context, jobID uuid.UUID, externalID string) error

	// MarkAsCompleted marks a job as completed with the stored transcript id
	MarkAsCompleted(ctx context.Context, jobID uuid.UUID, transcriptID *uuid.UUID) error

	// MarkAsFailed marks a job as failed with an error message
	MarkAsFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error

	// IncrementRetryCount bumps the retry counter and moves the job to retrying
	IncrementRetryCount(ctx context.Context, jobID uuid.UUID, errMsg string) error

	// FindStuckJobs returns jobs stuck in an in-flight state since before the cutoff
	FindStuckJobs(ctx context.Context, statuses []entities.AnalysisJobStatus, before time.Time, limit int) ([]entities.AnalysisJob, error)
}
