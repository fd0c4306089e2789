package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisJobStatus represents the status of a call processing job
type AnalysisJobStatus string

const (
	AnalysisJobStatusPending         AnalysisJobStatus = "pending"          // Waiting to be submitted for transcription
	AnalysisJobStatusSubmitted       AnalysisJobStatus = "submitted"        // Submitted to AssemblyAI, waiting for transcript
	AnalysisJobStatusTranscriptReady AnalysisJobStatus = "transcript_ready" // Transcript stored, waiting for compliance analysis
	AnalysisJobStatusAnalyzing       AnalysisJobStatus = "analyzing"        // Rules engine (and optional escalation) running
	AnalysisJobStatusCompleted       AnalysisJobStatus = "completed"        // Issues and risk score persisted
	AnalysisJobStatusFailed          AnalysisJobStatus = "failed"           // Processing failed
	AnalysisJobStatusRetrying        AnalysisJobStatus = "retrying"         // Retrying after failure
	AnalysisJobStatusCancelled       AnalysisJobStatus = "cancelled"        // Job was cancelled
)

// AnalysisJob tracks the transcription-then-analysis pipeline for one
// uploaded call recording.
type AnalysisJob struct {
	ID            uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CallID        uuid.UUID         `json:"call_id" gorm:"type:uuid;not null;index"`
	Status        AnalysisJobStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`
	ExternalJobID *string           `json:"external_job_id,omitempty" gorm:"type:varchar(255);index"` // AssemblyAI transcript ID (nullable)
	RecordingURL  string            `json:"recording_url" gorm:"type:text;not null"`
	TranscriptID  *uuid.UUID        `json:"transcript_id,omitempty" gorm:"type:uuid;index"`

	// Processing details
	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
	RetryCount  int        `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries  int        `json:"max_retries" gorm:"type:integer;default:3"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`

	// Metadata
	Metadata AnalysisJobMetadata `json:"metadata,omitempty" gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AnalysisJobMetadata stores additional metadata for analysis jobs
type AnalysisJobMetadata struct {
	DurationSeconds  int                    `json:"duration_seconds,omitempty"`
	Language         string                 `json:"language,omitempty"`
	SpeakerCount     int                    `json:"speaker_count,omitempty"`
	ProcessingTimeMs int64                  `json:"processing_time_ms,omitempty"`
	IssueCount       int                    `json:"issue_count,omitempty"`
	ErrorDetails     map[string]interface{} `json:"error_details,omitempty"`
	WebhookAttempts  int                    `json:"webhook_attempts,omitempty"`
}

// Scan implements sql.Scanner interface for GORM
func (m *AnalysisJobMetadata) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &m)
}

// Value implements driver.Valuer interface for GORM
func (m AnalysisJobMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// NewAnalysisJob creates a new analysis job for a call recording
func NewAnalysisJob(callID uuid.UUID, recordingURL string) *AnalysisJob {
	return &AnalysisJob{
		ID:           uuid.New(),
		CallID:       callID,
		Status:       AnalysisJobStatusPending,
		RecordingURL: recordingURL,
		RetryCount:   0,
		MaxRetries:   3,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// IsRetryable checks if job can be retried
func (j *AnalysisJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries && j.Status == AnalysisJobStatusFailed
}

// CanBeSubmitted checks if job is ready to be submitted
func (j *AnalysisJob) CanBeSubmitted() bool {
	return j.Status == AnalysisJobStatusPending || (j.Status == AnalysisJobStatusFailed && j.IsRetryable())
}

// MarkAsSubmitted marks job as submitted to the transcription service
func (j *AnalysisJob) MarkAsSubmitted(externalJobID string) {
	j.Status = AnalysisJobStatusSubmitted
	j.ExternalJobID = &externalJobID
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks job as completed successfully
func (j *AnalysisJob) MarkAsCompleted(transcriptID *uuid.UUID) {
	j.Status = AnalysisJobStatusCompleted
	j.TranscriptID = transcriptID
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks job as failed with error message
func (j *AnalysisJob) MarkAsFailed(errMsg string) {
	j.Status = AnalysisJobStatusFailed
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}

// IncrementRetry increments retry count and marks for retry
func (j *AnalysisJob) IncrementRetry(errMsg string) {
	j.RetryCount++
	j.Status = AnalysisJobStatusRetrying
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}

// TableName specifies the table name for GORM
func (AnalysisJob) TableName() string {
	return "analysis_jobs"
}
