package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// TranscriptRepository defines persistence operations for transcripts
type TranscriptRepository interface {
	// Save creates or replaces a transcript record
	Save(ctx context.Context, t *entities.Transcript) error

	// FindByID finds a transcript by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcript, error)

	// FindByCallID returns the latest transcript for a call
	FindByCallID(ctx context.Context, callID uuid.UUID) (*entities.Transcript, error)
}
