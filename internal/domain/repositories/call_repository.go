package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// CallRepository defines the interface for call data access
type CallRepository interface {
	// Create creates a new call
	Create(ctx context.Context, call *entities.Call) error

	// FindByID finds a call by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Call, error)

	// List returns calls ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]entities.Call, error)

	// ListByStatus returns calls in a given lifecycle state
	ListByStatus(ctx context.Context, status entities.CallStatus, limit int) ([]entities.Call, error)

	// Update persists call field changes
	Update(ctx context.Context, call *entities.Call) error

	// UpdateStatus updates only the lifecycle status
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.CallStatus) error

	// RecordAnalysis stores the analysis outcome on the call row
	RecordAnalysis(ctx context.Context, id uuid.UUID, score float64, level entities.RiskLevel, method string) error

	// Delete removes a call
	Delete(ctx context.Context, id uuid.UUID) error
}
