package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// CallRepository handles call data operations
type CallRepository struct {
	db *gorm.DB
}

// NewCallRepository creates a new call repository
func NewCallRepository(db *gorm.DB) *CallRepository {
	return &CallRepository{db: db}
}

// Create creates a new call
func (r *CallRepository) Create(ctx context.Context, call *entities.Call) error {
	if call == nil {
		return errors.New("call cannot be nil")
	}
	return r.db.WithContext(ctx).Create(call).Error
}

// FindByID finds a call by ID
func (r *CallRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Call, error) {
	var call entities.Call
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&call).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &call, nil
}

// List returns calls ordered by creation time, newest first
func (r *CallRepository) List(ctx context.Context, limit, offset int) ([]entities.Call, error) {
	if limit == 0 {
		limit = 50
	}
	var calls []entities.Call
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&calls).Error; err != nil {
		return nil, err
	}
	return calls, nil
}

// ListByStatus returns calls in a given lifecycle state
func (r *CallRepository) ListByStatus(ctx context.Context, status entities.CallStatus, limit int) ([]entities.Call, error) {
	if limit == 0 {
		limit = 50
	}
	var calls []entities.Call
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Find(&calls).Error; err != nil {
		return nil, err
	}
	return calls, nil
}

// Update persists call field changes
func (r *CallRepository) Update(ctx context.Context, call *entities.Call) error {
	if call == nil {
		return errors.New("call cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.Call{}).
		Where("id = ?", call.ID).
		Save(call).Error
}

// UpdateStatus updates only the lifecycle status
func (r *CallRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.CallStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.Call{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// RecordAnalysis stores the analysis outcome on the call row
func (r *CallRepository) RecordAnalysis(ctx context.Context, id uuid.UUID, score float64, level entities.RiskLevel, method string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Call{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          entities.CallStatusAnalyzed,
			"risk_score":      score,
			"risk_level":      level,
			"analysis_method": method,
			"analyzed_at":     now,
			"updated_at":      now,
		}).Error
}

// Delete removes a call
func (r *CallRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.Call{}, "id = ?", id).Error
}
