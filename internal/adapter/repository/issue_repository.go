package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/callguardhq/callguard/internal/domain/entities"
	"github.com/callguardhq/callguard/internal/domain/repositories"
)

// IssueRepository handles compliance issue data operations
type IssueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// SaveAll persists a batch of issues for one analysis pass
func (r *IssueRepository) SaveAll(ctx context.Context, issues []entities.ComplianceIssue) error {
	if len(issues) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&issues).Error
}

// ListByCallID returns all issues detected on a call, in insertion order
func (r *IssueRepository) ListByCallID(ctx context.Context, callID uuid.UUID) ([]entities.ComplianceIssue, error) {
	var issues []entities.ComplianceIssue
	if err := r.db.WithContext(ctx).
		Where("call_id = ?", callID).
		Order("created_at ASC").
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// List returns issues matching the filter, newest first
func (r *IssueRepository) List(ctx context.Context, filter repositories.IssueFilter) ([]entities.ComplianceIssue, error) {
	limit := filter.Limit
	if limit == 0 {
		limit = 100
	}
	query := r.db.WithContext(ctx).Model(&entities.ComplianceIssue{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}

	var issues []entities.ComplianceIssue
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// DeleteByCallID removes all issues for a call before re-analysis
func (r *IssueRepository) DeleteByCallID(ctx context.Context, callID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("call_id = ?", callID).
		Delete(&entities.ComplianceIssue{}).Error
}
