package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// IssueFilter narrows issue listings for the dashboard
type IssueFilter struct {
	Category string
	Severity entities.Severity
	Limit    int
	Offset   int
}

// IssueRepository defines persistence operations for compliance issues.
// Issues are append-only: there is no update operation.
type IssueRepository interface {
	// SaveAll persists a batch of issues for one analysis pass
	SaveAll(ctx context.Context, issues []entities.ComplianceIssue) error

	// ListByCallID returns all issues detected on a call, in insertion order
	ListByCallID(ctx context.Context, callID uuid.UUID) ([]entities.ComplianceIssue, error)

	// List returns issues matching the filter, newest first
	List(ctx context.Context, filter IssueFilter) ([]entities.ComplianceIssue, error)

	// DeleteByCallID removes all issues for a call before re-analysis
	DeleteByCallID(ctx context.Context, callID uuid.UUID) error
}
