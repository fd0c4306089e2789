package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/callguardhq/callguard/errors"
	calldto "github.com/callguardhq/callguard/internal/adapter/dto/call"
	"github.com/callguardhq/callguard/internal/adapter/dto/common"
	"github.com/callguardhq/callguard/internal/domain/entities"
	"github.com/callguardhq/callguard/internal/domain/repositories"
	calluse "github.com/callguardhq/callguard/internal/usecase/call"
)

// IssueHandler serves the cross-call compliance issue feed
type IssueHandler struct {
	svc    calluse.Service
	logger *zap.Logger
}

// NewIssueHandler creates a new issue handler
func NewIssueHandler(svc calluse.Service, logger *zap.Logger) *IssueHandler {
	return &IssueHandler{svc: svc, logger: logger}
}

// ListIssues returns compliance issues across calls, filterable by
// category and severity
func (h *IssueHandler) ListIssues(c echo.Context) error {
	var req calldto.ListIssuesRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	issues, err := h.svc.ListIssues(c.Request().Context(), repositories.IssueFilter{
		Category: req.Category,
		Severity: entities.Severity(req.Severity),
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	out := make([]calldto.IssueResponse, 0, len(issues))
	for i := range issues {
		out = append(out, calldto.FromIssue(&issues[i]))
	}

	return HandleSuccess(h.logger, c, common.ListResponse{
		Data:  out,
		Count: len(out),
		Pagination: &common.PaginationResponse{
			Limit:  req.Limit,
			Offset: req.Offset,
		},
	})
}

// ListCallIssues returns the issues for a single call
func (h *IssueHandler) ListCallIssues(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid call ID"))
	}

	result, err := h.svc.GetAnalysis(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, calldto.FromAnalysisResult(result))
}
