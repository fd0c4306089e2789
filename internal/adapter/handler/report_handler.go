package handler

import (
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/callguardhq/callguard/errors"
	calluse "github.com/callguardhq/callguard/internal/usecase/call"
	uerrors "github.com/callguardhq/callguard/internal/usecase/errors"
	"github.com/callguardhq/callguard/internal/usecase/report"
)

// ReportHandler serves exported compliance reports
type ReportHandler struct {
	svc       calluse.Service
	generator *report.Generator
	logger    *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc calluse.Service, generator *report.Generator, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, generator: generator, logger: logger}
}

// DownloadPDF renders the compliance report for a call as a PDF
func (h *ReportHandler) DownloadPDF(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid call ID"))
	}
	ctx := c.Request().Context()

	call, err := h.svc.GetCall(ctx, id)
	if err != nil {
		if stdErrors.Is(err, uerrors.ErrCallNotFound) {
			return HandleError(h.logger, c, errors.ErrCallNotFound(id.String()))
		}
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	result, err := h.svc.GetAnalysis(ctx, id)
	if err != nil {
		if stdErrors.Is(err, uerrors.ErrCallNotAnalyzed) {
			return HandleError(h.logger, c, errors.ErrCallInvalidState(id.String(), string(call.Status), "analyzed"))
		}
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	data, err := h.generator.GeneratePDF(call, result.Issues)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to render report",
				zap.String("call_id", id.String()),
				zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrReportExportFailed("pdf", err))
	}

	if h.logger != nil {
		h.logger.Info("📄 Report exported",
			zap.String("call_id", id.String()),
			zap.Int("bytes", len(data)),
		)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="compliance-report-%s.pdf"`, id))
	return c.Blob(200, "application/pdf", data)
}
