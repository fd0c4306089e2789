package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/callguardhq/callguard/errors"
	"github.com/callguardhq/callguard/internal/usecase/pipeline"
)

// PipelineController handles endpoints that trigger background processing
type PipelineController struct {
	svc    pipeline.Service
	logger *zap.Logger
}

// NewPipelineController creates a new pipeline controller
func NewPipelineController(svc pipeline.Service, logger *zap.Logger) *PipelineController {
	return &PipelineController{svc: svc, logger: logger}
}

// ProcessCall triggers transcription and compliance analysis for a call
// whose recording is already hosted at a reachable URL
func (pc *PipelineController) ProcessCall(c echo.Context) error {
	callID := c.Param("id")
	var req struct {
		RecordingURL string `json:"recording_url"`
	}
	if err := c.Bind(&req); err != nil {
		return HandleError(pc.logger, c, errors.ErrInvalidPayload())
	}
	if req.RecordingURL == "" {
		return HandleError(pc.logger, c, errors.ErrInvalidArgument("Missing recording_url"))
	}
	if err := pc.svc.StartProcessing(c.Request().Context(), callID, req.RecordingURL); err != nil {
		if pc.logger != nil {
			pc.logger.Error("failed to start processing", zap.Error(err))
		}
		return HandleError(pc.logger, c, errors.ErrTranscriptionFailed(err))
	}
	return HandleSuccess(pc.logger, c, map[string]interface{}{"status": "processing_started"})
}
