package handler

import (
	stdErrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/callguardhq/callguard/errors"
	calldto "github.com/callguardhq/callguard/internal/adapter/dto/call"
	"github.com/callguardhq/callguard/internal/adapter/dto/common"
	"github.com/callguardhq/callguard/internal/infrastructure/storage"
	calluse "github.com/callguardhq/callguard/internal/usecase/call"
	"github.com/callguardhq/callguard/internal/usecase/compliance"
	uerrors "github.com/callguardhq/callguard/internal/usecase/errors"
	"github.com/callguardhq/callguard/internal/usecase/pipeline"
)

// CallHandler handles call lifecycle and analysis endpoints
type CallHandler struct {
	svc         calluse.Service
	pipelineSvc pipeline.Service
	minioClient *storage.MinIOClient
	logger      *zap.Logger
}

// NewCallHandler creates a new call handler
func NewCallHandler(svc calluse.Service, pipelineSvc pipeline.Service, minioClient *storage.MinIOClient, logger *zap.Logger) *CallHandler {
	return &CallHandler{
		svc:         svc,
		pipelineSvc: pipelineSvc,
		minioClient: minioClient,
		logger:      logger,
	}
}

// CreateCall registers a new call for monitoring
func (h *CallHandler) CreateCall(c echo.Context) error {
	var req calldto.CreateCallRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	call, err := h.svc.CreateCall(c.Request().Context(), req.Title, req.AdvisorName, req.ClientRef)
	if err != nil {
		return HandleError(h.logger, c, h.mapError(err, ""))
	}

	return HandleSuccess(h.logger, c, calldto.FromCall(call))
}

// GetCall returns a call by ID
func (h *CallHandler) GetCall(c echo.Context) error {
	id, err := h.callID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	call, err := h.svc.GetCall(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, h.mapError(err, id.String()))
	}

	return HandleSuccess(h.logger, c, calldto.FromCall(call))
}

// ListCalls returns calls ordered by creation time
func (h *CallHandler) ListCalls(c echo.Context) error {
	var req calldto.ListCallsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	calls, err := h.svc.ListCalls(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return HandleError(h.logger, c, h.mapError(err, ""))
	}

	return HandleSuccess(h.logger, c, common.ListResponse{
		Data:  calldto.FromCalls(calls),
		Count: len(calls),
		Pagination: &common.PaginationResponse{
			Limit:  req.Limit,
			Offset: req.Offset,
		},
	})
}

// DeleteCall removes a call and its issues
func (h *CallHandler) DeleteCall(c echo.Context) error {
	id, err := h.callID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.svc.DeleteCall(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, h.mapError(err, id.String()))
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "deleted"})
}

// AttachTranscript stores a client-provided transcript for a call
func (h *CallHandler) AttachTranscript(c echo.Context) error {
	id, err := h.callID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req calldto.AttachTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	transcript, err := h.svc.AttachTranscript(c.Request().Context(), id, calldto.ToSegments(req.Segments))
	if err != nil {
		return HandleError(h.logger, c, h.mapError(err, id.String()))
	}

	return HandleSuccess(h.logger, c, calldto.FromTranscript(transcript))
}

// AnalyzeCall runs the compliance pass synchronously and returns the result
func (h *CallHandler) AnalyzeCall(c echo.Context) error {
	id, err := h.callID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req calldto.AnalyzeCallRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.svc.Analyze(c.Request().Context(), id, calldto.ToSegments(req.Segments))
	if err != nil {
		return HandleError(h.logger, c, h.mapError(err, id.String()))
	}

	return HandleSuccess(h.logger, c, calldto.FromAnalysisResult(result))
}

// GetAnalysis returns the latest analysis outcome for a call
func (h *CallHandler) GetAnalysis(c echo.Context) error {
	id, err := h.callID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.svc.GetAnalysis(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, h.mapError(err, id.String()))
	}

	return HandleSuccess(h.logger, c, calldto.FromAnalysisResult(result))
}

// UploadRecording accepts a multipart audio upload, stores it, and
// starts the transcription pipeline
func (h *CallHandler) UploadRecording(c echo.Context) error {
	id, err := h.callID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.minioClient == nil || h.pipelineSvc == nil {
		return HandleError(h.logger, c, errors.ErrInternal(fmt.Errorf("recording pipeline not configured")))
	}

	fileHeader, err := c.FormFile("recording")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Missing recording file"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrRecordingUploadFailed(id.String(), err))
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	objectName := fmt.Sprintf("recordings/%s/%d%s", id, time.Now().Unix(), filepath.Ext(fileHeader.Filename))
	if err := h.minioClient.UploadFile(c.Request().Context(), objectName, file, fileHeader.Size, contentType); err != nil {
		if h.logger != nil {
			h.logger.Error("failed to upload recording",
				zap.String("call_id", id.String()),
				zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrRecordingUploadFailed(id.String(), err))
	}

	// AssemblyAI downloads from this URL, long expiry to cover queueing
	recordingURL, err := h.minioClient.GetFileURL(c.Request().Context(), objectName, 24*time.Hour)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("presign", err))
	}

	if err := h.pipelineSvc.StartProcessing(c.Request().Context(), id.String(), recordingURL); err != nil {
		if h.logger != nil {
			h.logger.Error("failed to start processing", zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrTranscriptionFailed(err))
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"status":        "processing_started",
		"object_name":   objectName,
		"recording_url": recordingURL,
	})
}

func (h *CallHandler) callID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("Invalid call ID")
	}
	return id, nil
}

// mapError translates usecase errors into API error shapes
func (h *CallHandler) mapError(err error, callID string) error {
	var patternErr *compliance.PatternCompileError
	var configErr *compliance.ConfigError

	switch {
	case stdErrors.As(err, &patternErr):
		return errors.ErrCompliancePatternInvalid(err)
	case stdErrors.As(err, &configErr):
		return errors.ErrComplianceConfigInvalid(err)
	case stdErrors.Is(err, uerrors.ErrCallNotFound):
		return errors.ErrCallNotFound(callID)
	case stdErrors.Is(err, uerrors.ErrTranscriptNotFound):
		return errors.ErrTranscriptNotFound(callID)
	case stdErrors.Is(err, uerrors.ErrTranscriptEmpty):
		return errors.ErrTranscriptEmpty(callID)
	case stdErrors.Is(err, uerrors.ErrCallNotAnalyzed):
		return errors.ErrCallInvalidState(callID, "pending", "analyzed")
	case stdErrors.Is(err, uerrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	default:
		return errors.ErrInternal(err)
	}
}
