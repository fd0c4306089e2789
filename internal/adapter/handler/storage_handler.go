package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/callguardhq/callguard/errors"
	"github.com/callguardhq/callguard/internal/infrastructure/storage"
)

// StorageHandler exposes recording-store diagnostics for operators
type StorageHandler struct {
	minioClient *storage.MinIOClient
	logger      *zap.Logger
}

// NewStorageHandler creates a new storage handler
func NewStorageHandler(minioClient *storage.MinIOClient, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{
		minioClient: minioClient,
		logger:      logger,
	}
}

// BucketInfo returns bucket connection status and object counts
func (h *StorageHandler) BucketInfo(c echo.Context) error {
	ctx := c.Request().Context()

	info, err := h.minioClient.GetBucketInfo(ctx)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to get bucket info", zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrStorageFailed("bucket_info", err))
	}

	return HandleSuccess(h.logger, c, info)
}

// ListRecordings lists stored recordings with an optional prefix filter
func (h *StorageHandler) ListRecordings(c echo.Context) error {
	ctx := c.Request().Context()
	prefix := c.QueryParam("prefix")
	if prefix == "" {
		prefix = "recordings/"
	}

	files, err := h.minioClient.ListFiles(ctx, prefix)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to list recordings", zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrStorageFailed("list", err))
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"files":  files,
		"count":  len(files),
		"prefix": prefix,
	})
}

// RecordingURL generates a presigned download URL for a stored recording
func (h *StorageHandler) RecordingURL(c echo.Context) error {
	ctx := c.Request().Context()
	filePath := c.QueryParam("file")

	if filePath == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Missing file parameter"))
	}

	url, err := h.minioClient.GetFileURL(ctx, filePath, 1*time.Hour)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to generate download URL",
				zap.String("file", filePath),
				zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrStorageFailed("presign", err))
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"file":       filePath,
		"url":        url,
		"expires_in": "1 hour",
	})
}
