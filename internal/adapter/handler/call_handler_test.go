package handler

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/callguardhq/callguard/errors"
	"github.com/callguardhq/callguard/internal/usecase/compliance"
	uerrors "github.com/callguardhq/callguard/internal/usecase/errors"
)

func mapCode(t *testing.T, h *CallHandler, in error) errors.ErrorCode {
	t.Helper()
	var appErr errors.AppError
	if !stdErrors.As(h.mapError(in, "c1"), &appErr) {
		t.Fatalf("mapError(%v) did not produce an AppError", in)
	}
	return appErr.Code
}

func TestMapErrorPatternCompileFailure(t *testing.T) {
	h := &CallHandler{}

	err := fmt.Errorf("compliance analysis failed: %w", &compliance.PatternCompileError{
		RuleID:  "performance_guarantees",
		Pattern: "guaranteed return(",
		Err:     stdErrors.New("missing closing )"),
	})

	if code := mapCode(t, h, err); code != errors.ErrorCode_COMPLIANCE_PATTERN_INVALID {
		t.Fatalf("pattern compile failure mapped to %v, want COMPLIANCE_PATTERN_INVALID", code)
	}
}

func TestMapErrorConfigFailure(t *testing.T) {
	h := &CallHandler{}

	err := fmt.Errorf("compliance analysis failed: %w", &compliance.ConfigError{
		Field:  "weights.critical",
		Reason: "must be positive",
	})

	if code := mapCode(t, h, err); code != errors.ErrorCode_COMPLIANCE_CONFIG_INVALID {
		t.Fatalf("config failure mapped to %v, want COMPLIANCE_CONFIG_INVALID", code)
	}
}

func TestMapErrorSentinels(t *testing.T) {
	h := &CallHandler{}

	cases := []struct {
		in   error
		want errors.ErrorCode
	}{
		{uerrors.ErrCallNotFound, errors.ErrorCode_CALL_NOT_FOUND},
		{uerrors.ErrTranscriptNotFound, errors.ErrorCode_TRANSCRIPT_NOT_FOUND},
		{uerrors.ErrTranscriptEmpty, errors.ErrorCode_TRANSCRIPT_EMPTY},
		{uerrors.ErrCallNotAnalyzed, errors.ErrorCode_CALL_INVALID_STATE},
		{uerrors.ErrInvalidInput, errors.ErrorCode_INVALID_ARGUMENT},
		{stdErrors.New("boom"), errors.ErrorCode_INTERNAL},
	}

	for _, tc := range cases {
		wrapped := fmt.Errorf("usecase: %w", tc.in)
		if code := mapCode(t, h, wrapped); code != tc.want {
			t.Fatalf("mapError(%v) = %v, want %v", tc.in, code, tc.want)
		}
	}
}
