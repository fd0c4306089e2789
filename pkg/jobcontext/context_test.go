package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIsRetryableErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pattern compile failure", errors.New(`rule "r1": pattern "(" does not compile: missing closing )`), false},
		{"catalog misconfiguration", errors.New("compliance config invalid: severity_weights: missing"), false},
		{"provider rejected payload", errors.New("assemblyai returned status 400"), false},
		{"missing record", errors.New("record not found"), false},
		{"provider rate limit", errors.New("assemblyai returned status 429"), true},
		{"provider outage", errors.New("assemblyai returned status 503"), true},
		{"recording download refused", errors.New("dial tcp 10.0.0.1:443: connection refused"), true},
		{"worker lock contention", errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{"timeout", errors.New("context deadline exceeded"), true},
	}

	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Errorf("%s: IsRetryableError = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestJobEndNonRetryableFailsFast(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), JobTypeAnalysis, 1)
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		return errors.New(`rule "r1": pattern "(" does not compile: missing closing )`)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("permanent failure ran %d times, want 1", calls)
	}
}

func TestJobEndRetriesTransientError(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), JobTypeSubmission, 1)
	defer cancel()
	ctx = SetRetryBaseDelay(ctx, time.Millisecond)

	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("ran %d times, want 3", calls)
	}
}

func TestJobEndRecoversPanic(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), JobTypeAnalysis, 1)
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		panic("segment index out of range")
	})
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	if calls != 1 {
		t.Fatalf("panicking job ran %d times, want 1", calls)
	}
}

func TestJobBeginMetadata(t *testing.T) {
	jobID := uuid.New()
	ctx, cancel := JobBegin(context.Background(), jobID, JobTypeAnalysis, 4)
	defer cancel()

	md := GetJobMetadata(ctx)
	if md.JobID != jobID {
		t.Fatalf("job id = %s, want %s", md.JobID, jobID)
	}
	if md.JobType != JobTypeAnalysis {
		t.Fatalf("job type = %q", md.JobType)
	}
	if md.WorkerID != 4 {
		t.Fatalf("worker id = %d", md.WorkerID)
	}
	if md.StartTime.IsZero() {
		t.Fatal("start time not set")
	}
}
