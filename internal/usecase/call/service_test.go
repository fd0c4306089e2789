package call

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/callguardhq/callguard/internal/domain/entities"
	"github.com/callguardhq/callguard/internal/domain/repositories"
	"github.com/callguardhq/callguard/internal/usecase/compliance"
	uerrors "github.com/callguardhq/callguard/internal/usecase/errors"
)

// In-memory stand-ins for the gorm repositories. They implement the
// domain interfaces, so the service under test runs without a database.

type memCallRepo struct {
	calls map[uuid.UUID]*entities.Call
}

func newMemCallRepo() *memCallRepo {
	return &memCallRepo{calls: make(map[uuid.UUID]*entities.Call)}
}

func (r *memCallRepo) Create(_ context.Context, call *entities.Call) error {
	r.calls[call.ID] = call
	return nil
}

func (r *memCallRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Call, error) {
	return r.calls[id], nil
}

func (r *memCallRepo) List(_ context.Context, limit, offset int) ([]entities.Call, error) {
	out := make([]entities.Call, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCallRepo) ListByStatus(_ context.Context, status entities.CallStatus, limit int) ([]entities.Call, error) {
	var out []entities.Call
	for _, c := range r.calls {
		if c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCallRepo) Update(_ context.Context, call *entities.Call) error {
	r.calls[call.ID] = call
	return nil
}

func (r *memCallRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.CallStatus) error {
	if c, ok := r.calls[id]; ok {
		c.Status = status
	}
	return nil
}

func (r *memCallRepo) RecordAnalysis(_ context.Context, id uuid.UUID, score float64, level entities.RiskLevel, method string) error {
	c, ok := r.calls[id]
	if !ok {
		return errors.New("record not found")
	}
	c.RiskScore = score
	c.RiskLevel = level
	c.AnalysisMethod = method
	c.Status = entities.CallStatusAnalyzed
	return nil
}

func (r *memCallRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.calls, id)
	return nil
}

type memTranscriptRepo struct {
	byCall map[uuid.UUID]*entities.Transcript
}

func newMemTranscriptRepo() *memTranscriptRepo {
	return &memTranscriptRepo{byCall: make(map[uuid.UUID]*entities.Transcript)}
}

func (r *memTranscriptRepo) Save(_ context.Context, t *entities.Transcript) error {
	r.byCall[t.CallID] = t
	return nil
}

func (r *memTranscriptRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Transcript, error) {
	for _, t := range r.byCall {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *memTranscriptRepo) FindByCallID(_ context.Context, callID uuid.UUID) (*entities.Transcript, error) {
	return r.byCall[callID], nil
}

type memIssueRepo struct {
	byCall map[uuid.UUID][]entities.ComplianceIssue
}

func newMemIssueRepo() *memIssueRepo {
	return &memIssueRepo{byCall: make(map[uuid.UUID][]entities.ComplianceIssue)}
}

func (r *memIssueRepo) SaveAll(_ context.Context, issues []entities.ComplianceIssue) error {
	for _, is := range issues {
		r.byCall[is.CallID] = append(r.byCall[is.CallID], is)
	}
	return nil
}

func (r *memIssueRepo) ListByCallID(_ context.Context, callID uuid.UUID) ([]entities.ComplianceIssue, error) {
	return r.byCall[callID], nil
}

func (r *memIssueRepo) List(_ context.Context, filter repositories.IssueFilter) ([]entities.ComplianceIssue, error) {
	var out []entities.ComplianceIssue
	for _, issues := range r.byCall {
		for _, is := range issues {
			if filter.Category != "" && is.Category != filter.Category {
				continue
			}
			if filter.Severity != "" && is.Severity != filter.Severity {
				continue
			}
			out = append(out, is)
		}
	}
	return out, nil
}

func (r *memIssueRepo) DeleteByCallID(_ context.Context, callID uuid.UUID) error {
	delete(r.byCall, callID)
	return nil
}

func newTestService(t *testing.T) (Service, *memCallRepo, *memIssueRepo) {
	t.Helper()
	catalog, err := compliance.LoadDefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog failed to load: %v", err)
	}
	engine := compliance.NewEngine(catalog, nil, compliance.EngineConfig{}, nil)

	callRepo := newMemCallRepo()
	issueRepo := newMemIssueRepo()
	svc := NewService(callRepo, newMemTranscriptRepo(), issueRepo, engine, nil, nil)
	return svc, callRepo, issueRepo
}

func TestCreateCallRequiresTitle(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.CreateCall(context.Background(), "", "", ""); !errors.Is(err, uerrors.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestAnalyzeWithoutTranscript(t *testing.T) {
	svc, _, _ := newTestService(t)

	call, err := svc.CreateCall(context.Background(), "Q3 review", "J. Advisor", "client-42")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Analyze(context.Background(), call.ID, nil); !errors.Is(err, uerrors.ErrTranscriptNotFound) {
		t.Fatalf("got %v, want ErrTranscriptNotFound", err)
	}
}

func TestAnalyzePersistsOutcome(t *testing.T) {
	svc, callRepo, issueRepo := newTestService(t)

	call, err := svc.CreateCall(context.Background(), "Q3 review", "J. Advisor", "client-42")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	segments := []entities.TranscriptSegment{
		{Text: "I can offer you a guaranteed return on this fund", StartMs: 0, EndMs: 4000},
	}
	result, err := svc.Analyze(context.Background(), call.ID, segments)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if len(result.Issues) == 0 {
		t.Fatal("expected at least one issue for a guaranteed-return pitch")
	}

	stored := callRepo.calls[call.ID]
	if stored.Status != entities.CallStatusAnalyzed {
		t.Fatalf("call status = %s, want analyzed", stored.Status)
	}
	if stored.RiskScore != result.RiskScore {
		t.Fatalf("stored score %v != result score %v", stored.RiskScore, result.RiskScore)
	}

	saved, _ := issueRepo.ListByCallID(context.Background(), call.ID)
	if len(saved) != len(result.Issues) {
		t.Fatalf("saved %d issues, result has %d", len(saved), len(result.Issues))
	}
	for _, is := range saved {
		if is.CallID != call.ID {
			t.Fatalf("issue not attributed to call: %s", is.CallID)
		}
	}
}

func TestReanalyzeReplacesIssues(t *testing.T) {
	svc, _, issueRepo := newTestService(t)

	call, err := svc.CreateCall(context.Background(), "Q3 review", "J. Advisor", "client-42")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	risky := []entities.TranscriptSegment{
		{Text: "this is a guaranteed return, act now before it is too late", StartMs: 0, EndMs: 4000},
	}
	if _, err := svc.Analyze(context.Background(), call.ID, risky); err != nil {
		t.Fatalf("first analyze failed: %v", err)
	}
	first, _ := issueRepo.ListByCallID(context.Background(), call.ID)
	if len(first) == 0 {
		t.Fatal("expected issues from the first pass")
	}

	clean := []entities.TranscriptSegment{
		{Text: "past performance does not guarantee future results", StartMs: 0, EndMs: 4000},
	}
	result, err := svc.Analyze(context.Background(), call.ID, clean)
	if err != nil {
		t.Fatalf("second analyze failed: %v", err)
	}

	second, _ := issueRepo.ListByCallID(context.Background(), call.ID)
	if len(second) != len(result.Issues) {
		t.Fatalf("issue feed holds %d issues, result has %d: stale issues survived re-analysis", len(second), len(result.Issues))
	}
}
