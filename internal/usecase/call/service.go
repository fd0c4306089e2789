package call

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/callguardhq/callguard/internal/domain/entities"
	"github.com/callguardhq/callguard/internal/domain/repositories"
	"github.com/callguardhq/callguard/internal/infrastructure/cache"
	"github.com/callguardhq/callguard/internal/usecase/compliance"
	uerrors "github.com/callguardhq/callguard/internal/usecase/errors"
)

// Service covers call lifecycle and on-demand compliance analysis
type Service interface {
	CreateCall(ctx context.Context, title, advisorName, clientRef string) (*entities.Call, error)
	GetCall(ctx context.Context, id uuid.UUID) (*entities.Call, error)
	ListCalls(ctx context.Context, limit, offset int) ([]entities.Call, error)
	DeleteCall(ctx context.Context, id uuid.UUID) error
	AttachTranscript(ctx context.Context, callID uuid.UUID, segments []entities.TranscriptSegment) (*entities.Transcript, error)
	Analyze(ctx context.Context, callID uuid.UUID, segments []entities.TranscriptSegment) (*entities.AnalysisResult, error)
	GetAnalysis(ctx context.Context, callID uuid.UUID) (*entities.AnalysisResult, error)
	ListIssues(ctx context.Context, filter repositories.IssueFilter) ([]entities.ComplianceIssue, error)
}

type callService struct {
	callRepo       repositories.CallRepository
	transcriptRepo repositories.TranscriptRepository
	issueRepo      repositories.IssueRepository
	engine         *compliance.Engine
	resultCache    *cache.AnalysisCache
	logger         *zap.Logger
}

// NewService constructs the call service
func NewService(
	callRepo repositories.CallRepository,
	transcriptRepo repositories.TranscriptRepository,
	issueRepo repositories.IssueRepository,
	engine *compliance.Engine,
	resultCache *cache.AnalysisCache,
	logger *zap.Logger,
) Service {
	return &callService{
		callRepo:       callRepo,
		transcriptRepo: transcriptRepo,
		issueRepo:      issueRepo,
		engine:         engine,
		resultCache:    resultCache,
		logger:         logger,
	}
}

// CreateCall registers a new call for monitoring
func (s *callService) CreateCall(ctx context.Context, title, advisorName, clientRef string) (*entities.Call, error) {
	if title == "" {
		return nil, uerrors.ErrInvalidInput
	}

	call := entities.NewCall(title)
	call.AdvisorName = advisorName
	call.ClientRef = clientRef

	if err := s.callRepo.Create(ctx, call); err != nil {
		return nil, fmt.Errorf("failed to create call: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("📞 Call registered",
			zap.String("call_id", call.ID.String()),
			zap.String("title", call.Title),
		)
	}

	return call, nil
}

// GetCall returns a call by ID
func (s *callService) GetCall(ctx context.Context, id uuid.UUID) (*entities.Call, error) {
	call, err := s.callRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get call: %w", err)
	}
	if call == nil {
		return nil, uerrors.ErrCallNotFound
	}
	return call, nil
}

// ListCalls returns calls ordered by creation time
func (s *callService) ListCalls(ctx context.Context, limit, offset int) ([]entities.Call, error) {
	return s.callRepo.List(ctx, limit, offset)
}

// DeleteCall removes a call and its issues
func (s *callService) DeleteCall(ctx context.Context, id uuid.UUID) error {
	call, err := s.callRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get call: %w", err)
	}
	if call == nil {
		return uerrors.ErrCallNotFound
	}

	if err := s.issueRepo.DeleteByCallID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete issues: %w", err)
	}
	if s.resultCache != nil {
		s.resultCache.Invalidate(ctx, id)
	}
	return s.callRepo.Delete(ctx, id)
}

// AttachTranscript stores a client-provided transcript for a call
func (s *callService) AttachTranscript(ctx context.Context, callID uuid.UUID, segments []entities.TranscriptSegment) (*entities.Transcript, error) {
	if len(segments) == 0 {
		return nil, uerrors.ErrTranscriptEmpty
	}

	call, err := s.callRepo.FindByID(ctx, callID)
	if err != nil {
		return nil, fmt.Errorf("failed to get call: %w", err)
	}
	if call == nil {
		return nil, uerrors.ErrCallNotFound
	}

	transcript := entities.NewTranscript(callID)
	transcript.Segments = segments
	transcript.Text = compliance.JoinSegments(segments)
	transcript.ModelUsed = "client-provided"

	if err := s.transcriptRepo.Save(ctx, transcript); err != nil {
		return nil, fmt.Errorf("failed to save transcript: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("📝 Transcript attached",
			zap.String("call_id", callID.String()),
			zap.Int("segment_count", len(segments)),
		)
	}

	return transcript, nil
}

// Analyze runs the compliance engine for a call synchronously. When
// segments are provided they are stored as the call's transcript first;
// otherwise the previously stored transcript is used.
func (s *callService) Analyze(ctx context.Context, callID uuid.UUID, segments []entities.TranscriptSegment) (*entities.AnalysisResult, error) {
	call, err := s.callRepo.FindByID(ctx, callID)
	if err != nil {
		return nil, fmt.Errorf("failed to get call: %w", err)
	}
	if call == nil {
		return nil, uerrors.ErrCallNotFound
	}

	if len(segments) > 0 {
		if _, err := s.AttachTranscript(ctx, callID, segments); err != nil {
			return nil, err
		}
	} else {
		transcript, err := s.transcriptRepo.FindByCallID(ctx, callID)
		if err != nil {
			return nil, fmt.Errorf("failed to get transcript: %w", err)
		}
		if transcript == nil {
			return nil, uerrors.ErrTranscriptNotFound
		}
		segments = transcript.Segments
	}

	result, err := s.engine.Analyze(ctx, segments)
	if err != nil {
		return nil, fmt.Errorf("compliance analysis failed: %w", err)
	}

	// Re-analysis replaces the previous issue set.
	if err := s.issueRepo.DeleteByCallID(ctx, callID); err != nil {
		return nil, fmt.Errorf("failed to clear previous issues: %w", err)
	}
	for i := range result.Issues {
		result.Issues[i].CallID = callID
	}
	if err := s.issueRepo.SaveAll(ctx, result.Issues); err != nil {
		return nil, fmt.Errorf("failed to save issues: %w", err)
	}

	if err := s.callRepo.RecordAnalysis(ctx, callID, result.RiskScore, result.RiskLevel, result.Method); err != nil {
		return nil, fmt.Errorf("failed to record analysis: %w", err)
	}

	if s.resultCache != nil {
		if err := s.resultCache.SetResult(ctx, callID, result); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to cache analysis result", zap.Error(err))
		}
	}

	if s.logger != nil {
		s.logger.Info("✅ Call analyzed",
			zap.String("call_id", callID.String()),
			zap.Int("issue_count", len(result.Issues)),
			zap.Float64("risk_score", result.RiskScore),
			zap.String("risk_level", string(result.RiskLevel)),
		)
	}

	return result, nil
}

// GetAnalysis returns the latest analysis outcome for a call, served
// from cache when possible
func (s *callService) GetAnalysis(ctx context.Context, callID uuid.UUID) (*entities.AnalysisResult, error) {
	if s.resultCache != nil {
		if cached, err := s.resultCache.GetResult(ctx, callID); err == nil && cached != nil {
			return cached, nil
		}
	}

	call, err := s.callRepo.FindByID(ctx, callID)
	if err != nil {
		return nil, fmt.Errorf("failed to get call: %w", err)
	}
	if call == nil {
		return nil, uerrors.ErrCallNotFound
	}
	if call.AnalyzedAt == nil {
		return nil, uerrors.ErrCallNotAnalyzed
	}

	issues, err := s.issueRepo.ListByCallID(ctx, callID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	result := &entities.AnalysisResult{
		Issues:    issues,
		RiskScore: call.RiskScore,
		RiskLevel: call.RiskLevel,
		Method:    call.AnalysisMethod,
	}

	if s.resultCache != nil {
		s.resultCache.SetResult(ctx, callID, result)
	}

	return result, nil
}

// ListIssues returns compliance issues across calls matching the filter
func (s *callService) ListIssues(ctx context.Context, filter repositories.IssueFilter) ([]entities.ComplianceIssue, error) {
	return s.issueRepo.List(ctx, filter)
}
