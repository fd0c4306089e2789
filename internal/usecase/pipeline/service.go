package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/callguardhq/callguard/internal/domain/entities"
	"github.com/callguardhq/callguard/internal/domain/repositories"
	"github.com/callguardhq/callguard/internal/infrastructure/cache"
	"github.com/callguardhq/callguard/internal/usecase/compliance"
	pkgai "github.com/callguardhq/callguard/pkg/ai"
	"github.com/callguardhq/callguard/pkg/config"
	"github.com/callguardhq/callguard/pkg/jobcontext"
)

// Service defines the recording-to-analysis pipeline orchestration
type Service interface {
	StartProcessing(ctx context.Context, callID string, recordingURL string) error
	HandleAssemblyAIWebhook(ctx context.Context, payload []byte, signature string) error
	SubmitToAssemblyAI(ctx context.Context, jobID uuid.UUID, recordingURL string) error
	StartWorkerPool(ctx context.Context, workerCount int) error
	StopWorkerPool() error
}

type pipelineService struct {
	jobRepo        repositories.AnalysisJobRepository
	transcriptRepo repositories.TranscriptRepository
	callRepo       repositories.CallRepository
	issueRepo      repositories.IssueRepository
	engine         *compliance.Engine
	asmSDKClient   *aai.Client
	asmRestClient  *pkgai.AssemblyAIClient
	resultCache    *cache.AnalysisCache
	cfg            *config.Config
	logger         *zap.Logger

	uploadSemaphore     chan struct{} // Limit concurrent uploads to AssemblyAI
	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewService constructs the pipeline service
func NewService(
	jobRepo repositories.AnalysisJobRepository,
	transcriptRepo repositories.TranscriptRepository,
	callRepo repositories.CallRepository,
	issueRepo repositories.IssueRepository,
	engine *compliance.Engine,
	resultCache *cache.AnalysisCache,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &pipelineService{
		jobRepo:         jobRepo,
		transcriptRepo:  transcriptRepo,
		callRepo:        callRepo,
		issueRepo:       issueRepo,
		engine:          engine,
		asmSDKClient:    aai.NewClient(cfg.Assembly.APIKey),
		asmRestClient:   pkgai.NewAssemblyAIClient(&cfg.Assembly),
		resultCache:     resultCache,
		cfg:             cfg,
		logger:          logger,
		uploadSemaphore: make(chan struct{}, 2), // Max 2 concurrent uploads
		workerStopChan:  make(chan struct{}),
	}
}

// StartProcessing creates a pipeline job for an uploaded recording and
// submits it for transcription
func (s *pipelineService) StartProcessing(ctx context.Context, callID string, recordingURL string) error {
	cid, err := uuid.Parse(callID)
	if err != nil {
		return fmt.Errorf("invalid call ID: %w", err)
	}

	job := entities.NewAnalysisJob(cid, recordingURL)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return fmt.Errorf("failed to create analysis job: %w", err)
	}

	if err := s.callRepo.UpdateStatus(ctx, cid, entities.CallStatusProcessing); err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Failed to mark call as processing", zap.Error(err))
		}
	}

	return s.SubmitToAssemblyAI(ctx, job.ID, recordingURL)
}

// SubmitToAssemblyAI submits a recording to AssemblyAI for transcription.
// The job must already exist; a semaphore bounds concurrent uploads.
func (s *pipelineService) SubmitToAssemblyAI(ctx context.Context, jobID uuid.UUID, recordingURL string) error {
	if s.asmSDKClient == nil {
		return fmt.Errorf("assemblyai SDK client not configured")
	}
	if recordingURL == "" {
		return fmt.Errorf("recording URL is required")
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to get analysis job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("analysis job not found: %s", jobID)
	}

	if s.logger != nil {
		s.logger.Info("🔄 Processing analysis job",
			zap.String("job_id", job.ID.String()),
			zap.String("call_id", job.CallID.String()),
			zap.Int("retry_count", job.RetryCount),
		)
	}

	s.uploadSemaphore <- struct{}{}
	defer func() { <-s.uploadSemaphore }()

	var transcriptID string
	submitFn := func() error {
		cleanURL := strings.TrimSpace(recordingURL)

		if s.logger != nil {
			s.logger.Info("📥 Downloading recording from storage",
				zap.String("recording_url", cleanURL),
			)
		}

		resp, err := http.Get(cleanURL)
		if err != nil {
			return fmt.Errorf("failed to download recording: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != 200 {
			return fmt.Errorf("storage returned status %d", resp.StatusCode)
		}

		uploadURL, err := s.asmSDKClient.Upload(ctx, resp.Body)
		if err != nil {
			return fmt.Errorf("failed to upload to AssemblyAI: %w", err)
		}

		webhookURL := s.cfg.Assembly.WebhookBaseURL
		if webhookURL != "" && !strings.HasSuffix(webhookURL, "/v1/webhooks/assemblyai") {
			webhookURL = strings.TrimRight(webhookURL, "/") + "/v1/webhooks/assemblyai"
		}

		params := &aai.TranscriptOptionalParams{
			SpeakerLabels: aai.Bool(true),
		}
		if webhookURL != "" {
			params.WebhookURL = &webhookURL
		}

		if s.logger != nil {
			s.logger.Info("🎙️ Starting transcription",
				zap.String("webhook_url", webhookURL),
			)
		}

		transcript, err := s.asmSDKClient.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
		if err != nil {
			return err
		}
		if transcript.ID != nil {
			transcriptID = *transcript.ID
		}

		// The webhook can arrive within seconds of submission; the
		// external id must be in the database before it does.
		if err := s.jobRepo.MarkAsSubmitted(ctx, job.ID, transcriptID); err != nil {
			return fmt.Errorf("failed to update external_job_id: %w", err)
		}

		if s.logger != nil {
			s.logger.Info("✅ Transcription job submitted",
				zap.String("call_id", job.CallID.String()),
				zap.String("transcript_id", transcriptID),
			)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	bo.MaxInterval = 10 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		s.jobRepo.MarkAsFailed(ctx, job.ID, fmt.Sprintf("failed to submit to AssemblyAI: %v", err))
		if s.logger != nil {
			s.logger.Error("❌ Failed to submit to AssemblyAI after retries",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
		return err
	}

	return nil
}

// HandleAssemblyAIWebhook processes AssemblyAI webhook payloads
func (s *pipelineService) HandleAssemblyAIWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.cfg.Assembly.WebhookSecret != "" {
		if !pkgai.VerifyHMAC(s.cfg.Assembly.WebhookSecret, payload, signature) {
			if s.logger != nil {
				s.logger.Warn("invalid webhook signature from AssemblyAI")
			}
			return fmt.Errorf("invalid webhook signature")
		}
	}

	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	transcriptID, ok := body["transcript_id"].(string)
	if !ok || transcriptID == "" {
		transcriptID, ok = body["id"].(string)
		if !ok || transcriptID == "" {
			return fmt.Errorf("transcript ID missing in webhook")
		}
	}

	status, _ := body["status"].(string)

	if s.logger != nil {
		s.logger.Info("📥 Received AssemblyAI webhook",
			zap.String("transcript_id", transcriptID),
			zap.String("status", status),
		)
	}

	job, err := s.jobRepo.FindByExternalID(ctx, transcriptID)
	if err != nil {
		return fmt.Errorf("failed to find analysis job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("analysis job not found for transcript %s", transcriptID)
	}

	switch status {
	case "completed":
		if err := s.handleCompletedTranscript(ctx, job, transcriptID); err != nil {
			if s.logger != nil {
				s.logger.Error("❌ Failed to handle completed transcript", zap.Error(err))
			}
			return err
		}

	case "error":
		errorMsg := fmt.Sprintf("AssemblyAI error: %v", body["error"])
		if err := s.jobRepo.MarkAsFailed(ctx, job.ID, errorMsg); err != nil && s.logger != nil {
			s.logger.Error("failed to mark job as failed", zap.Error(err))
		}
		s.markCallFailed(ctx, job.CallID)
	}

	return nil
}

// handleCompletedTranscript fetches the full transcript from AssemblyAI,
// stores it with per-utterance segments, and queues the compliance pass
func (s *pipelineService) handleCompletedTranscript(ctx context.Context, job *entities.AnalysisJob, transcriptID string) error {
	transcript, err := s.asmSDKClient.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		return fmt.Errorf("failed to fetch transcript: %w", err)
	}

	entity := entities.NewTranscript(job.CallID)
	entity.ModelUsed = "assemblyai"

	if transcript.Text != nil {
		entity.Text = *transcript.Text
	}
	if transcript.LanguageCode != "" {
		entity.Language = string(transcript.LanguageCode)
	}
	if transcript.Confidence != nil {
		entity.ConfidenceScore = *transcript.Confidence
	}
	if transcript.AudioDuration != nil {
		job.Metadata.DurationSeconds = int(*transcript.AudioDuration)
	}

	// Utterances become the engine's segments, millisecond timestamps
	// preserved as-is.
	speakers := map[string]struct{}{}
	if len(transcript.Utterances) > 0 {
		segments := make([]entities.TranscriptSegment, 0, len(transcript.Utterances))
		for _, utt := range transcript.Utterances {
			seg := entities.TranscriptSegment{}
			if utt.Text != nil {
				seg.Text = *utt.Text
			}
			if utt.Start != nil {
				seg.StartMs = *utt.Start
			}
			if utt.End != nil {
				seg.EndMs = *utt.End
			}
			if utt.Speaker != nil {
				seg.Speaker = *utt.Speaker
				speakers[*utt.Speaker] = struct{}{}
			}
			if utt.Confidence != nil {
				conf := *utt.Confidence
				seg.Confidence = &conf
			}
			segments = append(segments, seg)
		}
		entity.Segments = segments
		entity.SpeakerCount = len(speakers)
	}

	if err := s.transcriptRepo.Save(ctx, entity); err != nil {
		return fmt.Errorf("failed to store transcript: %w", err)
	}

	if job.Metadata.DurationSeconds > 0 {
		if call, err := s.callRepo.FindByID(ctx, job.CallID); err == nil && call != nil {
			call.DurationSeconds = job.Metadata.DurationSeconds
			if err := s.callRepo.Update(ctx, call); err != nil && s.logger != nil {
				s.logger.Warn("⚠️ Failed to store call duration", zap.Error(err))
			}
		}
	}

	if s.logger != nil {
		s.logger.Info("✅ Transcript stored",
			zap.String("transcript_id", entity.ID.String()),
			zap.String("call_id", job.CallID.String()),
			zap.Int("segment_count", len(entity.Segments)),
		)
	}

	job.TranscriptID = &entity.ID
	job.Status = entities.AnalysisJobStatusTranscriptReady
	job.UpdatedAt = time.Now()
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to mark job as transcript_ready: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Job marked as transcript_ready, will be picked up by worker pool",
			zap.String("job_id", job.ID.String()),
		)
	}

	return nil
}

// StartWorkerPool starts background workers that run the compliance pass
// over jobs whose transcript is ready
func (s *pipelineService) StartWorkerPool(ctx context.Context, workerCount int) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}

	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	if s.logger != nil {
		s.logger.Info("🚀 Starting analysis worker pool",
			zap.Int("worker_count", workerCount),
		)
	}

	for i := 0; i < workerCount; i++ {
		s.workerWg.Add(1)
		go s.analysisWorker(ctx, i)
	}

	s.workerWg.Add(1)
	go s.cleanupZombieJobs(ctx)

	s.workerWg.Add(1)
	go s.pendingJobWorker(ctx)

	s.workerWg.Add(1)
	go s.webhookTimeoutWorker(ctx)

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (s *pipelineService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	if s.logger != nil {
		s.logger.Info("🛑 Stopping analysis worker pool...")
	}

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	if s.logger != nil {
		s.logger.Info("✅ Analysis worker pool stopped")
	}

	return nil
}

// analysisWorker polls for transcript_ready jobs and runs the compliance
// engine over them
func (s *pipelineService) analysisWorker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("👷 Analysis worker started",
			zap.Int("worker_id", workerID),
		)
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Analysis worker stopping",
					zap.Int("worker_id", workerID),
				)
			}
			return

		case <-ticker.C:
			jobs, err := s.jobRepo.ListByStatus(parentCtx, entities.AnalysisJobStatusTranscriptReady, 5)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to poll jobs",
						zap.Int("worker_id", workerID),
						zap.Error(err),
					)
				}
				continue
			}
			if len(jobs) == 0 {
				continue
			}

			job := jobs[0]

			// Compare-and-swap claim so only one worker gets the job
			claimed, err := s.jobRepo.ClaimForProcessing(parentCtx, job.ID,
				entities.AnalysisJobStatusTranscriptReady, entities.AnalysisJobStatusAnalyzing)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to claim job",
						zap.String("job_id", job.ID.String()),
						zap.Error(err),
					)
				}
				continue
			}
			if !claimed {
				continue
			}

			if s.logger != nil {
				s.logger.Info("👷 Worker claimed job",
					zap.Int("worker_id", workerID),
					zap.String("job_id", job.ID.String()),
					zap.String("call_id", job.CallID.String()),
				)
			}

			jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, jobcontext.JobTypeAnalysis, workerID)

			err = jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
				return s.runComplianceAnalysis(ctx, &job)
			})

			cancel()

			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Job failed after retries",
						zap.String("job_id", job.ID.String()),
						zap.Error(err),
					)
				}
				s.jobRepo.MarkAsFailed(parentCtx, job.ID, err.Error())
				s.markCallFailed(parentCtx, job.CallID)
			} else {
				if s.logger != nil {
					s.logger.Info("✅ Job completed successfully",
						zap.String("job_id", job.ID.String()),
					)
				}
				s.jobRepo.MarkAsCompleted(parentCtx, job.ID, job.TranscriptID)
			}
		}
	}
}

// runComplianceAnalysis executes one full compliance pass for a job and
// persists the outcome
func (s *pipelineService) runComplianceAnalysis(ctx context.Context, job *entities.AnalysisJob) error {
	startTime := time.Now()

	transcript, err := s.transcriptRepo.FindByCallID(ctx, job.CallID)
	if err != nil {
		return fmt.Errorf("failed to get transcript: %w", err)
	}
	if transcript == nil {
		return fmt.Errorf("transcript not found for call %s", job.CallID)
	}

	result, err := s.engine.Analyze(ctx, transcript.Segments)
	if err != nil {
		return fmt.Errorf("compliance analysis failed: %w", err)
	}

	// Re-analysis replaces the previous issue set.
	if err := s.issueRepo.DeleteByCallID(ctx, job.CallID); err != nil {
		return fmt.Errorf("failed to clear previous issues: %w", err)
	}
	for i := range result.Issues {
		result.Issues[i].CallID = job.CallID
	}
	if err := s.issueRepo.SaveAll(ctx, result.Issues); err != nil {
		return fmt.Errorf("failed to save issues: %w", err)
	}

	if err := s.callRepo.RecordAnalysis(ctx, job.CallID, result.RiskScore, result.RiskLevel, result.Method); err != nil {
		return fmt.Errorf("failed to record analysis on call: %w", err)
	}

	if s.resultCache != nil {
		if err := s.resultCache.SetResult(ctx, job.CallID, result); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to cache analysis result", zap.Error(err))
		}
	}

	job.Metadata.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	job.Metadata.IssueCount = len(result.Issues)

	if s.logger != nil {
		s.logger.Info("✅ Compliance analysis persisted",
			zap.String("call_id", job.CallID.String()),
			zap.Int("issue_count", len(result.Issues)),
			zap.Float64("risk_score", result.RiskScore),
			zap.String("risk_level", string(result.RiskLevel)),
			zap.String("method", result.Method),
		)
	}

	return nil
}

// markCallFailed flags the call when its pipeline permanently failed
func (s *pipelineService) markCallFailed(ctx context.Context, callID uuid.UUID) {
	if err := s.callRepo.UpdateStatus(ctx, callID, entities.CallStatusFailed); err != nil && s.logger != nil {
		s.logger.Error("failed to mark call as failed",
			zap.String("call_id", callID.String()),
			zap.Error(err),
		)
	}
}

// cleanupZombieJobs resets jobs stuck in analyzing status for >10 minutes
func (s *pipelineService) cleanupZombieJobs(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return

		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			jobs, err := s.jobRepo.FindStuckJobs(parentCtx,
				[]entities.AnalysisJobStatus{entities.AnalysisJobStatusAnalyzing}, cutoff, 10)
			if err != nil {
				continue
			}

			for _, job := range jobs {
				if s.logger != nil {
					s.logger.Warn("🧹 Cleaning up zombie job",
						zap.String("job_id", job.ID.String()),
						zap.Time("updated_at", job.UpdatedAt),
					)
				}
				// Reset to transcript_ready so a worker retries it
				s.jobRepo.ClaimForProcessing(parentCtx, job.ID,
					entities.AnalysisJobStatusAnalyzing, entities.AnalysisJobStatusTranscriptReady)
			}
		}
	}
}

// pendingJobWorker polls for pending jobs and submits them to AssemblyAI
func (s *pipelineService) pendingJobWorker(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("👷 Pending job worker started")
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Pending job worker stopping")
			}
			return

		case <-ticker.C:
			jobs, err := s.jobRepo.ListByStatus(parentCtx, entities.AnalysisJobStatusPending, 5)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to poll pending jobs", zap.Error(err))
				}
				continue
			}
			if len(jobs) == 0 {
				continue
			}

			for _, job := range jobs {
				claimed, err := s.jobRepo.ClaimForProcessing(parentCtx, job.ID,
					entities.AnalysisJobStatusPending, entities.AnalysisJobStatusSubmitted)
				if err != nil || !claimed {
					continue
				}

				if s.logger != nil {
					s.logger.Info("📤 Worker claimed job, submitting to AssemblyAI",
						zap.String("job_id", job.ID.String()),
						zap.Int("retry_count", job.RetryCount),
					)
				}

				jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, jobcontext.JobTypeSubmission, 0)
				if err := s.SubmitToAssemblyAI(jobCtx, job.ID, job.RecordingURL); err != nil {
					if s.logger != nil {
						s.logger.Error("❌ Failed to submit job",
							zap.String("job_id", job.ID.String()),
							zap.Error(err),
						)
					}
				}
				cancel()
			}
		}
	}
}

// webhookTimeoutWorker polls AssemblyAI for jobs stuck in submitted
// status (missed or delayed webhook)
func (s *pipelineService) webhookTimeoutWorker(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(2 * time.Minute)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("👷 Webhook timeout worker started")
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Webhook timeout worker stopping")
			}
			return

		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			stuckJobs, err := s.jobRepo.FindStuckJobs(parentCtx,
				[]entities.AnalysisJobStatus{entities.AnalysisJobStatusSubmitted}, cutoff, 10)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to query stuck jobs", zap.Error(err))
				}
				continue
			}
			if len(stuckJobs) == 0 {
				continue
			}

			if s.logger != nil {
				s.logger.Warn("⏰ Found jobs stuck in submitted status (webhook timeout)",
					zap.Int("count", len(stuckJobs)),
				)
			}

			for _, job := range stuckJobs {
				if job.ExternalJobID == nil || *job.ExternalJobID == "" {
					s.jobRepo.MarkAsFailed(parentCtx, job.ID, "no external transcript ID")
					continue
				}

				transcriptID := *job.ExternalJobID
				result, err := s.asmRestClient.GetTranscript(parentCtx, transcriptID)
				if err != nil {
					// Might be a transient API error, leave the job alone
					continue
				}

				switch result.Status {
				case "completed":
					if s.logger != nil {
						s.logger.Info("✅ Transcript completed (webhook missed), processing now",
							zap.String("job_id", job.ID.String()),
						)
					}
					if err := s.handleCompletedTranscript(parentCtx, &job, transcriptID); err != nil {
						s.jobRepo.MarkAsFailed(parentCtx, job.ID, fmt.Sprintf("failed to process transcript: %v", err))
						s.markCallFailed(parentCtx, job.CallID)
					}

				case "error":
					errorMsg := "AssemblyAI transcription failed"
					if result.Error != "" {
						errorMsg = fmt.Sprintf("AssemblyAI error: %s", result.Error)
					}
					s.jobRepo.MarkAsFailed(parentCtx, job.ID, errorMsg)
					s.markCallFailed(parentCtx, job.CallID)

				case "queued", "processing":
					// Still working, push the timeout window forward
					s.jobRepo.ClaimForProcessing(parentCtx, job.ID,
						entities.AnalysisJobStatusSubmitted, entities.AnalysisJobStatusSubmitted)
				}
			}
		}
	}
}
