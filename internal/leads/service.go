package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/remodelgrid/leadgen-api/internal/observability/metrics"
	"github.com/remodelgrid/leadgen-api/internal/recaptcha"
	"github.com/remodelgrid/leadgen-api/pkg/logging"
)

// placeholderToken is what the form sends before the reCAPTCHA widget has
// loaded. Such submissions skip the risk check rather than failing it.
const placeholderToken = "placeholder-token"

// RiskAssessor scores a client token against an expected action label.
type RiskAssessor interface {
	Assess(ctx context.Context, token, expectedAction string) recaptcha.Verdict
}

// Notifier is told about each stored lead. Best effort only.
type Notifier interface {
	NotifyLeadStored(ctx context.Context, lead *Lead, submissionID string) error
}

// SubmitResult is the successful outcome of a submission.
type SubmitResult struct {
	SubmissionID string
}

// Service runs the submission pipeline: validate, risk check, duplicate
// check, persist. Each step runs exactly once per request; nothing is
// retried or queued.
type Service struct {
	store    Store
	dup      *DuplicateChecker
	risk     RiskAssessor
	notifier Notifier
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
}

// NewService wires the pipeline. risk, notifier and m may be nil: a missing
// risk credential disables the check (fail open on configuration, fail closed
// on errors from a configured assessor).
func NewService(store Store, dup *DuplicateChecker, risk RiskAssessor, notifier Notifier, m *metrics.LeadMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:    store,
		dup:      dup,
		risk:     risk,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Submit runs the pipeline for one request. Returns *ValidationError,
// ErrRiskRejected or ErrDuplicateSubmission for rejections; any other error
// is an upstream failure the caller should surface as a server error.
func (s *Service) Submit(ctx context.Context, req *SubmitLeadRequest) (*SubmitResult, error) {
	start := time.Now()

	lead, err := req.Validate()
	if err != nil {
		s.observe(metrics.OutcomeValidation, start)
		return nil, err
	}

	if s.risk != nil && lead.RecaptchaToken != placeholderToken {
		verdict := s.risk.Assess(ctx, lead.RecaptchaToken, recaptcha.DefaultExpectedAction)
		if verdict != recaptcha.VerdictHuman {
			s.logger.Warn("submission blocked by risk check", "verdict", string(verdict))
			s.observe(metrics.OutcomeRisk, start)
			return nil, ErrRiskRejected
		}
	}

	if s.dup != nil && s.dup.IsRecentDuplicate(ctx, MatchEmail, lead.Email) {
		s.observe(metrics.OutcomeDuplicate, start)
		return nil, ErrDuplicateSubmission
	}

	submissionID, err := s.store.Create(ctx, lead)
	if err != nil {
		s.observe(metrics.OutcomeUpstream, start)
		return nil, fmt.Errorf("leads: store create: %w", err)
	}

	s.logger.Info("lead stored", "submission_id", submissionID, "project_type", lead.ProjectType)

	if s.notifier != nil {
		if err := s.notifier.NotifyLeadStored(ctx, lead, submissionID); err != nil {
			// The lead is already persisted; a failed notification must
			// not turn a success into an error.
			s.logger.Error("lead notification failed", "error", err, "submission_id", submissionID)
		}
	}

	s.observe(metrics.OutcomeAccepted, start)
	return &SubmitResult{SubmissionID: submissionID}, nil
}

func (s *Service) observe(outcome string, start time.Time) {
	s.metrics.ObserveSubmission(outcome, time.Since(start).Seconds())
}
