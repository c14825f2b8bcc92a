package recaptcha

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/remodelgrid/leadgen-api/pkg/logging"
)

// Verdict is the assessor's decision about who sent the request.
type Verdict string

const (
	// VerdictHuman means the token passed every check.
	VerdictHuman Verdict = "human"
	// VerdictBot means the token failed a check: wrong action, invalid
	// token, or a risk score below the minimum.
	VerdictBot Verdict = "bot"
	// VerdictIndeterminate means the assessment service itself failed.
	// Callers treat it as blocking: an outage must not silently admit spam.
	VerdictIndeterminate Verdict = "indeterminate"
)

// DefaultExpectedAction is the action label the lead form attaches to its tokens.
const DefaultExpectedAction = "SUBMIT_LEAD_FORM"

const defaultEndpoint = "https://recaptchaenterprise.googleapis.com/v1"

// Config describes how to reach the reCAPTCHA Enterprise assessment API.
// MinScore is the inclusive passing threshold and is taken as-is: 0 admits
// every valid token. The application default lives in internal/config.
type Config struct {
	SecretKey string
	SiteKey   string
	ProjectID string
	MinScore  float64
	Endpoint  string
	Timeout   time.Duration
}

// Assessor calls the Enterprise assessment endpoint once per token. No retry:
// the submission pipeline runs each step exactly once.
type Assessor struct {
	secretKey string
	siteKey   string
	endpoint  string
	minScore  float64
	http      *http.Client
	logger    *logging.Logger
}

// NewAssessor validates the configuration and returns a ready-to-use assessor.
func NewAssessor(cfg Config, logger *logging.Logger) (*Assessor, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("recaptcha: secret key required")
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		return nil, errors.New("recaptcha: minimum score must be between 0 and 1")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/projects/%s/assessments", defaultEndpoint, cfg.ProjectID)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Assessor{
		secretKey: cfg.SecretKey,
		siteKey:   cfg.SiteKey,
		endpoint:  endpoint,
		minScore:  cfg.MinScore,
		http: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// SetMinimumScore adjusts the passing threshold. Scores outside [0,1] are rejected.
func (a *Assessor) SetMinimumScore(score float64) error {
	if score < 0 || score > 1 {
		return errors.New("recaptcha: minimum score must be between 0 and 1")
	}
	a.minScore = score
	return nil
}

type assessmentRequest struct {
	Event struct {
		Token          string `json:"token"`
		ExpectedAction string `json:"expectedAction"`
		SiteKey        string `json:"siteKey,omitempty"`
	} `json:"event"`
}

type assessmentResponse struct {
	TokenProperties struct {
		Valid  bool   `json:"valid"`
		Action string `json:"action"`
	} `json:"tokenProperties"`
	RiskAnalysis struct {
		Score float64 `json:"score"`
	} `json:"riskAnalysis"`
}

// Assess submits the token for scoring and maps the result to a verdict.
// Checks, in order: the service answered at all, the action label matches,
// the token is valid, and the score clears the minimum (score >= minimum
// passes; the boundary is inclusive).
func (a *Assessor) Assess(ctx context.Context, token, expectedAction string) Verdict {
	if expectedAction == "" {
		expectedAction = DefaultExpectedAction
	}

	var payload assessmentRequest
	payload.Event.Token = token
	payload.Event.ExpectedAction = expectedAction
	payload.Event.SiteKey = a.siteKey

	body, err := json.Marshal(payload)
	if err != nil {
		a.logger.Error("recaptcha: encode assessment failed", "error", err)
		return VerdictIndeterminate
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		a.logger.Error("recaptcha: build request failed", "error", err)
		return VerdictIndeterminate
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.secretKey)

	resp, err := a.http.Do(req)
	if err != nil {
		a.logger.Error("recaptcha: assessment request failed", "error", err)
		return VerdictIndeterminate
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		a.logger.Error("recaptcha: read response failed", "error", err)
		return VerdictIndeterminate
	}
	if resp.StatusCode >= 400 {
		a.logger.Error("recaptcha: assessment rejected", "status", resp.Status, "body", strings.TrimSpace(string(data)))
		return VerdictIndeterminate
	}

	var result assessmentResponse
	if err := json.Unmarshal(data, &result); err != nil {
		a.logger.Error("recaptcha: decode response failed", "error", err)
		return VerdictIndeterminate
	}

	if result.TokenProperties.Action != expectedAction {
		a.logger.Warn("recaptcha: action mismatch", "expected", expectedAction, "got", result.TokenProperties.Action)
		return VerdictBot
	}
	if !result.TokenProperties.Valid {
		a.logger.Warn("recaptcha: token invalid")
		return VerdictBot
	}
	if result.RiskAnalysis.Score < a.minScore {
		a.logger.Warn("recaptcha: score below minimum", "score", result.RiskAnalysis.Score, "minimum", a.minScore)
		return VerdictBot
	}
	return VerdictHuman
}
