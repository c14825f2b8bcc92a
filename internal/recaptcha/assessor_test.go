package recaptcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestAssessor(t *testing.T, minScore float64, handler http.HandlerFunc) *Assessor {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	assessor, err := NewAssessor(Config{
		SecretKey: "secret",
		SiteKey:   "site",
		MinScore:  minScore,
		Endpoint:  srv.URL,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return assessor
}

func scoredResponse(valid bool, action string, score float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp assessmentResponse
		resp.TokenProperties.Valid = valid
		resp.TokenProperties.Action = action
		resp.RiskAnalysis.Score = score
		json.NewEncoder(w).Encode(resp)
	}
}

func TestNewAssessor_Validation(t *testing.T) {
	if _, err := NewAssessor(Config{}, nil); err == nil {
		t.Error("expected error for missing secret")
	}
	if _, err := NewAssessor(Config{SecretKey: "s", MinScore: 1.5}, nil); err == nil {
		t.Error("expected error for out-of-range score")
	}
}

func TestAssess_Human(t *testing.T) {
	assessor := newTestAssessor(t, 0.5, scoredResponse(true, DefaultExpectedAction, 0.9))

	if v := assessor.Assess(context.Background(), "tok", DefaultExpectedAction); v != VerdictHuman {
		t.Errorf("expected human, got %s", v)
	}
}

// The threshold is inclusive: a score exactly at the minimum passes.
func TestAssess_ScoreAtThresholdPasses(t *testing.T) {
	assessor := newTestAssessor(t, 0.5, scoredResponse(true, DefaultExpectedAction, 0.5))

	if v := assessor.Assess(context.Background(), "tok", DefaultExpectedAction); v != VerdictHuman {
		t.Errorf("expected human at boundary, got %s", v)
	}
}

func TestAssess_ScoreBelowThreshold(t *testing.T) {
	assessor := newTestAssessor(t, 0.5, scoredResponse(true, DefaultExpectedAction, 0.49))

	if v := assessor.Assess(context.Background(), "tok", DefaultExpectedAction); v != VerdictBot {
		t.Errorf("expected bot, got %s", v)
	}
}

// Action mismatch rejects regardless of a perfect score.
func TestAssess_ActionMismatch(t *testing.T) {
	assessor := newTestAssessor(t, 0.5, scoredResponse(true, "CHECKOUT", 1.0))

	if v := assessor.Assess(context.Background(), "tok", DefaultExpectedAction); v != VerdictBot {
		t.Errorf("expected bot, got %s", v)
	}
}

// A configured minimum of 0 is honored, not treated as unset: every valid
// token passes regardless of score.
func TestAssess_ZeroMinimumAdmitsAnyScore(t *testing.T) {
	assessor := newTestAssessor(t, 0, scoredResponse(true, DefaultExpectedAction, 0.0))

	if v := assessor.Assess(context.Background(), "tok", DefaultExpectedAction); v != VerdictHuman {
		t.Errorf("expected human with zero minimum, got %s", v)
	}
}

func TestAssess_InvalidToken(t *testing.T) {
	assessor := newTestAssessor(t, 0.5, scoredResponse(false, DefaultExpectedAction, 1.0))

	if v := assessor.Assess(context.Background(), "tok", DefaultExpectedAction); v != VerdictBot {
		t.Errorf("expected bot, got %s", v)
	}
}

func TestAssess_ServerErrorIsIndeterminate(t *testing.T) {
	assessor := newTestAssessor(t, 0.5, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if v := assessor.Assess(context.Background(), "tok", DefaultExpectedAction); v != VerdictIndeterminate {
		t.Errorf("expected indeterminate, got %s", v)
	}
}

func TestAssess_NetworkErrorIsIndeterminate(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	assessor, err := NewAssessor(Config{
		SecretKey: "secret",
		Endpoint:  srv.URL,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v := assessor.Assess(context.Background(), "tok", DefaultExpectedAction); v != VerdictIndeterminate {
		t.Errorf("expected indeterminate, got %s", v)
	}
}

func TestAssess_SendsEventPayload(t *testing.T) {
	var got assessmentRequest
	assessor := newTestAssessor(t, 0.5, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		scoredResponse(true, DefaultExpectedAction, 0.9)(w, r)
	})

	assessor.Assess(context.Background(), "tok123", "")

	if got.Event.Token != "tok123" {
		t.Errorf("expected token tok123, got %q", got.Event.Token)
	}
	if got.Event.ExpectedAction != DefaultExpectedAction {
		t.Errorf("expected default action, got %q", got.Event.ExpectedAction)
	}
	if got.Event.SiteKey != "site" {
		t.Errorf("expected site key, got %q", got.Event.SiteKey)
	}
}

func TestSetMinimumScore(t *testing.T) {
	assessor := newTestAssessor(t, 0.5, scoredResponse(true, DefaultExpectedAction, 0.6))

	if err := assessor.SetMinimumScore(1.1); err == nil {
		t.Error("expected error for score > 1")
	}
	if err := assessor.SetMinimumScore(-0.1); err == nil {
		t.Error("expected error for score < 0")
	}
	if err := assessor.SetMinimumScore(0.7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := assessor.Assess(context.Background(), "tok", DefaultExpectedAction); v != VerdictBot {
		t.Errorf("expected bot after raising threshold, got %s", v)
	}
}
