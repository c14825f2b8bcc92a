package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/remodelgrid/leadgen-api/internal/recaptcha"
)

type fakeStore struct {
	created     []*Lead
	createID    string
	createErr   error
	queryLeads  []*Lead
	queryErr    error
	queryField  MatchField
	queryValue  string
	querySince  time.Time
	queryCalled bool
}

func (f *fakeStore) Create(_ context.Context, lead *Lead) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, lead)
	if f.createID == "" {
		return "rec123", nil
	}
	return f.createID, nil
}

func (f *fakeStore) QueryRecent(_ context.Context, field MatchField, value string, since time.Time) ([]*Lead, error) {
	f.queryCalled = true
	f.queryField = field
	f.queryValue = value
	f.querySince = since
	return f.queryLeads, f.queryErr
}

type fakeAssessor struct {
	verdict recaptcha.Verdict
	token   string
	action  string
	called  bool
}

func (f *fakeAssessor) Assess(_ context.Context, token, expectedAction string) recaptcha.Verdict {
	f.called = true
	f.token = token
	f.action = expectedAction
	return f.verdict
}

type fakeNotifier struct {
	called bool
	id     string
	err    error
}

func (f *fakeNotifier) NotifyLeadStored(_ context.Context, _ *Lead, submissionID string) error {
	f.called = true
	f.id = submissionID
	return f.err
}

func newTestService(store *fakeStore, risk RiskAssessor, notifier Notifier) *Service {
	dup, err := NewDuplicateChecker(store, 24, nil)
	if err != nil {
		panic(err)
	}
	return NewService(store, dup, risk, notifier, nil, nil)
}

func TestSubmit_Success(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil, nil)

	result, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SubmissionID != "rec123" {
		t.Errorf("expected submission id rec123, got %q", result.SubmissionID)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one created lead, got %d", len(store.created))
	}
	if !store.queryCalled {
		t.Error("expected duplicate lookup before create")
	}
	if store.queryField != MatchEmail || store.queryValue != "jane@example.com" {
		t.Errorf("duplicate lookup used %s=%q", store.queryField, store.queryValue)
	}
}

func TestSubmit_ValidationRejectsBeforeAnyCall(t *testing.T) {
	store := &fakeStore{}
	risk := &fakeAssessor{verdict: recaptcha.VerdictHuman}
	svc := newTestService(store, risk, nil)

	req := validRequest()
	req.Email = "not-an-email"

	_, err := svc.Submit(context.Background(), req)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if risk.called {
		t.Error("risk assessor must not be called for invalid input")
	}
	if store.queryCalled || len(store.created) > 0 {
		t.Error("store must not be touched for invalid input")
	}
}

func TestSubmit_RiskVerdicts(t *testing.T) {
	cases := []struct {
		verdict recaptcha.Verdict
		blocked bool
	}{
		{recaptcha.VerdictHuman, false},
		{recaptcha.VerdictBot, true},
		// Assessor failure blocks too: a configured-but-erroring check
		// fails closed.
		{recaptcha.VerdictIndeterminate, true},
	}

	for _, tc := range cases {
		store := &fakeStore{}
		risk := &fakeAssessor{verdict: tc.verdict}
		svc := newTestService(store, risk, nil)

		_, err := svc.Submit(context.Background(), validRequest())
		if tc.blocked {
			if !errors.Is(err, ErrRiskRejected) {
				t.Errorf("verdict %s: expected ErrRiskRejected, got %v", tc.verdict, err)
			}
			if len(store.created) != 0 {
				t.Errorf("verdict %s: lead must not be stored", tc.verdict)
			}
		} else if err != nil {
			t.Errorf("verdict %s: unexpected error %v", tc.verdict, err)
		}
		if !risk.called {
			t.Errorf("verdict %s: assessor not called", tc.verdict)
		}
		if risk.called && risk.action != recaptcha.DefaultExpectedAction {
			t.Errorf("verdict %s: wrong expected action %q", tc.verdict, risk.action)
		}
	}
}

func TestSubmit_NoAssessorSkipsRiskCheck(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil, nil)

	if _, err := svc.Submit(context.Background(), validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubmit_PlaceholderTokenSkipsRiskCheck(t *testing.T) {
	store := &fakeStore{}
	risk := &fakeAssessor{verdict: recaptcha.VerdictBot}
	svc := newTestService(store, risk, nil)

	req := validRequest()
	req.RecaptchaToken = "placeholder-token"

	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if risk.called {
		t.Error("assessor must be skipped for the placeholder token")
	}
}

func TestSubmit_DuplicateRejected(t *testing.T) {
	store := &fakeStore{
		queryLeads: []*Lead{{Email: "jane@example.com"}},
	}
	svc := newTestService(store, nil, nil)

	_, err := svc.Submit(context.Background(), validRequest())
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
	}
	if len(store.created) != 0 {
		t.Error("duplicate must not be stored")
	}
}

func TestSubmit_DuplicateLookupFailsOpen(t *testing.T) {
	store := &fakeStore{queryErr: errors.New("airtable down")}
	svc := newTestService(store, nil, nil)

	result, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("expected fail-open submission, got %v", err)
	}
	if result.SubmissionID == "" {
		t.Error("expected a submission id")
	}
}

func TestSubmit_StoreFailureIsUpstream(t *testing.T) {
	store := &fakeStore{createErr: errors.New("boom")}
	svc := newTestService(store, nil, nil)

	_, err := svc.Submit(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) || errors.Is(err, ErrRiskRejected) || errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("store failure must not map to a rejection, got %v", err)
	}
}

func TestSubmit_NotifierFailureDoesNotFailSubmission(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	svc := newTestService(store, nil, notifier)

	result, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !notifier.called {
		t.Error("expected notifier call")
	}
	if notifier.id != result.SubmissionID {
		t.Errorf("notifier got id %q, want %q", notifier.id, result.SubmissionID)
	}
}
