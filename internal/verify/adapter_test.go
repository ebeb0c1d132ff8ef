package verify

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cadgauge/takeoff/internal/cache"
	"github.com/cadgauge/takeoff/internal/model"
)

// countingProvider records how many calls reached the judge
type countingProvider struct {
	calls int64
	judge func(req Request) (*Decision, error)
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) IsAvailable(ctx context.Context) bool { return true }
func (p *countingProvider) Verify(ctx context.Context, req Request) (*Decision, error) {
	atomic.AddInt64(&p.calls, 1)
	if p.judge != nil {
		return p.judge(req)
	}
	return &Decision{Accepted: true}, nil
}

func newScored(category, text string, conf float64) model.ScoredCandidate {
	return model.ScoredCandidate{
		RawCandidate: model.RawCandidate{Category: category, SourceText: text},
		Confidence:   conf,
		Status:       model.StatusUnverified,
	}
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestAdapter_Verify_AppliesAcceptedDelta(t *testing.T) {
	provider := &StaticProvider{Judge: func(req Request) (*Decision, error) {
		return &Decision{Accepted: true, ConfidenceDelta: 0.1}, nil
	}}
	a := NewAdapter(provider, nil, 0, model.VerifyConfig{})

	cands := []model.ScoredCandidate{newScored("concrete_column", "C30混凝土柱 600×600", 0.88)}
	warnings := a.Verify(context.Background(), cands, []int{0})

	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
	if cands[0].Status != model.StatusAIConfirmed {
		t.Errorf("Expected ai_confirmed, got %s", cands[0].Status)
	}
	if math.Abs(cands[0].Confidence-0.98) > 1e-9 {
		t.Errorf("Expected confidence 0.98, got %v", cands[0].Confidence)
	}
}

func TestAdapter_Verify_RejectionIgnoresDelta(t *testing.T) {
	provider := &StaticProvider{Judge: func(req Request) (*Decision, error) {
		return &Decision{Accepted: false, ConfidenceDelta: 0.2}, nil
	}}
	a := NewAdapter(provider, nil, 0, model.VerifyConfig{})

	cands := []model.ScoredCandidate{newScored("door", "M1021 门", 0.6)}
	a.Verify(context.Background(), cands, []int{0})

	if cands[0].Status != model.StatusAIRejected {
		t.Errorf("Expected ai_rejected, got %s", cands[0].Status)
	}
	if cands[0].Confidence != 0.6 {
		t.Errorf("Expected confidence untouched on rejection, got %v", cands[0].Confidence)
	}
}

func TestAdapter_Verify_ConfidenceClampedAtOne(t *testing.T) {
	provider := &StaticProvider{Judge: func(req Request) (*Decision, error) {
		return &Decision{Accepted: true, ConfidenceDelta: 0.3}, nil
	}}
	a := NewAdapter(provider, nil, 0, model.VerifyConfig{})

	cands := []model.ScoredCandidate{newScored("rebar", "HRB400 φ25", 0.95)}
	a.Verify(context.Background(), cands, []int{0})

	if cands[0].Confidence != 1.0 {
		t.Errorf("Expected confidence clamped to 1.0, got %v", cands[0].Confidence)
	}
}

func TestAdapter_Verify_FailureLeavesUnverified(t *testing.T) {
	provider := &countingProvider{judge: func(req Request) (*Decision, error) {
		return nil, errors.New("judge unreachable")
	}}
	a := NewAdapter(provider, nil, 0, model.VerifyConfig{MaxRetries: 1})

	cands := []model.ScoredCandidate{newScored("pile", "灌注桩 φ800", 0.78)}
	warnings := a.Verify(context.Background(), cands, []int{0})

	if cands[0].Status != model.StatusUnverified {
		t.Errorf("Expected candidate to stay unverified, got %s", cands[0].Status)
	}
	if cands[0].Confidence != 0.78 {
		t.Errorf("Expected confidence untouched on failure, got %v", cands[0].Confidence)
	}
	if len(warnings) != 1 {
		t.Fatalf("Expected one warning, got %v", warnings)
	}
	if warnings[0].Stage != model.WarnVerification {
		t.Errorf("Expected verification-stage warning, got %s", warnings[0].Stage)
	}
	if !strings.Contains(warnings[0].Message, "unverified") {
		t.Errorf("Unexpected warning message: %s", warnings[0].Message)
	}
}

func TestAdapter_Verify_RetriesWithBackoff(t *testing.T) {
	var slept []time.Duration
	origSleep := sleepFunc
	sleepFunc = func(d time.Duration) { slept = append(slept, d) }
	defer func() { sleepFunc = origSleep }()

	provider := &countingProvider{judge: func(req Request) (*Decision, error) {
		return nil, errors.New("transient")
	}}
	a := NewAdapter(provider, nil, 0, model.VerifyConfig{MaxRetries: 3, MaxConcurrent: 1})

	cands := []model.ScoredCandidate{newScored("window", "C1515 窗", 0.7)}
	a.Verify(context.Background(), cands, []int{0})

	if got := atomic.LoadInt64(&provider.calls); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("Expected %d backoff sleeps, got %v", len(want), slept)
	}
	for i, d := range want {
		if slept[i] != d {
			t.Errorf("Backoff %d: expected %v, got %v", i, d, slept[i])
		}
	}
}

func TestAdapter_Verify_CacheHitSkipsProvider(t *testing.T) {
	provider := &countingProvider{judge: func(req Request) (*Decision, error) {
		return &Decision{Accepted: true, ConfidenceDelta: 0.05}, nil
	}}
	store := cache.NewMemoryCache(time.Minute, 0)
	a := NewAdapter(provider, store, time.Minute, model.VerifyConfig{MaxConcurrent: 1})

	// Two candidates with identical category and source text share one decision
	cands := []model.ScoredCandidate{
		newScored("concrete_beam", "KL-1 300×600", 0.8),
		newScored("concrete_beam", "KL-1 300×600", 0.8),
	}
	a.Verify(context.Background(), cands, allIndices(2))

	if got := atomic.LoadInt64(&provider.calls); got != 1 {
		t.Errorf("Expected a single judge call with cache enabled, got %d", got)
	}
	for i := range cands {
		if cands[i].Status != model.StatusAIConfirmed {
			t.Errorf("Candidate %d: expected ai_confirmed, got %s", i, cands[i].Status)
		}
		if math.Abs(cands[i].Confidence-0.85) > 1e-9 {
			t.Errorf("Candidate %d: expected 0.85, got %v", i, cands[i].Confidence)
		}
	}
}

func TestAdapter_Verify_OnlySelectedTouched(t *testing.T) {
	provider := &StaticProvider{}
	a := NewAdapter(provider, nil, 0, model.VerifyConfig{})

	cands := []model.ScoredCandidate{
		newScored("concrete_column", "柱 A", 0.9),
		newScored("concrete_column", "柱 B", 0.2),
	}
	a.Verify(context.Background(), cands, []int{1})

	if cands[0].Status != model.StatusUnverified {
		t.Errorf("Unselected candidate was touched: %s", cands[0].Status)
	}
	if cands[1].Status != model.StatusAIConfirmed {
		t.Errorf("Selected candidate not verified: %s", cands[1].Status)
	}
}

func TestAdapter_Verify_CancelledContextSkips(t *testing.T) {
	provider := &countingProvider{}
	a := NewAdapter(provider, nil, 0, model.VerifyConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cands := []model.ScoredCandidate{
		newScored("foundation", "独立基础 J-1", 0.8),
		newScored("foundation", "独立基础 J-2", 0.8),
	}
	warnings := a.Verify(ctx, cands, allIndices(2))

	if got := atomic.LoadInt64(&provider.calls); got != 0 {
		t.Errorf("Expected no judge calls after cancellation, got %d", got)
	}
	for i := range cands {
		if cands[i].Status != model.StatusUnverified {
			t.Errorf("Candidate %d: expected unverified, got %s", i, cands[i].Status)
		}
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "cancelled") {
		t.Errorf("Expected a single cancellation warning, got %v", warnings)
	}
}

func TestAdapter_Verify_NilProviderNoOp(t *testing.T) {
	a := NewAdapter(nil, nil, 0, model.VerifyConfig{})

	cands := []model.ScoredCandidate{newScored("door", "M1", 0.5)}
	if warnings := a.Verify(context.Background(), cands, []int{0}); warnings != nil {
		t.Errorf("Expected nil warnings for nil provider, got %v", warnings)
	}
	if cands[0].Status != model.StatusUnverified {
		t.Errorf("Expected candidate untouched, got %s", cands[0].Status)
	}
}
