package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/cadgauge/takeoff/internal/cache"
	"github.com/cadgauge/takeoff/internal/model"
)

// sleepFunc is the sleep function used between retries (injectable for tests)
var sleepFunc = time.Sleep

// Adapter drives the verification calls for a selected candidate subset:
// bounded concurrency, rate limiting, per-call timeout, retry with backoff,
// and a decision cache so identical fragments hit the judge once. A failed
// call is never fatal; the candidate just stays unverified.
type Adapter struct {
	provider Provider
	limiter  *rate.Limiter
	store    cache.Cache
	cacheTTL time.Duration
	config   model.VerifyConfig
}

// NewAdapter creates an adapter around a provider. store may be nil to
// disable decision caching.
func NewAdapter(provider Provider, store cache.Cache, cacheTTL time.Duration, config model.VerifyConfig) *Adapter {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if config.RatePerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 5
		}
		limiter = rate.NewLimiter(rate.Limit(config.RatePerSecond), burst)
	}

	return &Adapter{
		provider: provider,
		limiter:  limiter,
		store:    store,
		cacheTTL: cacheTTL,
		config:   config,
	}
}

// Verify runs the judge over candidates[i] for every selected index i,
// updating those slots in place. Each slot is written by exactly one
// goroutine, after its call returns, so no locking is needed. Returns the
// warnings accumulated along the way; the run itself never fails here.
func (a *Adapter) Verify(ctx context.Context, candidates []model.ScoredCandidate, selected []int) []model.Warning {
	if a.provider == nil || len(selected) == 0 {
		return nil
	}

	warnings := make([]*model.Warning, len(selected))
	var skipped int64

	sem := make(chan struct{}, a.config.MaxConcurrent)
	var wg sync.WaitGroup

	for si, ci := range selected {
		// Stop issuing new calls promptly once the run is cancelled;
		// results already merged stay in place.
		if ctx.Err() != nil {
			atomic.AddInt64(&skipped, 1)
			continue
		}

		wg.Add(1)
		go func(si, ci int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				atomic.AddInt64(&skipped, 1)
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			cand := &candidates[ci]
			key := cache.DecisionKey(cand.Category, cand.SourceText)

			if a.store != nil {
				if data, ok := a.store.Get(key); ok {
					var d Decision
					if err := json.Unmarshal(data, &d); err == nil {
						applyDecision(cand, &d)
						return
					}
				}
			}

			if a.limiter != nil {
				if err := a.limiter.Wait(ctx); err != nil {
					atomic.AddInt64(&skipped, 1)
					return
				}
			}

			d, err := a.verifyWithRetry(ctx, requestFor(cand))
			if err != nil {
				warnings[si] = &model.Warning{
					Stage:   model.WarnVerification,
					Message: fmt.Sprintf("candidate %d (%s) unverified: %v", ci, cand.Category, err),
				}
				return
			}

			if a.store != nil {
				if data, err := json.Marshal(d); err == nil {
					_ = a.store.Set(key, data, a.cacheTTL)
				}
			}

			applyDecision(cand, d)
		}(si, ci)
	}

	wg.Wait()

	var out []model.Warning
	for _, w := range warnings {
		if w != nil {
			out = append(out, *w)
		}
	}
	if n := atomic.LoadInt64(&skipped); n > 0 {
		out = append(out, model.Warning{
			Stage:   model.WarnVerification,
			Message: fmt.Sprintf("verification cancelled: %d candidates left unverified", n),
		})
	}
	return out
}

// verifyWithRetry retries transient failures with exponential backoff.
// Parent-context cancellation is not retried.
func (a *Adapter) verifyWithRetry(ctx context.Context, req Request) (*Decision, error) {
	var lastErr error
	for attempt := 0; attempt < a.config.MaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
		d, err := a.provider.Verify(callCtx, req)
		cancel()

		if err == nil {
			return d, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < a.config.MaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			sleepFunc(backoff)
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", a.config.MaxRetries, lastErr)
}

// applyDecision folds the judge's verdict into the candidate. Acceptance
// adjusts confidence exactly once; rejection is terminal and ignores the
// delta entirely.
func applyDecision(cand *model.ScoredCandidate, d *Decision) {
	if !d.Accepted {
		cand.Status = model.StatusAIRejected
		return
	}
	cand.Confidence = model.ClampConfidence(cand.Confidence + d.ConfidenceDelta)
	cand.Status = model.StatusAIConfirmed
}

// requestFor maps a candidate onto the judge's request contract
func requestFor(cand *model.ScoredCandidate) Request {
	return Request{
		SourceText: cand.SourceText,
		Category:   cand.Category,
		Quantity:   cand.Quantity,
		Dimension:  cand.Dimension,
		Diameter:   cand.Diameter,
		Grade:      cand.Grade,
	}
}
