// Package pipeline wires the recognition stages together and drives a run
// end to end: matching, code validation, scoring, selective AI verification,
// deduplication, and quantity aggregation.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/cadgauge/takeoff/internal/aggregate"
	"github.com/cadgauge/takeoff/internal/cache"
	"github.com/cadgauge/takeoff/internal/codecheck"
	"github.com/cadgauge/takeoff/internal/dedupe"
	"github.com/cadgauge/takeoff/internal/input"
	"github.com/cadgauge/takeoff/internal/match"
	"github.com/cadgauge/takeoff/internal/model"
	"github.com/cadgauge/takeoff/internal/rules"
	"github.com/cadgauge/takeoff/internal/score"
	"github.com/cadgauge/takeoff/internal/verify"
)

// Engine orchestrates the complete recognition pipeline for one
// configuration. It is safe for concurrent use; each Recognize call is
// independent.
type Engine struct {
	config     *model.Config
	catalog    *rules.Catalog
	matcher    *match.Matcher
	validator  *codecheck.Validator
	scorer     *score.Scorer
	aggregator *aggregate.Aggregator
	adapter    *verify.Adapter // nil when verification is disabled
}

// NewEngine creates an engine from configuration, building the verification
// provider from cfg.Verify. A missing or empty provider disables
// verification without error; every run then behaves like QuickEstimate for
// the candidates that would have been selected.
func NewEngine(cfg *model.Config) (*Engine, error) {
	provider, err := verify.NewProvider(cfg.Verify)
	if err != nil {
		return nil, fmt.Errorf("verification provider: %w", err)
	}
	return NewEngineWithProvider(cfg, provider)
}

// NewEngineWithProvider creates an engine with an explicit verification
// provider (nil disables verification). Tests and embedders inject their
// own judge through this.
func NewEngineWithProvider(cfg *model.Config, provider verify.Provider) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	catalog, err := rules.LoadCatalog(cfg.Rules.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	prices, err := aggregate.LoadPrices(cfg.Rules.PricesPath)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	var adapter *verify.Adapter
	if provider != nil {
		var store cache.Cache
		if cfg.Cache.Enabled {
			store = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
		}
		adapter = verify.NewAdapter(provider, store, cfg.Cache.TTL, cfg.Verify)
	}

	return &Engine{
		config:     cfg,
		catalog:    catalog,
		matcher:    match.NewMatcher(catalog),
		validator:  codecheck.NewValidator(),
		scorer:     score.NewScorer(catalog),
		aggregator: aggregate.NewAggregator(catalog, prices),
		adapter:    adapter,
	}, nil
}

// Catalog returns the engine's active rule catalog
func (e *Engine) Catalog() *rules.Catalog {
	return e.catalog
}

// Recognize runs the full pipeline over one drawing's entity list. The run
// never fails operationally: every problem degrades to a warning, and
// cancellation returns a partial but well-formed result.
func (e *Engine) Recognize(ctx context.Context, entities []model.TextEntity) (*model.RecognitionResult, error) {
	mode := e.config.Recognition.Mode
	var warnings []model.Warning

	// 1. Match every entity against the catalog, in parallel. Matching is
	// CPU-bound with no shared state, so entities fan out freely; slot
	// writes keep input order without locks.
	perEntity := make([][]model.RawCandidate, len(entities))
	workers := e.config.Recognition.MatchWorkers
	if workers <= 0 {
		workers = 4
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, ent := range entities {
		wg.Add(1)
		go func(i int, ent model.TextEntity) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			perEntity[i] = e.matcher.Match(i, ent)
		}(i, ent)
	}
	wg.Wait()

	// 2. Validate and score each raw candidate
	var scored []model.ScoredCandidate
	for _, cands := range perEntity {
		for _, raw := range cands {
			flags := e.validator.Validate(raw)
			sc := e.scorer.Score(raw, flags)
			if len(sc.CodeFlags) > 0 {
				warnings = append(warnings, model.Warning{
					Stage:   model.WarnCodeCheck,
					Message: fmt.Sprintf("entity %d (%s): %v", raw.Entity, raw.Category, sc.CodeFlags),
				})
			}
			scored = append(scored, sc)
		}
	}

	// 3. Select and verify per precision mode
	selected := verify.Select(scored, mode, e.config.Verify.BudgetFraction, e.config.Verify.MaxCalls)
	if len(selected) > 0 {
		if e.adapter != nil {
			warnings = append(warnings, e.adapter.Verify(ctx, scored, selected)...)
		} else {
			warnings = append(warnings, model.Warning{
				Stage:   model.WarnVerification,
				Message: fmt.Sprintf("no verification provider configured: %d candidates left unverified", len(selected)),
			})
		}
	}

	// 4. Merge restated components; rejected candidates drop out here
	groups := dedupe.Deduplicate(scored)

	// 5. Aggregate quantities and costs
	summary, priceWarnings := e.aggregator.Aggregate(groups, e.config.Recognition.Threshold)
	warnings = append(warnings, priceWarnings...)

	detail := scored
	if !e.config.Recognition.KeepRejected {
		detail = withoutRejected(scored)
	}

	return &model.RecognitionResult{
		Summary:    summary,
		Groups:     groups,
		Candidates: detail,
		Warnings:   warnings,
		Mode:       mode,
		Partial:    ctx.Err() != nil,
	}, nil
}

// RecognizeFile loads an entity file and recognizes it. Implements
// worker.Recognizer for batch runs.
func (e *Engine) RecognizeFile(ctx context.Context, path string) (*model.RecognitionResult, error) {
	entities, err := input.ReadEntities(path)
	if err != nil {
		return nil, err
	}
	return e.Recognize(ctx, entities)
}

func withoutRejected(scored []model.ScoredCandidate) []model.ScoredCandidate {
	out := make([]model.ScoredCandidate, 0, len(scored))
	for _, c := range scored {
		if c.Status != model.StatusAIRejected {
			out = append(out, c)
		}
	}
	return out
}
