package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/andresuchdata/replenishment/internal/cache"
	"github.com/andresuchdata/replenishment/internal/domain"
	"github.com/andresuchdata/replenishment/internal/ingest"
	"github.com/andresuchdata/replenishment/internal/inventory"
	"github.com/andresuchdata/replenishment/internal/report"
)

const defaultMaxConcurrent = 4

// Options configures an InventoryService.
type Options struct {
	Defaults      inventory.ReplenishmentParams
	ValueBasis    domain.ValueBasis
	ColumnMap     map[string]string
	MaxConcurrent int
}

type InventoryService struct {
	cache     cache.AnalysisCache
	sem       *semaphore.Weighted
	defaults  inventory.ReplenishmentParams
	basis     domain.ValueBasis
	columnMap map[string]string
	now       func() time.Time
}

func NewInventoryService(opts Options, cacheImpl cache.AnalysisCache) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAnalysisCache()
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if opts.ColumnMap == nil {
		opts.ColumnMap = inventory.DefaultColumnMap()
	}
	if opts.ValueBasis == "" {
		opts.ValueBasis = domain.BasisSelling
	}
	return &InventoryService{
		cache:     cacheImpl,
		sem:       semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		defaults:  opts.Defaults,
		basis:     opts.ValueBasis,
		columnMap: opts.ColumnMap,
		now:       time.Now,
	}
}

// ColumnMap returns a copy of the header map applied to uploads.
func (s *InventoryService) ColumnMap() map[string]string {
	out := make(map[string]string, len(s.columnMap))
	for k, v := range s.columnMap {
		out[k] = v
	}
	return out
}

// InvalidateCache drops every memoized analysis.
func (s *InventoryService) InvalidateCache(ctx context.Context) error {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("invalidate analysis cache: %w", err)
	}
	log.Info().Msg("inventory: analysis cache invalidated")
	return nil
}

// Analyze runs the full analysis of one upload.
func (s *InventoryService) Analyze(ctx context.Context, file domain.UploadedFile, params domain.AnalyzeParams) (*domain.AnalysisResult, error) {
	result, _, err := s.analyze(ctx, file, params, false)
	return result, err
}

// Replenishment returns the reorder point and EOQ view.
func (s *InventoryService) Replenishment(ctx context.Context, file domain.UploadedFile, params domain.AnalyzeParams) (*domain.ViewResult, error) {
	return s.view(ctx, file, params, report.ViewReplenishment)
}

// Pareto returns the ABC view, or the ranking error when none could be made.
func (s *InventoryService) Pareto(ctx context.Context, file domain.UploadedFile, params domain.AnalyzeParams) (*domain.ViewResult, error) {
	result, t, err := s.analyze(ctx, file, params, false)
	if err != nil {
		return nil, err
	}
	if result.ValueBasis == domain.BasisNone {
		return nil, fmt.Errorf("%w: value basis %q disables the ABC ranking", inventory.ErrConfiguration, result.ValueBasis)
	}
	if result.ParetoError != "" {
		return nil, rankingError(result.ParetoErrorKind, result.ParetoError)
	}
	return viewResult(result, t, report.ViewPareto), nil
}

// Warnings returns the Low and Overstock rows.
func (s *InventoryService) Warnings(ctx context.Context, file domain.UploadedFile, params domain.AnalyzeParams) (*domain.WarningsResult, error) {
	_, t, err := s.analyze(ctx, file, params, false)
	if err != nil {
		return nil, err
	}
	low, over, err := inventory.Warnings(t)
	if err != nil {
		return nil, err
	}
	return &domain.WarningsResult{
		LowStock:  domain.NewTableData(low, report.ViewWarnings.Columns(low)),
		Overstock: domain.NewTableData(over, report.ViewWarnings.Columns(over)),
	}, nil
}

// Simulation returns the profit simulation. Without scenario fields the
// default scenario is used.
func (s *InventoryService) Simulation(ctx context.Context, file domain.UploadedFile, params domain.AnalyzeParams) (*domain.SimulationResult, error) {
	result, t, err := s.analyze(ctx, file, params, true)
	if err != nil {
		return nil, err
	}

	profit := 0.0
	for i := 0; i < t.Len(); i++ {
		if v := t.Get(i, inventory.ColProfit); !v.IsMissing() {
			f, _ := v.Float()
			profit += f
		}
	}
	return &domain.SimulationResult{
		Scenario:    *result.Scenario,
		TotalProfit: profit,
		Table:       domain.NewTableData(t, report.ViewSimulation.Columns(t)),
	}, nil
}

// Export renders the analysis in the requested format.
func (s *InventoryService) Export(ctx context.Context, file domain.UploadedFile, params domain.AnalyzeParams, view report.View, format report.Format) ([]byte, error) {
	_, t, err := s.analyze(ctx, file, params, view == report.ViewSimulation)
	if err != nil {
		return nil, err
	}
	data, err := report.Render(format, view, t)
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}
	return data, nil
}

func (s *InventoryService) view(ctx context.Context, file domain.UploadedFile, params domain.AnalyzeParams, v report.View) (*domain.ViewResult, error) {
	result, t, err := s.analyze(ctx, file, params, false)
	if err != nil {
		return nil, err
	}
	return viewResult(result, t, v), nil
}

func viewResult(result *domain.AnalysisResult, t *inventory.Table, v report.View) *domain.ViewResult {
	return &domain.ViewResult{
		Key:      result.Key,
		Overview: result.Overview,
		Table:    domain.NewTableData(t, v.Columns(t)),
		Cached:   result.Cached,
	}
}

// analyze is cache-then-compute. The returned table is the analysed table in
// ranked order.
func (s *InventoryService) analyze(ctx context.Context, file domain.UploadedFile, req domain.AnalyzeParams, forceScenario bool) (*domain.AnalysisResult, *inventory.Table, error) {
	params := req.Replenishment(s.defaults)
	basis := s.basis
	if req.ValueBasis != "" {
		b, ok := domain.ParseValueBasis(req.ValueBasis)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown value basis %q", inventory.ErrConfiguration, req.ValueBasis)
		}
		basis = b
	}
	var scenario *inventory.Scenario
	if sc, ok := req.Scenario(); ok || forceScenario {
		scenario = &sc
	}

	key := cache.AnalysisKey(file.Filename, file.Data, s.columnMap, params, basis, scenario)

	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		cached.Cached = true
		return cached, cached.Table.Table(), nil
	} else if err != nil {
		log.Warn().Err(err).Msg("inventory: cache get analysis failed")
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, fmt.Errorf("could not acquire analysis slot: %w", err)
	}
	defer s.sem.Release(1)

	start := s.now()
	result, t, err := s.compute(file, params, basis, scenario)
	if err != nil {
		log.Info().Err(err).Str("source", file.Filename).Str("kind", inventory.ErrorKind(err)).Msg("inventory: analysis rejected")
		return nil, nil, err
	}
	result.Key = key
	result.AnalyzedAt = start

	log.Info().
		Str("source", file.Filename).
		Int("items", result.Overview.Items).
		Int("low", result.Overview.LowStockItems).
		Dur("elapsed", s.now().Sub(start)).
		Msg("inventory: analysis complete")

	if err := s.cache.Set(ctx, key, result); err != nil {
		log.Warn().Err(err).Msg("inventory: cache set analysis failed")
	}

	return result, t, nil
}

func (s *InventoryService) compute(file domain.UploadedFile, params inventory.ReplenishmentParams, basis domain.ValueBasis, scenario *inventory.Scenario) (*domain.AnalysisResult, *inventory.Table, error) {
	// Reject bad parameters before paying for the parse.
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}
	if scenario != nil {
		if err := scenario.Validate(); err != nil {
			return nil, nil, err
		}
	}

	t, err := ingest.Load(file.Filename, bytes.NewReader(file.Data), s.columnMap)
	if err != nil {
		return nil, nil, err
	}

	analysis, err := inventory.Analyze(t, inventory.Options{Params: params, PriceColumn: basis.PriceColumn()})
	if err != nil {
		return nil, nil, err
	}

	out := analysis.Table
	if scenario != nil {
		if out, err = inventory.SimulateProfit(out, *scenario); err != nil {
			return nil, nil, err
		}
	}

	result := &domain.AnalysisResult{
		Source:     file.Filename,
		Params:     params,
		ValueBasis: basis,
		Scenario:   scenario,
		Overview:   analysis.Overview,
		Table:      domain.NewTableData(out, nil),
	}
	if analysis.ParetoErr != nil {
		result.ParetoError = analysis.ParetoErr.Error()
		result.ParetoErrorKind = inventory.ErrorKind(analysis.ParetoErr)
	}
	return result, out, nil
}

// storedError carries an engine error kind through the cache.
type storedError struct {
	kind error
	msg  string
}

func (e *storedError) Error() string { return e.msg }
func (e *storedError) Unwrap() error { return e.kind }

func rankingError(kind, msg string) error {
	var sentinel error
	switch kind {
	case "degenerate_input":
		sentinel = inventory.ErrDegenerateInput
	case "missing_column":
		sentinel = inventory.ErrMissingColumn
	case "data_type":
		sentinel = inventory.ErrDataType
	default:
		return errors.New(msg)
	}
	return &storedError{kind: sentinel, msg: msg}
}
