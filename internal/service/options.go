package service

import (
	"fmt"

	"github.com/andresuchdata/replenishment/internal/config"
	"github.com/andresuchdata/replenishment/internal/domain"
	"github.com/andresuchdata/replenishment/internal/ingest"
	"github.com/andresuchdata/replenishment/internal/inventory"
)

// OptionsFromConfig builds service options from the engine and ingest
// settings, loading the column map file when one is configured.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	basis, ok := domain.ParseValueBasis(cfg.Engine.ValueBasis)
	if !ok {
		return Options{}, fmt.Errorf("%w: unknown ENGINE_VALUE_BASIS %q", inventory.ErrConfiguration, cfg.Engine.ValueBasis)
	}

	defaults := inventory.ReplenishmentParams{
		SafetyFactor: cfg.Engine.SafetyFactor,
		OrderingCost: cfg.Engine.OrderingCost,
		HoldingCost:  cfg.Engine.HoldingCost,
	}
	if err := defaults.Validate(); err != nil {
		return Options{}, fmt.Errorf("engine defaults: %w", err)
	}

	columnMap, err := ingest.ColumnMap(cfg.Ingest.ColumnMapFile)
	if err != nil {
		return Options{}, err
	}

	return Options{
		Defaults:      defaults,
		ValueBasis:    basis,
		ColumnMap:     columnMap,
		MaxConcurrent: cfg.Engine.MaxConcurrent,
	}, nil
}
