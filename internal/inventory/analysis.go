package inventory

import "errors"

// Options configures Analyze.
type Options struct {
	Params ReplenishmentParams
	// PriceColumn values the inventory for the Pareto ranking, usually
	// Selling Price or Purchase Price. Empty skips the ranking.
	PriceColumn string
}

// Analysis is the result of a full pass over one table.
type Analysis struct {
	Table    *Table
	Overview Overview
	// ParetoErr is set when the ranking could not be computed (no price
	// column, or nothing of value). The rest of the analysis is still valid
	// and the rows keep their input order.
	ParetoErr error
}

// Analyze runs replenishment, stock status, stock gaps and, when a price
// column is given, the Pareto ranking, then summarizes the result.
func Analyze(t *Table, opts Options) (*Analysis, error) {
	out, err := ComputeReplenishment(t, opts.Params)
	if err != nil {
		return nil, err
	}
	if out, err = ClassifyStockStatus(out); err != nil {
		return nil, err
	}
	if out, err = ComputeStockGaps(out); err != nil {
		return nil, err
	}

	result := &Analysis{}
	if opts.PriceColumn != "" {
		ranked, err := rankByValue(out, opts.PriceColumn)
		switch {
		case err == nil:
			out = ranked
		case errors.Is(err, ErrDegenerateInput), errors.Is(err, ErrMissingColumn):
			result.ParetoErr = err
		default:
			return nil, err
		}
	}

	overview, err := Summarize(out)
	if err != nil {
		return nil, err
	}
	result.Table = out
	result.Overview = overview
	return result, nil
}

func rankByValue(t *Table, priceColumn string) (*Table, error) {
	valued, err := ComputeTotalValue(t, priceColumn)
	if err != nil {
		return nil, err
	}
	return ClassifyPareto(valued, ColTotalValue)
}
