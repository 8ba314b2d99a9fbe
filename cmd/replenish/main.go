package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/replenishment/internal/cache"
	"github.com/andresuchdata/replenishment/internal/config"
	"github.com/andresuchdata/replenishment/internal/domain"
	"github.com/andresuchdata/replenishment/internal/service"
	"github.com/andresuchdata/replenishment/pkg/logger"
)

var log = logger.WithComponent("replenish")

func paramFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: "safety-factor", Usage: "Safety stock z-score (default from ENGINE_SAFETY_FACTOR)"},
		&cli.Float64Flag{Name: "ordering-cost", Usage: "Cost per order for EOQ (default from ENGINE_ORDERING_COST)"},
		&cli.Float64Flag{Name: "holding-cost", Usage: "Holding cost per unit for EOQ (default from ENGINE_HOLDING_COST)"},
		&cli.StringFlag{Name: "value-basis", Usage: "Price used for Total Value: selling, purchase or none"},
		&cli.Float64Flag{Name: "price-adjustment", Usage: "Simulated selling price, percent of current (80-150)"},
		&cli.Float64Flag{Name: "demand-growth", Usage: "Simulated demand growth percent (-20-50)"},
		&cli.Float64Flag{Name: "cost-reduction", Usage: "Simulated purchase cost reduction percent (0-20)"},
		&cli.StringFlag{
			Name:    "column-map",
			Usage:   "YAML file mapping source headers to canonical columns",
			EnvVars: []string{"INGEST_COLUMN_MAP_FILE"},
		},
		&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},
	}
}

func reportFlags(defaultFormat string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Usage: "Report format: csv, xlsx or pdf", Value: defaultFormat},
		&cli.StringFlag{Name: "view", Usage: "Report view: full, replenishment, pareto, warnings or simulation", Value: "full"},
	}
}

// analyzeParams turns the flags the user actually set into overrides.
func analyzeParams(c *cli.Context) domain.AnalyzeParams {
	float := func(name string) *float64 {
		if !c.IsSet(name) {
			return nil
		}
		v := c.Float64(name)
		return &v
	}
	return domain.AnalyzeParams{
		SafetyFactor:       float("safety-factor"),
		OrderingCost:       float("ordering-cost"),
		HoldingCost:        float("holding-cost"),
		ValueBasis:         c.String("value-basis"),
		PriceAdjustmentPct: float("price-adjustment"),
		DemandGrowthPct:    float("demand-growth"),
		CostReductionPct:   float("cost-reduction"),
	}
}

// newService builds the inventory service from config, with the column map
// flag taking precedence over the environment.
func newService(c *cli.Context) (*service.InventoryService, *config.Config, error) {
	logger.SetLevel(c.String("log-level"))

	cfg := config.Load()
	if c.IsSet("column-map") {
		cfg.Ingest.ColumnMapFile = c.String("column-map")
	}
	opts, err := service.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	analysisCache, err := cache.NewAnalysisCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("analysis cache unavailable, continuing without it")
		analysisCache = cache.NewNoopAnalysisCache()
	}
	return service.NewInventoryService(opts, analysisCache), cfg, nil
}

func main() {
	analyzeFlags := append(append(paramFlags(), reportFlags("xlsx")...),
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Report path (default: <file>-<view>.<format> next to the input)"},
	)
	runFlags := append(append(paramFlags(), reportFlags("xlsx")...), batchFlags()...)

	app := &cli.App{
		Name:  "replenish",
		Usage: "Replenishment metrics, ABC analysis and stock warnings for inventory exports",
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Analyse one CSV or XLSX export and write a report",
				ArgsUsage: "<file>",
				Flags:     analyzeFlags,
				Action:    runAnalyze,
			},
			{
				Name:   "batch",
				Usage:  "Analyse every export from a directory, S3 prefix or Drive folder",
				Flags:  runFlags,
				Action: runBatch,
			},
			{
				Name:   "columns",
				Usage:  "Print the effective column map as YAML",
				Flags:  paramFlags(),
				Action: runColumns,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("replenish failed")
	}
}
