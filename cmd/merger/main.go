// Command merger combines real and synthetic raw spread exports into unified
// datasets, one per spread definition. Spreads are processed concurrently;
// each merge is independent.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"spreadcli/internal/config"
	"spreadcli/internal/exporter"
	"spreadcli/internal/infrastructure"
	"spreadcli/internal/loader"
	"spreadcli/internal/merge"
	"spreadcli/internal/period"
	"spreadcli/pkg/contracts"
	"spreadcli/pkg/contracts/domain"
)

func main() {
	spreadsPath := flag.String("spreads", "", "YAML file with spread definitions")
	outDir := flag.String("out", "", "output directory (defaults to config paths.out_dir)")
	excel := flag.Bool("excel", false, "also write an xlsx workbook per spread")
	strict := flag.Bool("strict-quotes", false, "drop crossed quotes instead of passing them through")
	outliers := flag.Bool("filter-outliers", false, "remove extreme price outliers from merged trades")
	concurrency := flag.Int("concurrency", 4, "maximum spreads merged in parallel")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetVersionString())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *spreadsPath == "" {
		logger.Error("missing required -spreads flag")
		os.Exit(2)
	}
	if *outDir == "" {
		*outDir = cfg.Paths.OutDir
	}

	spreads, err := config.LoadSpreads(*spreadsPath)
	if err != nil {
		logger.Error("failed to load spread definitions", "error", err)
		os.Exit(1)
	}

	opts := merge.Options{StrictQuotes: *strict}
	if *outliers {
		outlierCfg := merge.DefaultOutlierConfig()
		opts.OutlierFilter = &outlierCfg
	}

	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)

	for _, spread := range spreads {
		g.Go(func() error {
			return processSpread(ctx, logger, cfg, spread, *outDir, *excel, opts)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("merge run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("merge run finished", slog.Int("spreads", len(spreads)))
}

// processSpread merges one spread definition end to end
func processSpread(ctx context.Context, logger *slog.Logger, cfg *config.Config,
	spread config.SpreadDefinition, outDir string, excel bool, opts merge.Options) error {

	log := logger.With(slog.String("spread", spread.Name))
	nS := spread.EffectiveNS(cfg.Resolver.DefaultNS)
	logLegLabels(ctx, log, spread, nS)

	real, err := loadSource(ctx, log, cfg, spread.Real, domain.SourceReal)
	if err != nil {
		return err
	}
	synthetic, err := loadSource(ctx, log, cfg, spread.Synthetic, domain.SourceSynthetic)
	if err != nil {
		return err
	}

	merger := merge.NewMerger(log, opts)
	dataset, err := merger.Merge(ctx, real, synthetic)
	if err != nil {
		return err
	}

	rows := merge.Unified(dataset)
	csvPath := filepath.Join(outDir, spread.Name+"_unified.csv")
	if err := exporter.NewCSVWriter(log).WriteUnified(csvPath, rows); err != nil {
		return err
	}
	if excel {
		xlsxPath := filepath.Join(outDir, spread.Name+"_unified.xlsx")
		if err := exporter.NewExcelWriter(log).WriteWorkbook(xlsxPath, rows, dataset.Stats); err != nil {
			return err
		}
	}

	log.InfoContext(ctx, "spread merged",
		slog.String("output", csvPath),
		slog.Int("trades", dataset.Stats.MergedTrades),
		slog.Int("orders", dataset.Stats.MergedOrders),
	)
	return nil
}

// logLegLabels logs the current relative label of each leg so a run can be
// checked against what the quoting systems are using today
func logLegLabels(ctx context.Context, log *slog.Logger, spread config.SpreadDefinition, nS int) {
	today := time.Now()
	for _, leg := range spread.Legs {
		contract, err := domain.ParseContract(leg)
		if err != nil {
			log.WarnContext(ctx, "unparseable leg contract", "leg", leg, "error", err)
			continue
		}
		res, err := period.Resolve(today, contract, nS)
		if err != nil {
			log.WarnContext(ctx, "leg resolution failed", "leg", leg, "error", err)
			continue
		}
		log.InfoContext(ctx, "leg relative period",
			slog.String("leg", leg),
			slog.String("label", res.Label()),
			slog.Int("n_s", nS),
			slog.Bool("transitioned", res.Transitioned),
		)
	}
}

// loadSource reads one source's raw trade and order CSVs and normalizes them.
// Unset paths contribute empty streams.
func loadSource(ctx context.Context, log *slog.Logger, cfg *config.Config,
	files config.SourceFiles, tag domain.SourceTag) (merge.SourceData, error) {

	var data merge.SourceData

	if files.Trades != "" {
		rows, err := loader.LoadRows(resolvePath(cfg, files.Trades), log)
		if err != nil {
			return merge.SourceData{}, err
		}
		data.Trades, err = merge.NormalizeTrades(ctx, rows, tag, log)
		if err != nil {
			return merge.SourceData{}, err
		}
	}
	if files.Orders != "" {
		rows, err := loader.LoadRows(resolvePath(cfg, files.Orders), log)
		if err != nil {
			return merge.SourceData{}, err
		}
		data.Orders, err = merge.NormalizeOrders(ctx, rows, tag, log)
		if err != nil {
			return merge.SourceData{}, err
		}
	}
	return data, nil
}

// resolvePath resolves relative input paths against the configured data dir
func resolvePath(cfg *config.Config, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.Paths.DataDir, path)
}
