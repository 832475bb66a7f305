// Command resolver maps absolute delivery contracts to relative contract
// labels for a date or a date range, applying the n_s business-day transition
// rule. The range mode prints the schedule segments a fetch orchestrator
// should query one at a time.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"spreadcli/internal/config"
	"spreadcli/internal/infrastructure"
	"spreadcli/internal/period"
	"spreadcli/pkg/contracts"
	"spreadcli/pkg/contracts/domain"
)

const dateFormat = "2006-01-02"

func main() {
	contractName := flag.String("contract", "", "absolute contract name, e.g. debq4_25")
	date := flag.String("date", "", "single reference date (YYYY-MM-DD)")
	start := flag.String("start", "", "range start date (YYYY-MM-DD)")
	end := flag.String("end", "", "range end date (YYYY-MM-DD)")
	nS := flag.Int("ns", -1, "transition threshold in business days (defaults to config)")
	forwardOnly := flag.Bool("forward-only", true, "drop segments with non-positive offsets")
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

	if *contractName == "" {
		logger.Error("missing required -contract flag")
		os.Exit(2)
	}
	target, err := domain.ParseContract(*contractName)
	if err != nil {
		logger.Error("invalid contract", "contract", *contractName, "error", err)
		os.Exit(2)
	}

	threshold := *nS
	if threshold < 0 {
		threshold = cfg.Resolver.DefaultNS
	}

	switch {
	case *date != "":
		err = resolveSingle(logger, target, *date, threshold)
	case *start != "" && *end != "":
		err = resolveRange(logger, target, *start, *end, threshold, *forwardOnly)
	default:
		logger.Error("need either -date or both -start and -end")
		os.Exit(2)
	}
	if err != nil {
		logger.Error("resolution failed", "contract", target.String(), "error", err)
		os.Exit(1)
	}
}

// resolveSingle resolves one reference date and prints the full result
func resolveSingle(logger *slog.Logger, target domain.ContractSpec, date string, nS int) error {
	ref, err := time.Parse(dateFormat, date)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", date, err)
	}

	res, err := period.Resolve(ref, target, nS)
	if err != nil {
		return err
	}

	logger.Info("resolved relative period",
		slog.String("contract", target.String()),
		slog.String("reference_date", date),
		slog.Int("n_s", nS),
		slog.String("label", res.Label()),
		slog.Bool("transitioned", res.Transitioned),
		slog.Int("business_days_to_period_end", res.BusinessDaysToPeriodEnd),
	)

	fmt.Printf("%s %s -> %s (as-of %s%d %d, transitioned=%t, %d business days to period end)\n",
		target.String(), date, res.Label(),
		res.AsOfKind, res.AsOfNumber, res.AsOfYear,
		res.Transitioned, res.BusinessDaysToPeriodEnd)
	return nil
}

// resolveRange prints the schedule segments for a date range as CSV on stdout
func resolveRange(logger *slog.Logger, target domain.ContractSpec, start, end string, nS int, forwardOnly bool) error {
	from, err := time.Parse(dateFormat, start)
	if err != nil {
		return fmt.Errorf("parse start date %q: %w", start, err)
	}
	to, err := time.Parse(dateFormat, end)
	if err != nil {
		return fmt.Errorf("parse end date %q: %w", end, err)
	}

	segments, err := period.Schedule(target, from, to, nS)
	if err != nil {
		return err
	}
	if forwardOnly {
		segments = period.ForwardSegments(segments)
	}

	logger.Info("resolved schedule",
		slog.String("contract", target.String()),
		slog.String("start", start),
		slog.String("end", end),
		slog.Int("n_s", nS),
		slog.Int("segments", len(segments)),
	)

	writer := csv.NewWriter(os.Stdout)
	defer writer.Flush()

	if err := writer.Write([]string{"label", "offset", "start", "end", "transitioned"}); err != nil {
		return err
	}
	for _, seg := range segments {
		record := []string{
			seg.Label,
			strconv.Itoa(seg.Offset),
			seg.Start.Format(dateFormat),
			seg.End.Format(dateFormat),
			strconv.FormatBool(seg.Transitioned),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}
