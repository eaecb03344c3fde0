package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/openelect/wardcast/internal/briefing"
	"github.com/openelect/wardcast/internal/config"
	"github.com/openelect/wardcast/internal/council"
	"github.com/openelect/wardcast/internal/dataset"
	"github.com/openelect/wardcast/internal/export"
	"github.com/openelect/wardcast/internal/geo"
	"github.com/openelect/wardcast/internal/logger"
	"github.com/openelect/wardcast/internal/models"
	"github.com/openelect/wardcast/internal/predictor"
	"github.com/openelect/wardcast/internal/strategy"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	outDir     = flag.String("out", ".", "Directory for CSV exports")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	store, err := dataset.Open(cfg.Dataset.Path)
	if err != nil {
		logger.Fatal("Failed to open dataset: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close dataset: %v", err)
		}
	}()

	if err := run(cfg, store); err != nil {
		logger.Fatal("Run failed: %v", err)
	}
}

func run(cfg *config.Config, store *dataset.Store) error {
	assumptions := cfg.ModelAssumptions()

	refs, err := store.References()
	if err != nil {
		return fmt.Errorf("failed to load reference shares: %w", err)
	}
	calibration, err := store.Calibration()
	if err != nil {
		return fmt.Errorf("failed to load calibration: %w", err)
	}
	if calibration != nil {
		logger.Info("Calibration table present: using per-party dampening and regression demographics")
	}

	wards, err := store.Wards()
	if err != nil {
		return fmt.Errorf("failed to list wards: %w", err)
	}
	if len(wards) == 0 {
		return fmt.Errorf("dataset contains no wards")
	}

	inputs := make(map[string]predictor.Inputs, len(wards))
	facts := make(map[string]strategy.WardFacts, len(wards))
	for _, ward := range wards {
		in, f, err := loadWard(store, ward, refs, calibration, cfg)
		if err != nil {
			return fmt.Errorf("failed to load ward %s: %w", ward, err)
		}
		inputs[ward] = in
		facts[ward] = f
	}

	result := council.Aggregate(inputs, assumptions)
	totals := council.ApplyOverrides(result.Totals, result.Predictions, cfg.Strategy.ManualOverride)

	if credited := totals.Total() + len(result.Skipped); credited != cfg.Strategy.TotalSeats {
		logger.Warn("Seat totals do not reconcile: %d credited + %d skipped != %d council seats; check the dataset",
			totals.Total(), len(result.Skipped), cfg.Strategy.TotalSeats)
	}

	coalitions := council.FindCoalitions(totals)
	for _, c := range coalitions {
		logger.Info("Viable: %v with %d seats (margin +%d, %s)", c.Parties, c.Seats, c.Margin, c.Kind)
	}

	ranked := strategy.RankBattlegrounds(result.Predictions, facts, cfg.Strategy.OurParty)
	path := strategy.BuildPath(ranked, cfg.Strategy.OurParty,
		cfg.Strategy.TotalSeats, cfg.Strategy.CurrentSeats, cfg.Strategy.SeatsNotUp)
	logger.Info("Path to control: %d seats needed for threshold %d", path.SeatsNeeded, path.MajorityThreshold)

	allocations := strategy.AllocateResources(ranked, cfg.Strategy.BudgetHours)

	centroids, err := store.Centroids()
	if err != nil {
		return fmt.Errorf("failed to load centroids: %w", err)
	}
	contested := make([]string, 0, len(ranked))
	for _, rw := range ranked {
		contested = append(contested, rw.Prediction.Ward)
	}
	clusters := geo.ClusterWards(contested, centroids, cfg.Strategy.SessionCap)

	stopInfo := make(map[string]geo.StopInfo, len(allocations))
	for _, a := range allocations {
		stopInfo[a.Ward] = geo.StopInfo{Hours: a.Hours, ROI: a.ROI}
	}
	sessions, segments := geo.OptimiseRoute(clusters, centroids, stopInfo)
	logger.Info("Canvass plan: %d sessions, %d route segments", len(sessions), len(segments))

	if err := writeExports(*outDir, allocations, sessions); err != nil {
		return err
	}

	if cfg.Briefing.Enabled {
		client, err := briefing.NewClient(cfg.Briefing.BotToken, cfg.Briefing.ChatID,
			cfg.Briefing.MaxRetries, cfg.Briefing.RetryDelayBase)
		if err != nil {
			return fmt.Errorf("failed to initialize briefing client: %w", err)
		}
		if err := client.SendDigest(path, ranked, cfg.Strategy.BriefingTopK); err != nil {
			// Briefing failure should not invalidate an otherwise complete run.
			logger.Error("Failed to send briefing: %v", err)
		} else {
			logger.Info("Briefing sent")
		}
	}

	logger.Info("Run complete: %d predictions, %d skipped wards, %d viable coalitions",
		len(result.Predictions), len(result.Skipped), len(coalitions))
	return nil
}

func loadWard(store *dataset.Store, ward string, refs models.ReferenceResults, cal *models.Calibration, cfg *config.Config) (predictor.Inputs, strategy.WardFacts, error) {
	history, _, err := store.History(ward)
	if err != nil {
		return predictor.Inputs{}, strategy.WardFacts{}, err
	}
	// A missing history is handled downstream: the predictor fails fast for
	// the ward and the aggregator records the skip.
	history.Ward = ward

	status, ok, err := store.Status(ward)
	if err != nil {
		return predictor.Inputs{}, strategy.WardFacts{}, err
	}
	if !ok {
		return predictor.Inputs{}, strategy.WardFacts{}, fmt.Errorf("ward %s has no status row", ward)
	}

	demographics, err := store.Demographics(ward)
	if err != nil {
		return predictor.Inputs{}, strategy.WardFacts{}, err
	}
	deprivation, err := store.Deprivation(ward)
	if err != nil {
		return predictor.Inputs{}, strategy.WardFacts{}, err
	}

	in := predictor.Inputs{
		History:      history,
		Status:       status,
		Demographics: demographics,
		Deprivation:  deprivation,
		References:   refs,
		Calibration:  cal,
		CurrentYear:  cfg.Strategy.CurrentYear,
		TargetType:   cfg.Strategy.TargetType,
	}
	f := strategy.WardFacts{
		Status:       status,
		Demographics: demographics,
		Deprivation:  deprivation,
	}
	return in, f, nil
}

func writeExports(dir string, allocations []models.ResourceAllocation, sessions []models.CanvassSession) error {
	allocPath := filepath.Join(dir, "resource_allocation.csv")
	allocFile, err := os.Create(allocPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", allocPath, err)
	}
	defer allocFile.Close()
	if err := export.WriteAllocations(allocFile, allocations); err != nil {
		return err
	}
	logger.Info("Wrote %s (%d wards)", allocPath, len(allocations))

	canvassPath := filepath.Join(dir, "canvass_plan.csv")
	canvassFile, err := os.Create(canvassPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", canvassPath, err)
	}
	defer canvassFile.Close()
	if err := export.WriteCanvassPlan(canvassFile, sessions); err != nil {
		return err
	}
	logger.Info("Wrote %s (%d sessions)", canvassPath, len(sessions))
	return nil
}
