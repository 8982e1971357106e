package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/agrosim/biogas/config"
	"github.com/agrosim/biogas/sim"
	"github.com/agrosim/biogas/store"
	"github.com/agrosim/biogas/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	steps := flag.Int("steps", 100, "Number of simulation steps")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, or time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	dbPath := flag.String("db", "", "SQLite database for run persistence (empty = disabled)")
	logEvery := flag.Int("log-every", 10, "Log progress every N steps (0 = never)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	model, err := sim.New(cfg)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"n_farmers", cfg.Population.NFarmers,
		"grid_width", cfg.Grid.Width,
		"grid_height", cfg.Grid.Height,
		"biogas_payment", cfg.BiogasPayment,
		"seed", cfg.Seed,
		"steps", *steps,
	)

	for i := 0; i < *steps; i++ {
		rec := model.Step()

		if err := out.WriteModel(rec); err != nil {
			slog.Error("failed to write model record", "error", err)
			os.Exit(1)
		}
		if *logEvery > 0 && (i+1)%*logEvery == 0 {
			slog.Info("progress", "step", i+1, "metrics", rec)
		}
	}

	if err := out.WriteAgents(model.AgentSeries()); err != nil {
		slog.Error("failed to write agent records", "error", err)
		os.Exit(1)
	}

	if rec, ok := model.Latest(); ok {
		farmSize, willingness, money := telemetry.SummarizeAgents(model.LatestAgents())
		adoptionRate := 0.0
		if rec.NFarmers > 0 {
			adoptionRate = float64(rec.NAdopters) / float64(rec.NFarmers)
		}
		slog.Info("simulation complete",
			"metrics", rec,
			"adoption_rate", adoptionRate,
			"farm_size_mean", farmSize.Mean,
			"willingness_mean", willingness.Mean,
			"money_received_mean", money.Mean,
		)
	}

	if *dbPath != "" {
		db, err := store.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		runID, err := db.SaveRun(cfg, model.ModelSeries(), model.AgentSeries())
		if err != nil {
			slog.Error("failed to save run", "error", err)
			os.Exit(1)
		}
		slog.Info("run saved", "db", *dbPath, "run_id", runID)
	}
}
