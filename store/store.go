// Package store persists completed simulation runs to SQLite for the
// external drivers. The core model never touches it.
package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/agrosim/biogas/config"
	"github.com/agrosim/biogas/telemetry"
)

// DB wraps a SQLite connection for run persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		config_yaml TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS model_metrics (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		n_farmers INTEGER NOT NULL,
		n_adopters INTEGER NOT NULL,
		n_plants INTEGER NOT NULL,
		new_adopters INTEGER NOT NULL,
		n_small INTEGER NOT NULL,
		n_medium INTEGER NOT NULL,
		n_large INTEGER NOT NULL,
		total_money REAL NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS agent_metrics (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		farmer_id INTEGER NOT NULL,
		farm_size REAL NOT NULL,
		willingness REAL NOT NULL,
		has_plant INTEGER NOT NULL,
		money_received REAL NOT NULL,
		PRIMARY KEY (run_id, tick, farmer_id)
	);

	CREATE INDEX IF NOT EXISTS idx_model_metrics_run ON model_metrics(run_id);
	CREATE INDEX IF NOT EXISTS idx_agent_metrics_run ON agent_metrics(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun writes one completed run and its full metric series in a single
// transaction. Returns the generated run ID.
func (db *DB) SaveRun(cfg *config.Config, model []telemetry.ModelRecord, agents []telemetry.AgentRecord) (string, error) {
	cfgYAML, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	id := uuid.NewString()

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, created_at, seed, steps, config_yaml) VALUES (?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), cfg.Seed, len(model), string(cfgYAML),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, r := range model {
		_, err = tx.Exec(
			`INSERT INTO model_metrics
			 (run_id, tick, n_farmers, n_adopters, n_plants, new_adopters, n_small, n_medium, n_large, total_money)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, r.Tick, r.NFarmers, r.NAdopters, r.NPlants, r.NewAdopters, r.NSmall, r.NMedium, r.NLarge, r.TotalMoney,
		)
		if err != nil {
			return "", fmt.Errorf("insert model metrics at tick %d: %w", r.Tick, err)
		}
	}

	for _, a := range agents {
		_, err = tx.Exec(
			`INSERT INTO agent_metrics
			 (run_id, tick, farmer_id, farm_size, willingness, has_plant, money_received)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, a.Tick, a.FarmerID, a.FarmSize, a.Willingness, a.HasPlant, a.MoneyReceived,
		)
		if err != nil {
			return "", fmt.Errorf("insert agent metrics at tick %d: %w", a.Tick, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}
