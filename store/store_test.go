package store

import (
	"path/filepath"
	"testing"

	"github.com/agrosim/biogas/config"
	"github.com/agrosim/biogas/telemetry"
)

func testConfig() *config.Config {
	return &config.Config{
		Population: config.PopulationConfig{NFarmers: 2},
		Grid:       config.GridConfig{Width: 5, Height: 5},
		FarmSize: config.FarmSizeConfig{
			Min:          10,
			Max:          100,
			Distribution: config.DistUniform,
		},
		Willingness:   config.WillingnessConfig{Min: 0.3, Max: 0.9},
		BiogasPayment: 100,
		Seed:          7,
	}
}

func TestSaveRun(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	model := []telemetry.ModelRecord{
		{Tick: 1, NFarmers: 2, NAdopters: 1, NPlants: 1, NewAdopters: 1, NSmall: 1, TotalMoney: 100},
		{Tick: 2, NFarmers: 2, NAdopters: 1, NPlants: 1, NSmall: 1, TotalMoney: 200},
	}
	agents := []telemetry.AgentRecord{
		{Tick: 1, FarmerID: 0, FarmSize: 42, Willingness: 0.4, HasPlant: true, MoneyReceived: 100},
		{Tick: 1, FarmerID: 1, FarmSize: 15, Willingness: 0.8},
		{Tick: 2, FarmerID: 0, FarmSize: 42, Willingness: 0.4, HasPlant: true, MoneyReceived: 200},
		{Tick: 2, FarmerID: 1, FarmSize: 15, Willingness: 0.8},
	}

	id, err := db.SaveRun(testConfig(), model, agents)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveRun returned an empty run ID")
	}

	var steps int
	if err := db.conn.Get(&steps, `SELECT steps FROM runs WHERE id = ?`, id); err != nil {
		t.Fatalf("querying run row: %v", err)
	}
	if steps != 2 {
		t.Errorf("stored steps = %d, want 2", steps)
	}

	var modelRows int
	if err := db.conn.Get(&modelRows, `SELECT COUNT(*) FROM model_metrics WHERE run_id = ?`, id); err != nil {
		t.Fatal(err)
	}
	if modelRows != 2 {
		t.Errorf("model_metrics rows = %d, want 2", modelRows)
	}

	var agentRows int
	if err := db.conn.Get(&agentRows, `SELECT COUNT(*) FROM agent_metrics WHERE run_id = ?`, id); err != nil {
		t.Fatal(err)
	}
	if agentRows != 4 {
		t.Errorf("agent_metrics rows = %d, want 4", agentRows)
	}

	var money float64
	if err := db.conn.Get(&money, `SELECT total_money FROM model_metrics WHERE run_id = ? AND tick = 2`, id); err != nil {
		t.Fatal(err)
	}
	if money != 200 {
		t.Errorf("tick 2 total_money = %g, want 200", money)
	}
}

func TestSaveRunDistinctIDs(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	a, err := db.SaveRun(testConfig(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := db.SaveRun(testConfig(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two runs received the same ID")
	}

	var runs int
	if err := db.conn.Get(&runs, `SELECT COUNT(*) FROM runs`); err != nil {
		t.Fatal(err)
	}
	if runs != 2 {
		t.Errorf("runs table holds %d rows, want 2", runs)
	}
}
