// Package sim implements the farmer adoption model and its stepping engine.
package sim

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/agrosim/biogas/components"
	"github.com/agrosim/biogas/config"
	"github.com/agrosim/biogas/systems"
	"github.com/agrosim/biogas/telemetry"
)

// Model owns the farmer population, the spatial grid, and the tick counter.
// It is single-threaded: Step is not reentrant and no other method may be
// called while a step is in progress.
type Model struct {
	world *ecs.World
	rng   *rand.Rand

	farmerMapper *ecs.Map3[components.Position, components.Farmer, components.Adoption]
	plantMapper  *ecs.Map1[components.Plant]

	posMap   *ecs.Map1[components.Position]
	farmMap  *ecs.Map1[components.Farmer]
	adoptMap *ecs.Map1[components.Adoption]

	grid      *systems.CellGrid
	collector *telemetry.Collector
	norm      systems.Normalizer

	// farmers is in creation order (== farmer ID order) and never changes.
	// order is the per-step activation permutation, reshuffled each step.
	farmers []ecs.Entity
	order   []int

	// sizeScratch avoids reallocating the neighbor size buffer every
	// evaluation.
	sizeScratch []float64

	payment     float64
	tick        int
	adopters    int
	plants      int
	classCounts [3]int
}

// New constructs a model from the given configuration, drawing positions
// and traits from the model-owned seeded RNG. A malformed configuration is
// rejected before any simulation state is created.
func New(cfg *config.Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	m := &Model{
		world:        world,
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		farmerMapper: ecs.NewMap3[components.Position, components.Farmer, components.Adoption](world),
		plantMapper:  ecs.NewMap1[components.Plant](world),
		posMap:       ecs.NewMap1[components.Position](world),
		farmMap:      ecs.NewMap1[components.Farmer](world),
		adoptMap:     ecs.NewMap1[components.Adoption](world),
		grid:         systems.NewCellGrid(cfg.Grid.Width, cfg.Grid.Height),
		collector:    telemetry.NewCollector(),
		norm:         systems.Normalizer{Min: cfg.FarmSize.Min, Max: cfg.FarmSize.Max},
		payment:      cfg.BiogasPayment,
	}

	n := cfg.Population.NFarmers
	m.farmers = make([]ecs.Entity, 0, n)
	m.order = make([]int, n)

	for i := 0; i < n; i++ {
		pos := components.Position{
			X: m.rng.Intn(cfg.Grid.Width),
			Y: m.rng.Intn(cfg.Grid.Height),
		}
		farmer := components.Farmer{
			ID:          uint32(i),
			FarmSize:    m.drawFarmSize(&cfg.FarmSize),
			Willingness: m.drawWillingness(&cfg.Willingness, cfg.Population.InnovatorShare),
		}
		adoption := components.Adoption{AdoptedTick: -1}

		e := m.farmerMapper.NewEntity(&pos, &farmer, &adoption)
		m.grid.Place(e, pos.X, pos.Y)
		m.farmers = append(m.farmers, e)
	}

	return m, nil
}

// drawFarmSize samples a farm size from the configured distribution. LSU
// draws are clamped to the configured range so stated bounds hold for
// either distribution.
func (m *Model) drawFarmSize(fs *config.FarmSizeConfig) float64 {
	switch fs.Distribution {
	case config.DistLSU:
		v := systems.SampleLSU(m.rng, fs.Shift)
		if v < fs.Min {
			v = fs.Min
		}
		if v > fs.Max {
			v = fs.Max
		}
		return v
	default:
		return fs.Min + m.rng.Float64()*(fs.Max-fs.Min)
	}
}

// drawWillingness samples an adoption threshold. Innovators draw from the
// low (eager) fifth of the range.
func (m *Model) drawWillingness(w *config.WillingnessConfig, innovatorShare float64) float64 {
	span := w.Max - w.Min
	if innovatorShare > 0 && m.rng.Float64() < innovatorShare {
		return w.Min + m.rng.Float64()*span*0.2
	}
	return w.Min + m.rng.Float64()*span
}

// Tick returns the current tick counter.
func (m *Model) Tick() int { return m.tick }

// NFarmers returns the fixed population size.
func (m *Model) NFarmers() int { return len(m.farmers) }

// GridWidth returns the grid width in cells.
func (m *Model) GridWidth() int { return m.grid.Width() }

// GridHeight returns the grid height in cells.
func (m *Model) GridHeight() int { return m.grid.Height() }

// Payment returns the per-step payment to plant owners.
func (m *Model) Payment() float64 { return m.payment }

// SetPayment adjusts the per-step payment for subsequent steps. Negative
// values are clamped to 0.
func (m *Model) SetPayment(v float64) {
	if v < 0 {
		v = 0
	}
	m.payment = v
}

// ModelSeries returns the full ordered model-level time series.
func (m *Model) ModelSeries() []telemetry.ModelRecord {
	return m.collector.ModelSeries()
}

// AgentSeries returns the full ordered agent-level time series.
func (m *Model) AgentSeries() []telemetry.AgentRecord {
	return m.collector.AgentSeries()
}

// Latest returns the most recent model record, if any step has run.
func (m *Model) Latest() (telemetry.ModelRecord, bool) {
	return m.collector.Latest()
}

// LatestAgents returns the agent records of the most recent tick.
func (m *Model) LatestAgents() []telemetry.AgentRecord {
	return m.collector.LatestAgents()
}

// FarmerState is a read-only view of one farmer for external rendering.
type FarmerState struct {
	ID            uint32
	X, Y          int
	FarmSize      float64
	Willingness   float64
	HasPlant      bool
	MoneyReceived float64
	PlantClass    components.PlantClass // meaningful only when HasPlant
}

// Farmers enumerates the current population in farmer ID order.
func (m *Model) Farmers() []FarmerState {
	out := make([]FarmerState, 0, len(m.farmers))
	for _, e := range m.farmers {
		pos := m.posMap.Get(e)
		farmer := m.farmMap.Get(e)
		adopt := m.adoptMap.Get(e)

		state := FarmerState{
			ID:            farmer.ID,
			X:             pos.X,
			Y:             pos.Y,
			FarmSize:      farmer.FarmSize,
			Willingness:   farmer.Willingness,
			HasPlant:      adopt.HasPlant,
			MoneyReceived: adopt.MoneyReceived,
		}
		if adopt.HasPlant {
			state.PlantClass = m.plantMapper.Get(adopt.Plant).Class
		}
		out = append(out, state)
	}
	return out
}
