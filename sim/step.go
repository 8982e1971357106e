package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/agrosim/biogas/components"
	"github.com/agrosim/biogas/systems"
	"github.com/agrosim/biogas/telemetry"
)

// Step advances the simulation by exactly one tick and returns the tick's
// model-level record. Farmers activate in a fresh random permutation each
// step; a prospective farmer is evaluated for adoption, then every plant
// owner (including a farmer that adopted this same step) receives the
// payment. The tick advances and a metrics snapshot is taken last.
func (m *Model) Step() telemetry.ModelRecord {
	stepTick := m.tick + 1

	m.shuffleOrder()

	newAdopters := 0
	for _, i := range m.order {
		e := m.farmers[i]
		adopt := m.adoptMap.Get(e)

		if !adopt.HasPlant {
			if m.evaluateAdoption(e, adopt, stepTick) {
				newAdopters++
			}
		}
		if adopt.HasPlant {
			adopt.MoneyReceived += m.payment
		}
	}

	m.tick = stepTick
	return m.snapshot(newAdopters)
}

// shuffleOrder draws a fresh activation permutation from the model RNG.
func (m *Model) shuffleOrder() {
	for i := range m.order {
		m.order[i] = i
	}
	m.rng.Shuffle(len(m.order), func(i, j int) {
		m.order[i], m.order[j] = m.order[j], m.order[i]
	})
}

// evaluateAdoption scores a prospective farmer against its neighborhood and
// commits the irreversible transition when the threshold is met.
func (m *Model) evaluateAdoption(e ecs.Entity, adopt *components.Adoption, stepTick int) bool {
	pos := m.posMap.Get(e)
	farmer := m.farmMap.Get(e)

	sizes := m.sizeScratch[:0]
	for _, n := range m.grid.Neighbors(pos.X, pos.Y) {
		if nf := m.farmMap.Get(n); nf != nil {
			sizes = append(sizes, nf.FarmSize)
		}
	}
	m.sizeScratch = sizes

	score := systems.Score(farmer.FarmSize, sizes, m.norm)
	if score < farmer.Willingness {
		return false
	}

	plant := components.Plant{
		Owner:    e,
		Capacity: farmer.FarmSize,
		Class:    components.ClassifyPlant(farmer.FarmSize),
	}
	adopt.Plant = m.plantMapper.NewEntity(&plant)
	adopt.HasPlant = true
	adopt.AdoptedTick = stepTick

	m.adopters++
	m.plants++
	m.classCounts[plant.Class]++
	return true
}

// snapshot appends the post-step model and agent records and returns the
// model record.
func (m *Model) snapshot(newAdopters int) telemetry.ModelRecord {
	agents := make([]telemetry.AgentRecord, 0, len(m.farmers))
	var totalMoney float64

	for _, e := range m.farmers {
		farmer := m.farmMap.Get(e)
		adopt := m.adoptMap.Get(e)

		agents = append(agents, telemetry.AgentRecord{
			Tick:          m.tick,
			FarmerID:      farmer.ID,
			FarmSize:      farmer.FarmSize,
			Willingness:   farmer.Willingness,
			HasPlant:      adopt.HasPlant,
			MoneyReceived: adopt.MoneyReceived,
		})
		totalMoney += adopt.MoneyReceived
	}

	rec := telemetry.ModelRecord{
		Tick:        m.tick,
		NFarmers:    len(m.farmers),
		NAdopters:   m.adopters,
		NPlants:     m.plants,
		NewAdopters: newAdopters,
		NSmall:      m.classCounts[components.PlantSmall],
		NMedium:     m.classCounts[components.PlantMedium],
		NLarge:      m.classCounts[components.PlantLarge],
		TotalMoney:  totalMoney,
	}

	m.collector.Append(rec, agents)
	return rec
}
