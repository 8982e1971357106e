package telemetry

import (
	"fmt"
	"slices"
)

// Collector holds the append-only metric series. Records are ordered by
// tick, agent records with ties broken by farmer ID; past entries are
// never mutated.
type Collector struct {
	model  []ModelRecord
	agents []AgentRecord
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Append records one step's snapshots. The model record's tick must be
// strictly greater than the previous one and agent records must carry the
// same tick, ordered by farmer ID; violations are programming errors.
func (c *Collector) Append(m ModelRecord, agents []AgentRecord) {
	if n := len(c.model); n > 0 && m.Tick <= c.model[n-1].Tick {
		panic(fmt.Sprintf("telemetry: tick %d not after %d", m.Tick, c.model[n-1].Tick))
	}
	for i, a := range agents {
		if a.Tick != m.Tick {
			panic(fmt.Sprintf("telemetry: agent record tick %d in model tick %d", a.Tick, m.Tick))
		}
		if i > 0 && agents[i-1].FarmerID >= a.FarmerID {
			panic(fmt.Sprintf("telemetry: agent records out of order at farmer %d", a.FarmerID))
		}
	}

	c.model = append(c.model, m)
	c.agents = append(c.agents, agents...)
}

// Len returns the number of recorded ticks.
func (c *Collector) Len() int {
	return len(c.model)
}

// ModelSeries returns a copy of the full model-level time series.
func (c *Collector) ModelSeries() []ModelRecord {
	return slices.Clone(c.model)
}

// AgentSeries returns a copy of the full agent-level time series.
func (c *Collector) AgentSeries() []AgentRecord {
	return slices.Clone(c.agents)
}

// Latest returns the most recent model record, if any step has run.
func (c *Collector) Latest() (ModelRecord, bool) {
	if len(c.model) == 0 {
		return ModelRecord{}, false
	}
	return c.model[len(c.model)-1], true
}

// LatestAgents returns a copy of the agent records of the most recent tick.
func (c *Collector) LatestAgents() []AgentRecord {
	if len(c.model) == 0 {
		return nil
	}
	n := c.model[len(c.model)-1].NFarmers
	return slices.Clone(c.agents[len(c.agents)-n:])
}
