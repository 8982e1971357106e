package telemetry

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary holds distribution statistics for one agent-level column.
type Summary struct {
	Mean float64
	P10  float64
	P50  float64
	P90  float64
}

// Summarize computes mean and percentiles of the given values.
// Returns the zero Summary for an empty input.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return Summary{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// SummarizeAgents computes per-column summaries over one tick's agent
// records, for run summaries and sweep aggregation.
func SummarizeAgents(records []AgentRecord) (farmSize, willingness, money Summary) {
	sizes := make([]float64, len(records))
	wills := make([]float64, len(records))
	moneys := make([]float64, len(records))
	for i, r := range records {
		sizes[i] = r.FarmSize
		wills[i] = r.Willingness
		moneys[i] = r.MoneyReceived
	}
	return Summarize(sizes), Summarize(wills), Summarize(moneys)
}
