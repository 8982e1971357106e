package systems

import "math/rand"

// lsuBin is one bucket of the empirical livestock-unit herd size
// distribution (supplementary table S.21 of the source study).
type lsuBin struct {
	lo, hi float64
	p      float64
}

// The >120 tail is capped at 150 for practicality.
var lsuBins = []lsuBin{
	{0, 10, 0.04},
	{11, 20, 0.12},
	{21, 40, 0.30},
	{41, 60, 0.37},
	{61, 80, 0.06},
	{81, 100, 0.06},
	{101, 120, 0.02},
	{121, 150, 0.03},
}

// SampleLSU draws a farm size from the empirical LSU distribution: a bin is
// chosen by its probability mass, then a size is drawn uniformly within it.
// Shift moves the expected mean; results are floored at 0.
func SampleLSU(rng *rand.Rand, shift float64) float64 {
	r := rng.Float64()
	bin := lsuBins[len(lsuBins)-1]
	var acc float64
	for _, b := range lsuBins {
		acc += b.p
		if r < acc {
			bin = b
			break
		}
	}

	v := bin.lo + rng.Float64()*(bin.hi-bin.lo) + shift
	if v < 0 {
		v = 0
	}
	return v
}
