package systems

// Weights combining a farmer's own size with its neighborhood average.
const (
	SelfWeight     = 0.60
	NeighborWeight = 0.40
)

// Normalizer maps farm sizes onto [0,1] over the configured range.
type Normalizer struct {
	Min, Max float64
}

// Normalize returns the position of v within the range, clamped to [0,1].
// A degenerate range (max == min) normalizes every value to 1.
func (n Normalizer) Normalize(v float64) float64 {
	if n.Max <= n.Min {
		return 1.0
	}
	t := (v - n.Min) / (n.Max - n.Min)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Score computes the adoption decision score in [0,1] for a farmer with the
// given farm size and neighbor farm sizes. The neighbor component is the
// normalized mean neighbor size, or 0 when there are no neighbors. The
// score is static for a fixed population; the caller compares it against
// the farmer's willingness threshold.
func Score(farmSize float64, neighborSizes []float64, norm Normalizer) float64 {
	self := norm.Normalize(farmSize)

	var neighbor float64
	if len(neighborSizes) > 0 {
		var sum float64
		for _, s := range neighborSizes {
			sum += s
		}
		neighbor = norm.Normalize(sum / float64(len(neighborSizes)))
	}

	return SelfWeight*self + NeighborWeight*neighbor
}
