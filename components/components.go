// Package components defines ECS components for the adoption model.
package components

import "github.com/mlange-42/ark/ecs"

// Position is a farmer's cell on the toroidal grid. Farmers never move.
type Position struct {
	X, Y int
}

// Farmer holds the static traits drawn at construction.
type Farmer struct {
	ID          uint32
	FarmSize    float64
	Willingness float64 // adoption threshold in [0,1]
}

// Adoption tracks the one-way prospective -> adopter transition.
// HasPlant never reverts and MoneyReceived never decreases.
type Adoption struct {
	HasPlant      bool
	MoneyReceived float64
	Plant         ecs.Entity // zero until adoption
	AdoptedTick   int        // -1 until adoption
}

// PlantClass buckets plants by capacity.
type PlantClass uint8

const (
	PlantSmall PlantClass = iota
	PlantMedium
	PlantLarge
)

// Capacity thresholds separating the plant classes, in LSUs.
const (
	SmallPlantMaxCapacity  = 100.0
	MediumPlantMaxCapacity = 600.0
)

// String returns the class name for logs and CSV output.
func (c PlantClass) String() string {
	switch c {
	case PlantSmall:
		return "small"
	case PlantMedium:
		return "medium"
	default:
		return "large"
	}
}

// ClassifyPlant maps a capacity to its plant class.
func ClassifyPlant(capacity float64) PlantClass {
	switch {
	case capacity <= SmallPlantMaxCapacity:
		return PlantSmall
	case capacity <= MediumPlantMaxCapacity:
		return PlantMedium
	default:
		return PlantLarge
	}
}

// Plant is an owned facility record, created exactly once per adopting
// farmer. It has no mutable state of its own.
type Plant struct {
	Owner    ecs.Entity
	Capacity float64
	Class    PlantClass
}
