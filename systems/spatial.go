// Package systems provides the spatial index, decision scoring, and trait
// sampling used by the model.
package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
)

// CellGrid is a toroidal width x height grid holding zero or more agents
// per cell. Agents never move or leave, so there is no removal operation.
type CellGrid struct {
	width  int
	height int
	cells  [][]ecs.Entity
}

// NewCellGrid creates an empty grid with the given dimensions.
func NewCellGrid(width, height int) *CellGrid {
	return &CellGrid{
		width:  width,
		height: height,
		cells:  make([][]ecs.Entity, width*height),
	}
}

// Width returns the grid width in cells.
func (g *CellGrid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *CellGrid) Height() int { return g.height }

// Place registers an agent at a cell. Coordinates are not wrapped here:
// placement outside the grid is a programming error.
func (g *CellGrid) Place(e ecs.Entity, x, y int) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("spatial: place at (%d,%d) outside %dx%d grid", x, y, g.width, g.height))
	}
	idx := y*g.width + x
	g.cells[idx] = append(g.cells[idx], e)
}

// At returns the agents occupying a single cell.
func (g *CellGrid) At(x, y int) []ecs.Entity {
	return g.cells[y*g.width+x]
}

// Neighbors returns the agents occupying the 8 toroidally wrapped cells of
// the Moore neighborhood around (x, y). The center cell is excluded. On
// grids narrower than 3 cells the wrapped neighborhood collapses onto the
// same cells; each cell is counted once.
func (g *CellGrid) Neighbors(x, y int) []ecs.Entity {
	var seen [8]int
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			col := (x + dx + g.width) % g.width
			row := (y + dy + g.height) % g.height
			idx := row*g.width + col
			dup := false
			for i := 0; i < n; i++ {
				if seen[i] == idx {
					dup = true
					break
				}
			}
			if !dup {
				seen[n] = idx
				n++
			}
		}
	}

	var out []ecs.Entity
	for i := 0; i < n; i++ {
		out = append(out, g.cells[seen[i]]...)
	}
	return out
}
