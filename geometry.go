package main

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Position is a configuration in the 2D workspace, in grid units.
// Sampled and steered positions are real-valued; Cell maps them onto the grid.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pos is shorthand for building a Position from integer grid coordinates.
func Pos(x, y int) Position {
	return Position{X: float64(x), Y: float64(y)}
}

// Point converts the position to an orb point.
func (p Position) Point() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Distance calculates Euclidean distance between two positions
func (p Position) Distance(other Position) float64 {
	return planar.Distance(p.Point(), other.Point())
}

// Cell returns the grid cell containing the position
func (p Position) Cell() (int, int) {
	return int(p.X), int(p.Y)
}

// Steer clamps target to at most stepLength away from origin along origin->target.
// Targets within reach are returned unchanged.
func Steer(target, origin Position, stepLength float64) Position {
	dx := target.X - origin.X
	dy := target.Y - origin.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length <= stepLength {
		return target
	}

	scale := stepLength / length
	return Position{
		X: origin.X + dx*scale,
		Y: origin.Y + dy*scale,
	}
}

// WorkspaceBound returns the bounding box of a width x height workspace
func WorkspaceBound(width, height int) orb.Bound {
	return orb.Bound{
		Min: orb.Point{0, 0},
		Max: orb.Point{float64(width), float64(height)},
	}
}

// InWorkspace reports whether the cell of p lies inside a width x height grid
func InWorkspace(p Position, width, height int) bool {
	if p.X < 0 || p.Y < 0 {
		return false
	}
	x, y := p.Cell()
	return x < width && y < height
}
