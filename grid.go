package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	// FreeIntensity is the intensity of an unoccupied cell.
	FreeIntensity = 255
	// ObstacleThreshold is the intensity below which a cell blocks line traversal.
	ObstacleThreshold = 200
)

var (
	// ErrInvalidDimensions indicates a non-positive workspace width or height.
	ErrInvalidDimensions = errors.New("planner: workspace dimensions must be positive")
	// ErrGridSize indicates a grid whose shape does not match the workspace.
	ErrGridSize = errors.New("planner: grid size does not match workspace")
)

// ObstacleGrid holds an intensity in [0, 255] per cell, indexed [x][y].
type ObstacleGrid [][]int

// NewObstacleGrid creates a width x height grid with every cell free
func NewObstacleGrid(width, height int) ObstacleGrid {
	grid := make(ObstacleGrid, width)
	for x := range grid {
		grid[x] = make([]int, height)
		for y := range grid[x] {
			grid[x][y] = FreeIntensity
		}
	}
	return grid
}

// Width returns the number of columns
func (g ObstacleGrid) Width() int {
	return len(g)
}

// Height returns the number of rows
func (g ObstacleGrid) Height() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// InBounds reports whether (x, y) addresses a cell of the grid
func (g ObstacleGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width() && y >= 0 && y < g.Height()
}

// Set writes the intensity of one cell; out-of-range cells are ignored.
func (g ObstacleGrid) Set(x, y, intensity int) {
	if g.InBounds(x, y) {
		g[x][y] = intensity
	}
}

// FillRect sets every cell in [x0,x1]x[y0,y1] to intensity.
func (g ObstacleGrid) FillRect(x0, y0, x1, y1, intensity int) {
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			g.Set(x, y, intensity)
		}
	}
}

// CostGrid holds a non-negative weight per cell, indexed [x][y].
// A nil CostGrid means no distribution was supplied.
type CostGrid [][]float64

// NewCostGrid creates a width x height grid filled with value
func NewCostGrid(width, height int, value float64) CostGrid {
	grid := make(CostGrid, width)
	for x := range grid {
		grid[x] = make([]float64, height)
		for y := range grid[x] {
			grid[x][y] = value
		}
	}
	return grid
}

// Clone returns a deep copy, so later writes to g do not leak into the copy
func (g CostGrid) Clone() CostGrid {
	if g == nil {
		return nil
	}
	out := make(CostGrid, len(g))
	for x := range g {
		out[x] = make([]float64, len(g[x]))
		copy(out[x], g[x])
	}
	return out
}

// At returns the weight of a cell, or 0 outside the grid
func (g CostGrid) At(x, y int) float64 {
	if x < 0 || x >= len(g) || y < 0 || y >= len(g[x]) {
		return 0
	}
	return g[x][y]
}

// Dump writes one line per x index, each holding the space-separated weights for every y
func (g CostGrid) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for x := range g {
		for y := range g[x] {
			bw.WriteString(strconv.FormatFloat(g[x][y], 'g', -1, 64))
			bw.WriteByte(' ')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// checkShape verifies that every column of a grid has the expected height
func checkShape(width, height int, columns func(x int) int, n int) error {
	if n != width {
		return fmt.Errorf("%w: got %d columns, want %d", ErrGridSize, n, width)
	}
	for x := 0; x < n; x++ {
		if columns(x) != height {
			return fmt.Errorf("%w: column %d has %d rows, want %d", ErrGridSize, x, columns(x), height)
		}
	}
	return nil
}
