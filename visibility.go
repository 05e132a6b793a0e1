package main

import "math"

// rasterWalk visits the cells between the cells holding a and b with Bresenham stepping
// along the longer axis. The cell at the far end of the primary axis is not visited.
// It returns false as soon as visit does.
func rasterWalk(a, b Position, visit func(x, y int) bool) bool {
	x1, y1 := floorCell(a)
	x2, y2 := floorCell(b)

	steep := abs(y2-y1) > abs(x2-x1)
	if steep {
		x1, y1 = y1, x1
		x2, y2 = y2, x2
	}
	if x1 > x2 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
	}

	dx := float64(x2 - x1)
	dy := float64(abs(y2 - y1))

	errTerm := dx / 2
	ystep := -1
	if y1 < y2 {
		ystep = 1
	}
	y := y1

	for x := x1; x < x2; x++ {
		cx, cy := x, y
		if steep {
			cx, cy = y, x
		}
		if !visit(cx, cy) {
			return false
		}

		errTerm -= dy
		if errTerm < 0 {
			y += ystep
			errTerm += dx
		}
	}
	return true
}

func floorCell(p Position) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// IsObstacleFree reports whether the cells between a and b hold nothing below ObstacleThreshold.
// Cells outside the grid are ignored.
func (g ObstacleGrid) IsObstacleFree(a, b Position) bool {
	if a == b {
		return true
	}

	return rasterWalk(a, b, func(x, y int) bool {
		if g.InBounds(x, y) && g[x][y] < ObstacleThreshold {
			return false
		}
		return true
	})
}

// IsInObstacle reports whether the cell holding pos is anything but fully free.
// Positions outside the grid count as blocked.
func (g ObstacleGrid) IsInObstacle(pos Position) bool {
	if !InWorkspace(pos, g.Width(), g.Height()) {
		return true
	}
	x, y := pos.Cell()
	return g[x][y] < FreeIntensity
}
