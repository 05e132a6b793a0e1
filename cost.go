package main

// CostContext is the planner state a cost function may consult.
type CostContext interface {
	Width() int
	Height() int
	SegmentLength() float64
}

// CostFunc computes the cost of travelling from a to b. Implementations must be
// deterministic and non-negative. costs is nil when no distribution was supplied.
type CostFunc func(a, b Position, costs CostGrid, ctx CostContext) float64

// EuclideanCost is the plain distance between a and b
func EuclideanCost(a, b Position, _ CostGrid, _ CostContext) float64 {
	return a.Distance(b)
}

// DistributionCost sums the cost-grid weights over the cells the segment a-b crosses,
// using the same raster walk as the visibility test. Without a grid it is the distance.
func DistributionCost(a, b Position, costs CostGrid, _ CostContext) float64 {
	if costs == nil {
		return a.Distance(b)
	}
	if a == b {
		return 0
	}

	total := 0.0
	rasterWalk(a, b, func(x, y int) bool {
		total += costs.At(x, y)
		return true
	})
	return total
}

// SelectCostFunc picks the strategy the configuration asks for
func SelectCostFunc(minDistEnabled bool) CostFunc {
	if minDistEnabled {
		return EuclideanCost
	}
	return DistributionCost
}
