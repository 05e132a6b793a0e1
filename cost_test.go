package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEuclideanCost(t *testing.T) {
	assert.Equal(t, 5.0, EuclideanCost(Pos(0, 0), Pos(3, 4), nil, nil))
	assert.Equal(t, 0.0, EuclideanCost(Pos(2, 2), Pos(2, 2), nil, nil))
}

func TestDistributionCost_SumsVisitedCells(t *testing.T) {
	costs := NewCostGrid(10, 10, 1)
	costs[1][0] = 3

	assert.Equal(t, 6.0, DistributionCost(Pos(0, 0), Pos(4, 0), costs, nil))
	assert.Equal(t, 6.0, DistributionCost(Pos(4, 0), Pos(0, 0), costs, nil))
	assert.Equal(t, 0.0, DistributionCost(Pos(4, 0), Pos(4, 0), costs, nil))
}

func TestDistributionCost_FallsBackToDistance(t *testing.T) {
	assert.Equal(t, 5.0, DistributionCost(Pos(0, 0), Pos(3, 4), nil, nil))
}

func TestSelectCostFunc(t *testing.T) {
	costs := NewCostGrid(10, 10, 2)

	assert.Equal(t, 4.0, SelectCostFunc(true)(Pos(0, 0), Pos(4, 0), costs, nil))
	assert.Equal(t, 8.0, SelectCostFunc(false)(Pos(0, 0), Pos(4, 0), costs, nil))
}
