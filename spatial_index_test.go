package main

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomIndex(t *testing.T, n int, seed int64) (*SpatialIndex, []Position) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	si := NewSpatialIndex()
	points := make([]Position, n)
	for i := range points {
		points[i] = Position{X: rng.Float64() * 100, Y: rng.Float64() * 100}
		si.Insert(points[i], NodeID(i))
	}
	require.Equal(t, n, si.Len())
	return si, points
}

func TestSpatialIndex_EmptyIndex(t *testing.T) {
	si := NewSpatialIndex()

	_, ok := si.Nearest(Pos(1, 1))
	assert.False(t, ok)
	assert.Empty(t, si.WithinRadius(Pos(1, 1), 50))
	assert.False(t, si.Contains(Pos(1, 1)))
}

func TestSpatialIndex_NearestMatchesBruteForce(t *testing.T) {
	si, points := randomIndex(t, 300, 1)
	rng := rand.New(rand.NewSource(2))

	for q := 0; q < 100; q++ {
		query := Position{X: rng.Float64() * 100, Y: rng.Float64() * 100}

		want := NodeID(0)
		wantDist := math.Inf(1)
		for i, p := range points {
			if d := p.Distance(query); d < wantDist {
				want, wantDist = NodeID(i), d
			}
		}

		got, ok := si.Nearest(query)
		require.True(t, ok)
		assert.Equal(t, want, got.Node, "query %v", query)
		assert.Equal(t, points[want], got.Pos)
	}
}

func TestSpatialIndex_NearestTieIsDeterministic(t *testing.T) {
	si := NewSpatialIndex()
	si.Insert(Pos(0, 0), 0)
	si.Insert(Pos(2, 0), 1)
	si.Insert(Pos(1, 1), 2)

	got, ok := si.Nearest(Pos(1, 0))
	require.True(t, ok)
	assert.Equal(t, NodeID(0), got.Node, "equidistant entries resolve to the earliest inserted")
}

func TestSpatialIndex_WithinRadiusIsComplete(t *testing.T) {
	si, points := randomIndex(t, 400, 3)
	query := Pos(50, 50)

	for _, r := range []float64{0, 1, 7.5, 20, 200} {
		var want []NodeID
		for i, p := range points {
			if p.Distance(query) <= r {
				want = append(want, NodeID(i))
			}
		}

		var got []NodeID
		for _, e := range si.WithinRadius(query, r) {
			got = append(got, e.Node)
		}
		assert.ElementsMatch(t, want, got, "radius %v", r)
	}
}

func TestSpatialIndex_WithinRadiusIsInclusive(t *testing.T) {
	si := NewSpatialIndex()
	si.Insert(Pos(3, 4), 0)
	si.Insert(Pos(3, 5), 1)

	got := si.WithinRadius(Pos(0, 0), 5)
	require.Len(t, got, 1)
	assert.Equal(t, NodeID(0), got[0].Node)
	assert.Empty(t, si.WithinRadius(Pos(0, 0), -1))
}

func TestSpatialIndex_ContainsAndReset(t *testing.T) {
	si := NewSpatialIndex()
	si.Insert(Position{X: 1.5, Y: 2.25}, 0)

	assert.True(t, si.Contains(Position{X: 1.5, Y: 2.25}))
	assert.False(t, si.Contains(Position{X: 1.5, Y: 2.2500001}))

	si.Reset()
	assert.Equal(t, 0, si.Len())
	assert.False(t, si.Contains(Position{X: 1.5, Y: 2.25}))
}
