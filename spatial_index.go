package main

import (
	"github.com/dhconnelly/rtreego"
)

// entryTolerance is the half-width of the box an indexed point occupies in the R-tree.
const entryTolerance = 0.01

// PointEntry wraps a tree node position for R-tree storage
type PointEntry struct {
	Pos  Position
	Node NodeID
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *PointEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// SpatialIndex answers nearest, radius and membership queries over sampled positions
type SpatialIndex struct {
	tree  *rtreego.Rtree
	exact map[Position]NodeID
}

// NewSpatialIndex creates an empty spatial index
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{
		tree:  rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		exact: make(map[Position]NodeID),
	}
}

// Insert adds a position tagged with the node it belongs to
func (si *SpatialIndex) Insert(pos Position, node NodeID) {
	entry := &PointEntry{
		Pos:  pos,
		Node: node,
		bbox: rtreego.Point{pos.X, pos.Y}.ToRect(entryTolerance),
	}
	si.tree.Insert(entry)
	si.exact[pos] = node
}

// Nearest returns the indexed entry closest to pos. ok is false when the index is empty.
func (si *SpatialIndex) Nearest(pos Position) (entry PointEntry, ok bool) {
	found := si.tree.NearestNeighbor(rtreego.Point{pos.X, pos.Y})
	if found == nil {
		return PointEntry{}, false
	}
	best := *found.(*PointEntry)
	bestDist := best.Pos.Distance(pos)

	// The R-tree measures distance to entry boxes, not points; settle near-ties
	// exactly, preferring the earliest inserted node.
	for _, candidate := range si.WithinRadius(pos, bestDist+4*entryTolerance) {
		d := candidate.Pos.Distance(pos)
		if d < bestDist || (d == bestDist && candidate.Node < best.Node) {
			best = candidate
			bestDist = d
		}
	}

	return best, true
}

// WithinRadius returns every indexed entry whose distance to pos is at most r
func (si *SpatialIndex) WithinRadius(pos Position, r float64) []PointEntry {
	if r < 0 || si.tree.Size() == 0 {
		return []PointEntry{}
	}

	// Square query box, padded so entries exactly on the circle are not clipped.
	bbox := rtreego.Point{pos.X, pos.Y}.ToRect(r + 2*entryTolerance)
	results := si.tree.SearchIntersect(bbox)
	entries := make([]PointEntry, 0, len(results))

	for _, item := range results {
		entry := item.(*PointEntry)
		if entry.Pos.Distance(pos) <= r {
			entries = append(entries, *entry)
		}
	}

	return entries
}

// Contains reports whether pos is indexed exactly
func (si *SpatialIndex) Contains(pos Position) bool {
	_, ok := si.exact[pos]
	return ok
}

// Len returns the number of indexed points
func (si *SpatialIndex) Len() int {
	return si.tree.Size()
}

// Reset drops every indexed point
func (si *SpatialIndex) Reset() {
	si.tree = rtreego.NewTree(2, 25, 50)
	si.exact = make(map[Position]NodeID)
}
