package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"time"
)

// DefaultTheta is the exploration constant of the ball radius.
const DefaultTheta = 10.0

var (
	// ErrNotInitialized indicates Extend was called before Init.
	ErrNotInitialized = errors.New("planner: session not initialized")
	// ErrOutOfBounds indicates a start or goal outside the workspace.
	ErrOutOfBounds = errors.New("planner: position outside workspace")
	// ErrNoViableSample indicates the resample budget ran out without accepting a node.
	ErrNoViableSample = errors.New("planner: no viable sample found")
)

// Planner incrementally grows an FMT*/RRT*-style tree over a 2D occupancy grid.
// It is not safe for concurrent use; callers serialise Init, Extend and FindPath.
type Planner struct {
	width         int
	height        int
	segmentLength float64
	theta         float64
	rangeLen      float64
	ballRadius    float64
	iteration     int
	maxAttempts   int

	obstacles ObstacleGrid
	costs     CostGrid
	costFunc  CostFunc

	tree  *Tree
	index *SpatialIndex
	root  NodeID
	start Position
	goal  Position
	ready bool

	rng    *rand.Rand
	logger *log.Logger
}

// Option configures a Planner
type Option func(*Planner)

// WithTheta overrides the exploration constant of the ball radius
func WithTheta(theta float64) Option {
	return func(p *Planner) { p.theta = theta }
}

// WithRand supplies the random source used for sampling
func WithRand(rng *rand.Rand) Option {
	return func(p *Planner) { p.rng = rng }
}

// WithMaxResampleAttempts bounds how many rejected samples a single Extend tolerates.
// Zero keeps the unbounded retry loop.
func WithMaxResampleAttempts(n int) Option {
	return func(p *Planner) { p.maxAttempts = n }
}

// WithLogger routes planner diagnostics to logger
func WithLogger(logger *log.Logger) Option {
	return func(p *Planner) { p.logger = logger }
}

// NewPlanner creates a planner for a width x height workspace with an all-free obstacle grid
func NewPlanner(width, height int, segmentLength float64, opts ...Option) (*Planner, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if segmentLength <= 0 {
		return nil, fmt.Errorf("planner: segment length must be positive, got %v", segmentLength)
	}

	p := &Planner{
		width:         width,
		height:        height,
		segmentLength: segmentLength,
		theta:         DefaultTheta,
		rangeLen:      float64(max(width, height)),
		obstacles:     NewObstacleGrid(width, height),
		tree:          NewTree(),
		index:         NewSpatialIndex(),
		root:          NoParent,
		logger:        log.Default(),
	}
	p.ballRadius = p.rangeLen

	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return p, nil
}

// Width implements CostContext
func (p *Planner) Width() int { return p.width }

// Height implements CostContext
func (p *Planner) Height() int { return p.height }

// SegmentLength implements CostContext
func (p *Planner) SegmentLength() float64 { return p.segmentLength }

// LoadMap installs the obstacle grid. The grid is borrowed, not copied, and must
// not change while the session is planning.
func (p *Planner) LoadMap(grid ObstacleGrid) error {
	err := checkShape(p.width, p.height, func(x int) int { return len(grid[x]) }, len(grid))
	if err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	p.obstacles = grid
	return nil
}

// Obstacles returns the obstacle grid in use
func (p *Planner) Obstacles() ObstacleGrid {
	return p.obstacles
}

// Init resets the session to a single root node at start. costs is copied; nil means
// no distribution. A nil costFunc selects EuclideanCost.
func (p *Planner) Init(start, goal Position, costFunc CostFunc, costs CostGrid) (NodeID, error) {
	if !InWorkspace(start, p.width, p.height) {
		return NoParent, fmt.Errorf("%w: start (%v, %v)", ErrOutOfBounds, start.X, start.Y)
	}
	if !InWorkspace(goal, p.width, p.height) {
		return NoParent, fmt.Errorf("%w: goal (%v, %v)", ErrOutOfBounds, goal.X, goal.Y)
	}
	if costs != nil {
		err := checkShape(p.width, p.height, func(x int) int { return len(costs[x]) }, len(costs))
		if err != nil {
			return NoParent, fmt.Errorf("cost distribution: %w", err)
		}
	}
	if costFunc == nil {
		costFunc = EuclideanCost
	}

	p.start = start
	p.goal = goal
	p.costFunc = costFunc
	p.costs = costs.Clone()

	p.tree.Reset()
	p.index.Reset()
	p.root = p.tree.Add(start)
	p.index.Insert(start, p.root)

	p.iteration = 0
	p.ballRadius = p.rangeLen
	p.ready = true

	return p.root, nil
}

// Extend grows the tree by exactly one accepted node, resampling until one is found
// or the resample budget (if any) is exhausted.
func (p *Planner) Extend() error {
	if !p.ready {
		return ErrNotInitialized
	}

	for attempts := 0; !p.tryExtend(); attempts++ {
		if p.maxAttempts > 0 && attempts+1 >= p.maxAttempts {
			return fmt.Errorf("%w after %d attempts", ErrNoViableSample, attempts+1)
		}
	}

	p.iteration++
	return nil
}

// tryExtend performs one sample-steer-connect attempt and reports whether a node was added
func (p *Planner) tryExtend() bool {
	sample := p.sample()

	nearest, ok := p.index.Nearest(sample)
	if !ok || sample == nearest.Pos {
		return false
	}

	candidate := Steer(sample, nearest.Pos, p.segmentLength)
	if p.index.Contains(candidate) || p.obstacles.IsInObstacle(candidate) {
		return false
	}
	if !p.obstacles.IsObstacleFree(nearest.Pos, candidate) {
		return false
	}

	near := p.findNear(candidate)

	id := p.tree.Add(candidate)
	p.index.Insert(candidate, id)

	p.attachNewNode(id, nearest.Node, near)
	p.rewireNearNodes(id, near)

	return true
}

// sample draws a uniform real-valued position in [0, width) x [0, height)
func (p *Planner) sample() Position {
	return Position{
		X: p.rng.Float64() * float64(p.width),
		Y: p.rng.Float64() * float64(p.height),
	}
}

// BallRadius computes theta * span * sqrt(ln(n+1) / (n+1)); it is 0 at n = 0.
func BallRadius(theta, span float64, n int) float64 {
	count := float64(n) + 1
	return theta * span * math.Sqrt(math.Log(count)/count)
}

// findNear recomputes the ball radius from the current index size and queries it
func (p *Planner) findNear(pos Position) []PointEntry {
	p.ballRadius = BallRadius(p.theta, p.rangeLen, p.index.Len())
	return p.index.WithinRadius(pos, p.ballRadius)
}

func (p *Planner) cost(a, b Position) float64 {
	return p.costFunc(a, b, p.costs, p)
}

// attachNewNode parents id under the cheapest visible candidate, defaulting to nearest
func (p *Planner) attachNewNode(id, nearest NodeID, near []PointEntry) {
	pos := p.tree.Node(id).Pos

	best := nearest
	bestCost := p.tree.Node(nearest).Cost + p.cost(p.tree.Node(nearest).Pos, pos)

	for _, entry := range near {
		n := p.tree.Node(entry.Node)
		if !p.obstacles.IsObstacleFree(n.Pos, pos) {
			continue
		}
		c := n.Cost + p.cost(n.Pos, pos)
		if c < bestCost {
			best = entry.Node
			bestCost = c
		}
	}

	if p.tree.AddEdge(best, id) {
		p.tree.Node(id).Cost = bestCost
	}
}

// rewireNearNodes re-parents near nodes under id when that strictly lowers their cost
func (p *Planner) rewireNearNodes(id NodeID, near []PointEntry) {
	newNode := p.tree.Node(id)

	for _, entry := range near {
		nearID := entry.Node
		if nearID == id || nearID == p.root || nearID == newNode.Parent {
			continue
		}
		// Re-parenting an ancestor of id would close a cycle.
		if p.tree.IsAncestor(nearID, id) {
			continue
		}

		nearNode := p.tree.Node(nearID)
		if !p.obstacles.IsObstacleFree(newNode.Pos, nearNode.Pos) {
			continue
		}

		newCost := newNode.Cost + p.cost(newNode.Pos, nearNode.Pos)
		if newCost >= nearNode.Cost {
			continue
		}
		delta := nearNode.Cost - newCost

		oldParent := nearNode.Parent
		if !p.tree.RemoveEdge(oldParent, nearID) {
			p.logger.Printf("⚠️  Failed to remove edge %d -> %d during rewire\n", oldParent, nearID)
			continue
		}
		if !p.tree.AddEdge(id, nearID) {
			p.tree.AddEdge(oldParent, nearID)
			continue
		}

		nearNode.Cost = newCost
		p.tree.PropagateCost(nearID, delta)

		if p.tree.Ancestor(nearID) != p.root {
			p.logger.Printf("⚠️  Node %d lost its path to the root during rewire\n", nearID)
		}
	}
}

// FindPath extracts the cheapest path from the root to the goal through the goal's
// near-set. The result is empty (zero cost) when no visible tree node is near the goal.
func (p *Planner) FindPath() Path {
	path := Path{Start: p.start, Goal: p.goal, Waypoints: []Position{}}
	if !p.ready {
		return path
	}

	best := NoParent
	bestTotal := math.MaxFloat64

	for _, entry := range p.findNear(p.goal) {
		n := p.tree.Node(entry.Node)
		if !p.obstacles.IsObstacleFree(n.Pos, p.goal) {
			continue
		}
		total := n.Cost + p.cost(n.Pos, p.goal)
		if total < bestTotal {
			best = entry.Node
			bestTotal = total
		}
	}

	if best == NoParent {
		return path
	}

	chain := p.tree.PathToRoot(best)
	for i := len(chain) - 1; i >= 0; i-- {
		path.Waypoints = append(path.Waypoints, p.tree.Node(chain[i]).Pos)
	}
	path.Waypoints = append(path.Waypoints, p.goal)
	path.Cost = bestTotal

	return path
}

// NodeCount returns the number of nodes in the tree
func (p *Planner) NodeCount() int {
	return p.tree.Len()
}

// BallRadius returns the radius used by the most recent near-set query
func (p *Planner) BallRadius() float64 {
	return p.ballRadius
}

// Iteration returns how many Extend calls have succeeded since Init
func (p *Planner) Iteration() int {
	return p.iteration
}

// Root returns the root node id, or NoParent before Init
func (p *Planner) Root() NodeID {
	return p.root
}

// Start returns the session start position
func (p *Planner) Start() Position {
	return p.start
}

// Goal returns the session goal position
func (p *Planner) Goal() Position {
	return p.goal
}

// Node returns a copy of one node
func (p *Planner) Node(id NodeID) (TreeNode, bool) {
	if !p.tree.valid(id) {
		return TreeNode{}, false
	}
	n := *p.tree.Node(id)
	n.Children = append([]NodeID(nil), n.Children...)
	return n, true
}

// Nodes returns a copy of the node arena for rendering
func (p *Planner) Nodes() []TreeNode {
	return p.tree.Snapshot()
}

// Edges returns every parent-child link as a segment
func (p *Planner) Edges() [][2]Position {
	edges := make([][2]Position, 0, p.tree.Len())
	for _, n := range p.tree.nodes {
		if n.Parent == NoParent {
			continue
		}
		edges = append(edges, [2]Position{p.tree.Node(n.Parent).Pos, n.Pos})
	}
	return edges
}

// DumpDistribution writes the copied cost distribution; nothing is written when absent
func (p *Planner) DumpDistribution(w io.Writer) error {
	if p.costs == nil {
		return nil
	}
	return p.costs.Dump(w)
}
