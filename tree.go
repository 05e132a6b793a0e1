package main

// NodeID addresses a node in the tree arena.
type NodeID int

// NoParent marks the root's parent link.
const NoParent NodeID = -1

// maxPropagationDepth bounds the breadth-first descendant walk.
const maxPropagationDepth = 100

// TreeNode represents one accepted sample in the growing tree
type TreeNode struct {
	ID       NodeID   `json:"id"`
	Pos      Position `json:"pos"`
	Cost     float64  `json:"cost"` // cost-to-come from the root
	Parent   NodeID   `json:"parent"`
	Children []NodeID `json:"children"`
}

// Tree owns every node of a planning session
type Tree struct {
	nodes []TreeNode
}

// NewTree creates an empty arena
func NewTree() *Tree {
	return &Tree{nodes: make([]TreeNode, 0, 64)}
}

// Len returns the number of nodes
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Reset drops every node
func (t *Tree) Reset() {
	t.nodes = t.nodes[:0]
}

// Add creates a detached node at pos and returns its id
func (t *Tree) Add(pos Position) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, TreeNode{
		ID:     id,
		Pos:    pos,
		Parent: NoParent,
	})
	return id
}

// Node returns a pointer into the arena; it is invalidated by the next Add.
func (t *Tree) Node(id NodeID) *TreeNode {
	return &t.nodes[id]
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// HasEdge reports whether child is listed under parent
func (t *Tree) HasEdge(parent, child NodeID) bool {
	if !t.valid(parent) || !t.valid(child) {
		return false
	}
	for _, c := range t.nodes[parent].Children {
		if c == child {
			return true
		}
	}
	return false
}

// AddEdge makes parent the parent of child. Self-loops and coincident positions are refused.
func (t *Tree) AddEdge(parent, child NodeID) bool {
	if !t.valid(parent) || !t.valid(child) || parent == child {
		return false
	}
	if t.nodes[parent].Pos == t.nodes[child].Pos {
		return false
	}
	if !t.HasEdge(parent, child) {
		t.nodes[parent].Children = append(t.nodes[parent].Children, child)
	}
	t.nodes[child].Parent = parent
	return true
}

// RemoveEdge detaches child from parent; false when the link did not exist
func (t *Tree) RemoveEdge(parent, child NodeID) bool {
	if !t.valid(parent) || !t.valid(child) {
		return false
	}

	children := t.nodes[parent].Children
	removed := false
	for i := 0; i < len(children); i++ {
		if children[i] == child {
			children = append(children[:i], children[i+1:]...)
			i--
			removed = true
		}
	}
	t.nodes[parent].Children = children
	if removed {
		t.nodes[child].Parent = NoParent
	}
	return removed
}

// Descendants lists every node below id, breadth first, stopping after maxPropagationDepth levels
func (t *Tree) Descendants(id NodeID) []NodeID {
	var out []NodeID
	level := []NodeID{id}

	for depth := 0; len(level) > 0 && depth < maxPropagationDepth; depth++ {
		var next []NodeID
		for _, n := range level {
			next = append(next, t.nodes[n].Children...)
		}
		out = append(out, next...)
		level = next
	}

	return out
}

// PropagateCost subtracts delta from the cost of every descendant of id
func (t *Tree) PropagateCost(id NodeID, delta float64) {
	for _, d := range t.Descendants(id) {
		t.nodes[d].Cost -= delta
	}
}

// Ancestor walks parent links from id up to the root
func (t *Tree) Ancestor(id NodeID) NodeID {
	for steps := 0; t.nodes[id].Parent != NoParent && steps < len(t.nodes); steps++ {
		id = t.nodes[id].Parent
	}
	return id
}

// IsAncestor reports whether anc lies on the parent chain of id (id included)
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	for steps := 0; id != NoParent && steps <= len(t.nodes); steps++ {
		if id == anc {
			return true
		}
		id = t.nodes[id].Parent
	}
	return false
}

// PathToRoot returns id followed by each of its ancestors up to the root
func (t *Tree) PathToRoot(id NodeID) []NodeID {
	chain := []NodeID{}
	for steps := 0; id != NoParent && steps < len(t.nodes); steps++ {
		chain = append(chain, id)
		id = t.nodes[id].Parent
	}
	return chain
}

// Snapshot copies the arena so callers can render it without touching planner state
func (t *Tree) Snapshot() []TreeNode {
	out := make([]TreeNode, len(t.nodes))
	for i, n := range t.nodes {
		n.Children = append([]NodeID(nil), n.Children...)
		out[i] = n
	}
	return out
}
