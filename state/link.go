package state

import (
	"fmt"
	"maps"
	"slices"
)

// Link is a read-only copy of one registry entry
type Link struct {
	A, B NodeId
	Cost int
}

func (l Link) Up() bool {
	return l.Cost >= 0
}

func (l Link) String() string {
	return fmt.Sprintf("(%d <-%d-> %d)", l.A, l.Cost, l.B)
}

// LinkView is the read-only side of the link registry handed to nodes.
type LinkView interface {
	Cost(a, b NodeId) int
	Adjacent(id NodeId) []NodeId
}

// LinkRegistry owns the cost of every node pair. Links are undirected: (a, b) and (b, a) are the same link.
// A pair that was never configured has cost LinkDown.
type LinkRegistry struct {
	nodes int
	costs map[Pair[NodeId, NodeId]]int
}

func NewLinkRegistry(nodes int) *LinkRegistry {
	return &LinkRegistry{
		nodes: nodes,
		costs: make(map[Pair[NodeId, NodeId]]int),
	}
}

func linkKey(a, b NodeId) Pair[NodeId, NodeId] {
	if b < a {
		a, b = b, a
	}
	return Pair[NodeId, NodeId]{a, b}
}

func (r *LinkRegistry) Cost(a, b NodeId) int {
	if a == b {
		return 0
	}
	cost, ok := r.costs[linkKey(a, b)]
	if !ok {
		return LinkDown
	}
	return cost
}

// SetCost sets the cost of the link between a and b, creating it if needed, and returns the previous cost.
// Costs below LinkDown are stored as LinkDown.
func (r *LinkRegistry) SetCost(a, b NodeId, cost int) int {
	if a == b {
		return 0
	}
	old := r.Cost(a, b)
	r.costs[linkKey(a, b)] = max(cost, LinkDown)
	return old
}

// Adjacent lists every node that shares a configured link with id, whatever its current cost, in ascending order.
func (r *LinkRegistry) Adjacent(id NodeId) []NodeId {
	adj := make([]NodeId, 0)
	for k := range r.costs {
		if k.V1 == id {
			adj = append(adj, k.V2)
		} else if k.V2 == id {
			adj = append(adj, k.V1)
		}
	}
	slices.Sort(adj)
	return adj
}

// Links returns a copy of every configured link, ordered by endpoints
func (r *LinkRegistry) Links() []Link {
	keys := slices.Collect(maps.Keys(r.costs))
	SortPairs(keys)
	links := make([]Link, 0, len(keys))
	for _, k := range keys {
		links = append(links, Link{A: k.V1, B: k.V2, Cost: r.costs[k]})
	}
	return links
}

// Matrix returns the current cost matrix; m[i][i] is 0, unconnected pairs are LinkDown.
func (r *LinkRegistry) Matrix() [][]int {
	m := make([][]int, r.nodes)
	for i := range m {
		m[i] = make([]int, r.nodes)
		for j := range m[i] {
			m[i][j] = r.Cost(NodeId(i), NodeId(j))
		}
	}
	return m
}

func (r *LinkRegistry) Nodes() int {
	return r.nodes
}
