package core

import (
	"fmt"
	"strings"

	"github.com/encodeous/dvsim/state"
)

type RouteStatus int

const (
	Reachable RouteStatus = iota
	// NoRoute means some node on the walk has no next hop towards the destination
	NoRoute
	// RouteLoop means the walk revisited a node; a transient state while the network converges
	RouteLoop
	// NodeDown means the walk reached a failed router
	NodeDown
)

func (s RouteStatus) String() string {
	switch s {
	case Reachable:
		return "reachable"
	case NoRoute:
		return "no route"
	case RouteLoop:
		return "routing loop"
	case NodeDown:
		return "node down"
	}
	return "unknown"
}

// BestRoute is the result of following next hops from From to To. Path holds every node visited,
// including the one where the walk stopped.
type BestRoute struct {
	From, To state.NodeId
	Path     []state.NodeId
	Cost     int
	Status   RouteStatus
}

func (r BestRoute) Reachable() bool {
	return r.Status == Reachable
}

func (r BestRoute) String() string {
	hops := make([]string, 0, len(r.Path))
	for _, id := range r.Path {
		hops = append(hops, id.String())
	}
	if !r.Reachable() {
		return fmt.Sprintf("%d -> %d unreachable (%s): %s", r.From, r.To, r.Status, strings.Join(hops, " -> "))
	}
	return fmt.Sprintf("%d -> %d cost %d: %s", r.From, r.To, r.Cost, strings.Join(hops, " -> "))
}

// walkBestRoute follows next hops using each visited node's current table. Tables are read without
// refreshing forget counters so that observing the network does not change it.
func walkBestRoute(nodes []*Node, from, to state.NodeId) BestRoute {
	res := BestRoute{From: from, To: to, Path: []state.NodeId{from}, Status: Reachable}
	visited := map[state.NodeId]struct{}{from: {}}

	cur := from
	for {
		n := nodes[cur]
		if !n.Active() {
			res.Status = NodeDown
			return res
		}
		if cur == to {
			break
		}
		e, ok := n.Route(to)
		if !ok || e.NextHop == state.NoHop {
			res.Status = NoRoute
			return res
		}
		next := e.NextHop
		res.Path = append(res.Path, next)
		if _, seen := visited[next]; seen {
			res.Status = RouteLoop
			return res
		}
		visited[next] = struct{}{}
		cur = next
	}

	if e, ok := nodes[from].Route(to); ok {
		res.Cost = e.Cost
	}
	return res
}
