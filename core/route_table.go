package core

import (
	"maps"
	"slices"

	"github.com/encodeous/dvsim/state"
)

// RouteEntry is a value copy of one route. NextHop is state.NoHop for the self entry.
type RouteEntry struct {
	Dest    state.NodeId
	Cost    int
	NextHop state.NodeId
	// Forget is the number of rounds left before the entry is purged unless refreshed
	Forget int
}

type tableListener func(event RouterEvent, entry RouteEntry)

// RouteTable holds the best known route to every destination of one node. It is only mutated
// by its owning Node; everything it hands out is a copy.
type RouteTable struct {
	self        state.NodeId
	infinity    int
	forgetAfter int
	routes      map[state.NodeId]*RouteEntry
	notify      tableListener
}

func NewRouteTable(self state.NodeId, infinity, forgetAfter int, notify tableListener) *RouteTable {
	t := &RouteTable{
		self:        self,
		infinity:    infinity,
		forgetAfter: forgetAfter,
		routes:      make(map[state.NodeId]*RouteEntry),
		notify:      notify,
	}
	t.routes[self] = &RouteEntry{
		Dest:    self,
		Cost:    0,
		NextHop: state.NoHop,
	}
	return t
}

func (t *RouteTable) changed(event RouterEvent, entry RouteEntry) {
	if t.notify != nil {
		t.notify(event, entry)
	}
}

// Cost returns the cost to dest, or the infinity cost if there is no route. Asking for a cost is
// a keep-alive: the entry's forget counter is reset.
func (t *RouteTable) Cost(dest state.NodeId) int {
	e, ok := t.routes[dest]
	if !ok {
		return t.infinity
	}
	if dest != t.self {
		e.Forget = t.forgetAfter
	}
	return e.Cost
}

// Peek returns the entry for dest without refreshing it
func (t *RouteTable) Peek(dest state.NodeId) (RouteEntry, bool) {
	e, ok := t.routes[dest]
	if !ok {
		return RouteEntry{}, false
	}
	return *e, true
}

// Costs returns a snapshot of every entry, safe to hand to another node
func (t *RouteTable) Costs() map[state.NodeId]RouteEntry {
	out := make(map[state.NodeId]RouteEntry, len(t.routes))
	for dest, e := range t.routes {
		out[dest] = *e
	}
	return out
}

// Entries returns copies of all entries ordered by destination
func (t *RouteTable) Entries() []RouteEntry {
	out := make([]RouteEntry, 0, len(t.routes))
	for _, dest := range slices.Sorted(maps.Keys(t.routes)) {
		out = append(out, *t.routes[dest])
	}
	return out
}

func (t *RouteTable) Len() int {
	return len(t.routes)
}

// Log inserts or overwrites the route to dest. The self entry is never overwritten, and a cost at or
// above infinity withdraws the route instead of storing it.
func (t *RouteTable) Log(dest state.NodeId, cost int, nextHop state.NodeId) {
	if dest == t.self {
		return
	}
	if cost >= t.infinity {
		t.Drop(dest)
		return
	}
	old, exists := t.routes[dest]
	entry := &RouteEntry{
		Dest:    dest,
		Cost:    max(cost, 0),
		NextHop: nextHop,
		Forget:  t.forgetAfter,
	}
	t.routes[dest] = entry

	switch {
	case !exists:
		t.changed(RouteAdded, *entry)
	case entry.Cost < old.Cost:
		t.changed(RouteImproved, *entry)
	case entry.Cost > old.Cost:
		t.changed(RouteWorsened, *entry)
	case entry.NextHop != old.NextHop:
		t.changed(RouteSwitched, *entry)
	}
}

// Drop withdraws the route to dest, reporting whether there was one
func (t *RouteTable) Drop(dest state.NodeId) bool {
	if dest == t.self {
		return false
	}
	e, ok := t.routes[dest]
	if !ok {
		return false
	}
	delete(t.routes, dest)
	t.changed(RouteRetracted, *e)
	return true
}

// Age decrements the forget counter of every route except the self entry. Routes reaching zero were
// not refreshed for forgetAfter rounds and are purged. It returns the number of routes that were not
// refreshed since the previous call.
func (t *RouteTable) Age() int {
	stale := 0
	for _, dest := range slices.Sorted(maps.Keys(t.routes)) {
		if dest == t.self {
			continue
		}
		e := t.routes[dest]
		if e.Forget < t.forgetAfter {
			stale++
		}
		e.Forget--
		if e.Forget <= 0 {
			delete(t.routes, dest)
			t.changed(StaleRouteDropped, *e)
		}
	}
	return stale
}

// RemoveNeighbour withdraws the route to neigh and every route whose next hop is neigh
func (t *RouteTable) RemoveNeighbour(neigh state.NodeId) {
	if neigh == t.self {
		return
	}
	for _, dest := range slices.Sorted(maps.Keys(t.routes)) {
		e := t.routes[dest]
		if dest == neigh || e.NextHop == neigh {
			delete(t.routes, dest)
			t.changed(RouteFlushed, *e)
		}
	}
}
