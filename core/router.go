package core

import (
	"maps"
	"slices"

	"github.com/encodeous/dvsim/state"
)

// Advert is one routing update in flight: the costs From is willing to advertise to To.
// Costs is owned by the advert; the sender keeps no reference to it.
type Advert struct {
	From  state.NodeId
	To    state.NodeId
	Costs map[state.NodeId]int
}

type NodeOpts struct {
	InfinityCost int
	ForgetAfter  int
	SplitHorizon bool
}

// Node is a single distance-vector router. It owns its route table and reads link costs through a
// read-only view of the link registry.
type Node struct {
	Id           state.NodeId
	Status       state.NodeStatus
	SplitHorizon bool

	infinity   int
	table      *RouteTable
	links      state.LinkView
	neighbours map[state.NodeId]struct{}
	inbox      []Advert
	stale      int
	l          Listener
}

func NewNode(id state.NodeId, links state.LinkView, opts NodeOpts, l Listener) *Node {
	n := &Node{
		Id:           id,
		Status:       state.Active,
		SplitHorizon: opts.SplitHorizon,
		infinity:     opts.InfinityCost,
		links:        links,
		neighbours:   make(map[state.NodeId]struct{}),
		l:            l,
	}
	n.table = NewRouteTable(id, opts.InfinityCost, opts.ForgetAfter, n.onTableChange)
	return n
}

func (n *Node) onTableChange(event RouterEvent, e RouteEntry) {
	if n.l == nil {
		return
	}
	n.l.Log(event, "route table changed", "node", n.Id, "dest", e.Dest, "cost", e.Cost, "nh", e.NextHop)
	n.l.OnRouteTableUpdate(n.Id)
}

func (n *Node) log(event RouterEvent, desc string, args ...any) {
	if n.l != nil {
		n.l.Log(event, desc, append([]any{"node", n.Id}, args...)...)
	}
}

func (n *Node) Active() bool {
	return n.Status == state.Active
}

// Connect adds neigh to the neighbour set
func (n *Node) Connect(neigh state.NodeId) {
	if neigh == n.Id {
		return
	}
	if _, ok := n.neighbours[neigh]; ok {
		return
	}
	n.neighbours[neigh] = struct{}{}
	n.log(NeighbourFound, "neighbour found", "neigh", neigh, "cost", n.links.Cost(n.Id, neigh))
}

func (n *Node) IsNeighbour(id state.NodeId) bool {
	_, ok := n.neighbours[id]
	return ok
}

func (n *Node) Neighbours() []state.NodeId {
	return slices.Sorted(maps.Keys(n.neighbours))
}

func (n *Node) removeNeighbour(neigh state.NodeId) {
	if _, ok := n.neighbours[neigh]; !ok {
		return
	}
	delete(n.neighbours, neigh)
	n.log(NeighbourLost, "neighbour lost", "neigh", neigh)
	n.table.RemoveNeighbour(neigh)
}

// refreshNeighbours drops neighbours whose link failed and adopts configured links that came back up
func (n *Node) refreshNeighbours() {
	for _, neigh := range n.Neighbours() {
		if n.links.Cost(n.Id, neigh) < 0 {
			n.removeNeighbour(neigh)
		}
	}
	for _, adj := range n.links.Adjacent(n.Id) {
		if n.links.Cost(n.Id, adj) >= 0 {
			n.Connect(adj)
		}
	}
}

// Advertise runs the sending half of one exchange: detect failed links, age the table, then
// produce one advert per neighbour. An inactive node sends nothing.
func (n *Node) Advertise() []Advert {
	if !n.Active() {
		return nil
	}
	n.refreshNeighbours()
	n.stale = n.table.Age()

	out := make([]Advert, 0, len(n.neighbours))
	for _, neigh := range n.Neighbours() {
		out = append(out, Advert{
			From:  n.Id,
			To:    neigh,
			Costs: n.RoutesFor(neigh),
		})
	}
	return out
}

// RoutesFor returns the costs n advertises to requester. With split horizon, routes whose next hop
// is requester are left out.
func (n *Node) RoutesFor(requester state.NodeId) map[state.NodeId]int {
	snapshot := n.table.Costs()
	out := make(map[state.NodeId]int, len(snapshot))
	for dest, e := range snapshot {
		if n.SplitHorizon && e.NextHop == requester {
			continue
		}
		out[dest] = e.Cost
	}
	return out
}

// Enqueue places adv in the inbox; it is processed by the next Drain
func (n *Node) Enqueue(adv Advert) {
	n.inbox = append(n.inbox, adv)
}

// Stale returns how many routes went without a refresh before the last Advertise
func (n *Node) Stale() int {
	return n.stale
}

func (n *Node) Pending() int {
	return len(n.inbox)
}

// Drain processes every queued advert in arrival order. An inactive node discards its inbox.
func (n *Node) Drain() {
	inbox := n.inbox
	n.inbox = nil
	if !n.Active() {
		return
	}
	for _, adv := range inbox {
		n.handleCosts(adv)
	}
}

// Table returns a copy of the route table ordered by destination
func (n *Node) Table() []RouteEntry {
	return n.table.Entries()
}

// Route returns the current route to dest without refreshing it
func (n *Node) Route(dest state.NodeId) (RouteEntry, bool) {
	return n.table.Peek(dest)
}
