package core

import (
	"fmt"

	"github.com/encodeous/dvsim/state"
)

// Event is an action bound to an exchange index. It fires after that exchange's messages have
// settled, before the round closes. The concrete types below are the only implementations.
type Event interface {
	fmt.Stringer
	event()
}

// LinkCostChange sets the cost of the link between A and B. Costs below state.LinkDown are clamped.
type LinkCostChange struct {
	A, B state.NodeId
	Cost int
}

// ShowBestRoute walks the next-hop chain from From towards To
type ShowBestRoute struct {
	From, To state.NodeId
}

// TraceRouteTable dumps the table of Node at every exchange in [Start, End)
type TraceRouteTable struct {
	Node       state.NodeId
	Start, End int
}

// NodeStatusChange crashes or recovers a router without removing it from the topology
type NodeStatusChange struct {
	Node   state.NodeId
	Status state.NodeStatus
}

func (LinkCostChange) event()   {}
func (ShowBestRoute) event()    {}
func (TraceRouteTable) event()  {}
func (NodeStatusChange) event() {}

func (e LinkCostChange) String() string {
	return fmt.Sprintf("LinkCostChange(%d, %d -> %d)", e.A, e.B, e.Cost)
}

func (e ShowBestRoute) String() string {
	return fmt.Sprintf("ShowBestRoute(%d -> %d)", e.From, e.To)
}

func (e TraceRouteTable) String() string {
	return fmt.Sprintf("TraceRouteTable(%d, [%d, %d))", e.Node, e.Start, e.End)
}

func (e NodeStatusChange) String() string {
	return fmt.Sprintf("NodeStatusChange(%d, %s)", e.Node, e.Status)
}

// changesTopology reports whether firing ev can move the network away from a fixed point
func changesTopology(ev Event) bool {
	switch ev.(type) {
	case LinkCostChange, NodeStatusChange:
		return true
	}
	return false
}

// EventFromDirective translates a validated directive into an event and its exchange index
func EventFromDirective(d state.DirectiveCfg) (int, Event, error) {
	switch {
	case d.LinkCost != nil:
		return d.At, LinkCostChange{A: d.LinkCost.From, B: d.LinkCost.To, Cost: d.LinkCost.Cost}, nil
	case d.BestRoute != nil:
		return d.At, ShowBestRoute{From: d.BestRoute.From, To: d.BestRoute.To}, nil
	case d.Trace != nil:
		return d.At, TraceRouteTable{Node: d.Trace.Node, Start: d.At, End: d.Trace.Until}, nil
	case d.NodeStatus != nil:
		status, ok := state.ParseNodeStatus(d.NodeStatus.Status)
		if !ok {
			return 0, nil, fmt.Errorf("unknown status %q", d.NodeStatus.Status)
		}
		return d.At, NodeStatusChange{Node: d.NodeStatus.Node, Status: status}, nil
	}
	return 0, nil, fmt.Errorf("directive at %d has no action", d.At)
}
