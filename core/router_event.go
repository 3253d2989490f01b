package core

import "github.com/encodeous/dvsim/state"

type RouterEvent int

// trace events

const (
	RouteAdded RouterEvent = iota
	RouteImproved
	RouteWorsened
	RouteSwitched
	RouteRetracted
	RouteFlushed
	StaleRouteDropped
	NeighbourFound
	NeighbourLost
	LinkCostChanged
	NodeStatusChanged
)

// warn events

const (
	InconsistentState RouterEvent = iota + 1000
	ScheduleOutOfRange
	CostClamped
	UnknownCommand
)

func (e RouterEvent) IsWarning() bool {
	return e >= InconsistentState
}

func (e RouterEvent) String() string {
	switch e {
	case RouteAdded:
		return "RouteAdded"
	case RouteImproved:
		return "RouteImproved"
	case RouteWorsened:
		return "RouteWorsened"
	case RouteSwitched:
		return "RouteSwitched"
	case RouteRetracted:
		return "RouteRetracted"
	case RouteFlushed:
		return "RouteFlushed"
	case StaleRouteDropped:
		return "StaleRouteDropped"
	case NeighbourFound:
		return "NeighbourFound"
	case NeighbourLost:
		return "NeighbourLost"
	case LinkCostChanged:
		return "LinkCostChanged"
	case NodeStatusChanged:
		return "NodeStatusChanged"
	case InconsistentState:
		return "InconsistentState"
	case ScheduleOutOfRange:
		return "ScheduleOutOfRange"
	case CostClamped:
		return "CostClamped"
	case UnknownCommand:
		return "UnknownCommand"
	}
	return "RouterEvent(?)"
}

// Listener receives everything a node reports upwards. The Simulator implements it.
type Listener interface {
	// OnRouteTableUpdate is called whenever the route table of node id changed
	OnRouteTableUpdate(id state.NodeId)
	Log(event RouterEvent, desc string, args ...any)
}
