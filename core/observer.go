package core

import "github.com/encodeous/dvsim/state"

// RoundReport summarizes one closed exchange
type RoundReport struct {
	Exchange int
	// Stable is true when no route table changed, every route was refreshed and no event moved the
	// topology during the round
	Stable   bool
	Changed  []state.NodeId
	// Stale counts routes that went the round without a refresh from their next hop
	Stale    int
	Messages int
}

// Observer is notified of everything the simulator wants displayed. It must not call back into the
// simulator's mutating methods.
type Observer interface {
	RoundClosed(report RoundReport)
	TableTraced(exchange int, node state.NodeId, entries []RouteEntry)
	BestRouteShown(exchange int, route BestRoute)
	LinkChanged(exchange int, link state.Link, oldCost int)
	StatusChanged(exchange int, node state.NodeId, status state.NodeStatus)
}

// NopObserver ignores every notification; embed it to implement only part of Observer
type NopObserver struct{}

func (NopObserver) RoundClosed(RoundReport)                           {}
func (NopObserver) TableTraced(int, state.NodeId, []RouteEntry)       {}
func (NopObserver) BestRouteShown(int, BestRoute)                     {}
func (NopObserver) LinkChanged(int, state.Link, int)                  {}
func (NopObserver) StatusChanged(int, state.NodeId, state.NodeStatus) {}
