package core

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/encodeous/dvsim/state"
	"github.com/google/go-cmp/cmp"
)

type HarnessEvent struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) HarnessEvent {
	return HarnessEvent{
		Message: msg,
		Args:    args,
	}
}

// RouterHarness records everything nodes and the simulator report. It implements both Listener and
// Observer.
type RouterHarness struct {
	actions []HarnessEvent
	traces  []int
	routes  []BestRoute
	reports []RoundReport
}

func (h *RouterHarness) OnRouteTableUpdate(id state.NodeId) {
	h.actions = append(h.actions, MakeEvent("TABLE_UPDATE", id))
}

func (h *RouterHarness) Log(event RouterEvent, desc string, args ...any) {
	x := make([]any, 0)
	x = append(x, event)
	x = append(x, desc)
	x = append(x, args...)
	h.actions = append(h.actions, MakeEvent("LOG", x...))
}

func (h *RouterHarness) RoundClosed(report RoundReport) {
	h.reports = append(h.reports, report)
}

func (h *RouterHarness) TableTraced(exchange int, node state.NodeId, entries []RouteEntry) {
	h.traces = append(h.traces, exchange)
	h.actions = append(h.actions, MakeEvent("TRACE", exchange, node, len(entries)))
}

func (h *RouterHarness) BestRouteShown(exchange int, route BestRoute) {
	h.routes = append(h.routes, route)
	h.actions = append(h.actions, MakeEvent("BEST_ROUTE", exchange, route.String()))
}

func (h *RouterHarness) LinkChanged(exchange int, link state.Link, oldCost int) {
	h.actions = append(h.actions, MakeEvent("LINK", exchange, link, oldCost))
}

func (h *RouterHarness) StatusChanged(exchange int, node state.NodeId, status state.NodeStatus) {
	h.actions = append(h.actions, MakeEvent("STATUS", exchange, node, status))
}

type HarnessEvents []HarnessEvent

func (h HarnessEvents) String() string {
	out := make([]string, 0)
	for _, action := range h {
		cur := action.Message
		for _, arg := range action.Args {
			cur += " " + fmt.Sprint(arg)
		}
		out = append(out, cur)
	}
	slices.Sort(out)
	return strings.Join(out, "\n")
}

// GetActions returns and clears the recorded actions, leaving out LOG entries
func (h *RouterHarness) GetActions() HarnessEvents {
	x := make([]HarnessEvent, 0)
	for _, action := range h.actions {
		if action.Message != "LOG" {
			x = append(x, action)
		}
	}

	h.actions = make([]HarnessEvent, 0)
	return x
}

// GetLogs returns and clears every recorded action, LOG entries included
func (h *RouterHarness) GetLogs() HarnessEvents {
	x := h.actions
	h.actions = make([]HarnessEvent, 0)
	return x
}

func (e HarnessEvents) contains(msg string, args ...any) bool {
	for _, event := range e {
		if event.Message == msg {
			if len(event.Args) >= len(args) {
				match := true
				for i, arg := range args {
					if !cmp.Equal(event.Args[i], arg) {
						match = false
						break
					}
				}
				if match {
					return true
				}
			}
		}
	}
	return false
}

func (e HarnessEvents) AssertContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		return
	}
	t.Fatal("Expected event not found: ", msg, " with args: ", args, " in ", e)
}

func (e HarnessEvents) AssertNotContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		t.Fatal("Unexpected event found: ", msg, " with args: ", args, " in ", e)
	}
}

// MakeNodes builds n unconnected nodes sharing one registry, all reporting to h
func MakeNodes(h *RouterHarness, links *state.LinkRegistry, n int, splitHorizon bool) []*Node {
	nodes := make([]*Node, 0, n)
	for i := 0; i < n; i++ {
		nodes = append(nodes, NewNode(state.NodeId(i), links, NodeOpts{
			InfinityCost: 16,
			ForgetAfter:  3,
			SplitHorizon: splitHorizon,
		}, h))
	}
	return nodes
}

func AddLink(links *state.LinkRegistry, nodes []*Node, a, b state.NodeId, cost int) {
	links.SetCost(a, b, cost)
	nodes[a].Connect(b)
	nodes[b].Connect(a)
}

func MakeAdvert(from, to state.NodeId, costs map[state.NodeId]int) Advert {
	return Advert{From: from, To: to, Costs: costs}
}

// LineConfig is 0 -1- 1 -1- 2
func LineConfig() *state.SimCfg {
	cfg := state.DefaultConfig()
	cfg.Nodes = 3
	cfg.MaxExchanges = 30
	cfg.Links = []state.LinkCfg{
		{From: 0, To: 1, Cost: 1},
		{From: 1, To: 2, Cost: 1},
	}
	return &cfg
}

func StringTable(entries []RouteEntry) string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%d via %s cost %d", e.Dest, e.NextHop, e.Cost))
	}
	return strings.Join(out, "\n")
}
