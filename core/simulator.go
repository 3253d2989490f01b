package core

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/encodeous/dvsim/perf"
	"github.com/encodeous/dvsim/state"
)

// Result describes how a run ended
type Result struct {
	// Exchanges is the number of rounds that ran
	Exchanges int
	// Converged is true when the run stopped early because the network was stable
	Converged bool
	// Stable reports whether the last round changed nothing
	Stable bool
}

// Simulator owns every node and drives exchange rounds. It is not safe for concurrent use: all
// message delivery happens synchronously on the caller's goroutine.
type Simulator struct {
	cfg          state.SimCfg
	links        *state.LinkRegistry
	nodes        []*Node
	schedule     map[int][]Event
	exchange     int
	stable       bool
	changed      map[state.NodeId]struct{}
	reports      []RoundReport
	splitHorizon bool
	observer     Observer
	commander    Commander
	log          *slog.Logger
}

// New builds a simulation from a scenario. An invalid scenario is rejected as a whole.
func New(cfg *state.SimCfg, logger *slog.Logger, obs Observer) (*Simulator, error) {
	err := state.ConfigValidator(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if obs == nil {
		obs = NopObserver{}
	}
	s := &Simulator{
		cfg:          *cfg,
		links:        state.NewLinkRegistry(cfg.Nodes),
		nodes:        make([]*Node, 0, cfg.Nodes),
		schedule:     make(map[int][]Event),
		stable:       true,
		changed:      make(map[state.NodeId]struct{}),
		splitHorizon: cfg.SplitHorizon,
		observer:     obs,
		log:          logger,
	}

	for _, link := range cfg.Links {
		s.links.SetCost(link.From, link.To, link.Cost)
	}

	for i := 0; i < cfg.Nodes; i++ {
		id := state.NodeId(i)
		opts := NodeOpts{
			InfinityCost: cfg.InfinityCost,
			ForgetAfter:  cfg.ForgetAfter,
			SplitHorizon: cfg.SplitHorizon,
		}
		o := cfg.Override(id)
		if o != nil && o.SplitHorizon != nil {
			opts.SplitHorizon = *o.SplitHorizon
		}
		n := NewNode(id, s.links, opts, s)
		if o != nil && o.Status != "" {
			n.Status, _ = state.ParseNodeStatus(o.Status)
		}
		s.nodes = append(s.nodes, n)
	}

	for _, n := range s.nodes {
		for _, adj := range s.links.Adjacent(n.Id) {
			if s.links.Cost(n.Id, adj) >= 0 {
				n.Connect(adj)
			}
		}
	}

	for _, d := range cfg.Events {
		at, ev, err := EventFromDirective(d)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: %w", err)
		}
		err = s.Schedule(at, ev)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: %w", err)
		}
	}
	return s, nil
}

// OnRouteTableUpdate implements Listener
func (s *Simulator) OnRouteTableUpdate(id state.NodeId) {
	s.stable = false
	s.changed[id] = struct{}{}
}

// Log implements Listener
func (s *Simulator) Log(event RouterEvent, desc string, args ...any) {
	if event.IsWarning() {
		s.log.Warn(fmt.Sprintf("%s %s", event.String(), desc), args...)
		return
	}
	s.log.Debug(fmt.Sprintf("%s %s", event.String(), desc), args...)
}

func (s *Simulator) validNode(id state.NodeId) bool {
	return id >= 0 && int(id) < len(s.nodes)
}

func (s *Simulator) checkEvent(ev Event) error {
	var ids []state.NodeId
	switch ev := ev.(type) {
	case LinkCostChange:
		if ev.A == ev.B {
			return fmt.Errorf("%s: node %d cannot link to itself", ev, ev.A)
		}
		ids = []state.NodeId{ev.A, ev.B}
	case ShowBestRoute:
		ids = []state.NodeId{ev.From, ev.To}
	case TraceRouteTable:
		ids = []state.NodeId{ev.Node}
	case NodeStatusChange:
		ids = []state.NodeId{ev.Node}
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
	for _, id := range ids {
		if !s.validNode(id) {
			return fmt.Errorf("%s: node %d is outside [0, %d)", ev, id, len(s.nodes))
		}
	}
	return nil
}

// Schedule binds ev to exchange at. A TraceRouteTable is bound to every remaining exchange of its
// window and at is ignored for it. Exchanges that will never run are skipped with a warning; only an event that
// names an unknown node is an error.
func (s *Simulator) Schedule(at int, ev Event) error {
	if err := s.checkEvent(ev); err != nil {
		return err
	}
	if t, ok := ev.(TraceRouteTable); ok {
		for i := max(t.Start, s.exchange); i < t.End; i++ {
			if !s.scheduleAt(i, ev) {
				break
			}
		}
		return nil
	}
	s.scheduleAt(at, ev)
	return nil
}

func (s *Simulator) scheduleAt(at int, ev Event) bool {
	if at < s.exchange || at >= s.cfg.MaxExchanges {
		s.Log(ScheduleOutOfRange, "event will never fire, skipping", "event", ev.String(), "at", at,
			"next_exchange", s.exchange, "max_exchanges", s.cfg.MaxExchanges)
		return false
	}
	s.schedule[at] = append(s.schedule[at], ev)
	return true
}

// Pending returns the number of scheduled event firings that have not happened yet
func (s *Simulator) Pending() int {
	n := 0
	for _, evs := range s.schedule {
		n += len(evs)
	}
	return n
}

func (s *Simulator) topologyPending() bool {
	for _, evs := range s.schedule {
		if slices.ContainsFunc(evs, changesTopology) {
			return true
		}
	}
	return false
}

// deliver drains every inbox, lowest node id first
func (s *Simulator) deliver() {
	for _, n := range s.nodes {
		if n.Pending() > 0 {
			n.Drain()
		}
	}
}

// Step runs one exchange: every active node advertises in ascending id order, each advert is
// delivered before the next node sends, then the events bound to this exchange fire.
func (s *Simulator) Step() RoundReport {
	start := time.Now()
	ex := s.exchange
	s.stable = true
	clear(s.changed)

	msgs, stale := 0, 0
	for _, n := range s.nodes {
		if !n.Active() {
			continue
		}
		adverts := n.Advertise()
		stale += n.Stale()
		for _, adv := range adverts {
			if !s.validNode(adv.To) {
				s.Log(InconsistentState, "advert addressed to unknown node", "from", adv.From, "to", adv.To)
				continue
			}
			s.nodes[adv.To].Enqueue(adv)
			msgs++
		}
		s.deliver()
	}

	if stale > 0 {
		// routes are still counting down towards expiry
		s.stable = false
	}

	for _, ev := range s.schedule[ex] {
		s.fire(ex, ev)
	}
	delete(s.schedule, ex)

	report := RoundReport{
		Exchange: ex,
		Stable:   s.stable,
		Changed:  slices.Sorted(maps.Keys(s.changed)),
		Stale:    stale,
		Messages: msgs,
	}
	s.reports = append(s.reports, report)
	s.exchange++

	perf.Rounds.Add(1)
	perf.MessagesPerRound.Add(float64(msgs))
	perf.ChangesPerRound.Add(float64(len(report.Changed)))
	perf.RoundLatency.Add(float64(time.Since(start).Microseconds()))

	s.log.Debug("round closed", "exchange", ex, "stable", report.Stable, "changed", report.Changed,
		"stale", stale, "messages", msgs)
	s.observer.RoundClosed(report)
	return report
}

func (s *Simulator) fire(ex int, ev Event) {
	switch ev := ev.(type) {
	case LinkCostChange:
		s.SetLinkCost(ev.A, ev.B, ev.Cost)
	case ShowBestRoute:
		route := s.BestRoute(ev.From, ev.To)
		s.log.Info("best route", "exchange", ex, "route", route.String())
		s.observer.BestRouteShown(ex, route)
	case TraceRouteTable:
		s.observer.TableTraced(ex, ev.Node, s.nodes[ev.Node].Table())
	case NodeStatusChange:
		s.SetNodeStatus(ev.Node, ev.Status)
	}
}

// Done reports whether every exchange has run
func (s *Simulator) Done() bool {
	return s.exchange >= s.cfg.MaxExchanges
}

// Run drives rounds until MaxExchanges, until the network is stable (when StopOnStable is set and no
// link or status change is still scheduled), until the commander quits, or until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) (Result, error) {
	s.log.Info("starting simulation", "nodes", len(s.nodes), "max_exchanges", s.cfg.MaxExchanges,
		"stop_on_stability", s.cfg.StopOnStable, "split_horizon", s.splitHorizon)
	for !s.Done() {
		if ctx.Err() != nil {
			return s.result(false), context.Cause(ctx)
		}
		if s.commander != nil {
			proceed, err := s.awaitCommand()
			if err != nil {
				return s.result(false), err
			}
			if !proceed {
				s.log.Info("simulation stopped by command", "exchange", s.exchange)
				return s.result(false), nil
			}
		}
		report := s.Step()
		if report.Stable && s.cfg.StopOnStable && !s.topologyPending() {
			s.log.Info("stability reached", "exchange", report.Exchange)
			if p := s.Pending(); p > 0 {
				s.log.Warn("scheduled events will not fire", "count", p)
			}
			return s.result(true), nil
		}
	}
	s.log.Info("simulation finished", "exchanges", s.exchange, "stable", s.lastStable())
	return s.result(false), nil
}

func (s *Simulator) lastStable() bool {
	return len(s.reports) > 0 && s.reports[len(s.reports)-1].Stable
}

func (s *Simulator) result(converged bool) Result {
	return Result{
		Exchanges: s.exchange,
		Converged: converged,
		Stable:    s.lastStable(),
	}
}

// SetLinkCost changes a link cost immediately. Costs below state.LinkDown are clamped with a warning.
func (s *Simulator) SetLinkCost(a, b state.NodeId, cost int) {
	if !s.validNode(a) || !s.validNode(b) || a == b {
		s.Log(InconsistentState, "ignoring cost change for invalid link", "a", a, "b", b)
		return
	}
	if cost < state.LinkDown {
		s.Log(CostClamped, "link cost below failure sentinel, clamping", "a", a, "b", b, "cost", cost)
		cost = state.LinkDown
	}
	old := s.links.SetCost(a, b, cost)
	if old != cost {
		// the old fixed point no longer holds
		s.stable = false
	}
	s.Log(LinkCostChanged, "link cost changed", "a", a, "b", b, "from", old, "to", cost)
	s.observer.LinkChanged(s.exchange, state.Link{A: min(a, b), B: max(a, b), Cost: cost}, old)
}

// SetNodeStatus crashes or recovers a router. A failed router keeps its table but neither sends nor
// processes adverts.
func (s *Simulator) SetNodeStatus(id state.NodeId, status state.NodeStatus) {
	if !s.validNode(id) {
		s.Log(InconsistentState, "ignoring status change for unknown node", "node", id)
		return
	}
	n := s.nodes[id]
	if n.Status == status {
		return
	}
	n.Status = status
	n.inbox = nil
	s.stable = false
	s.Log(NodeStatusChanged, "node status changed", "node", id, "status", status.String())
	s.observer.StatusChanged(s.exchange, id, status)
}

// SetSplitHorizon switches split horizon on every node, replacing per-node overrides
func (s *Simulator) SetSplitHorizon(on bool) {
	s.splitHorizon = on
	for _, n := range s.nodes {
		n.SplitHorizon = on
	}
	s.log.Info("split horizon toggled", "enabled", on)
}

func (s *Simulator) SplitHorizon() bool {
	return s.splitHorizon
}

func (s *Simulator) SetCommander(c Commander) {
	s.commander = c
}

// Exchange returns the index of the next exchange to run
func (s *Simulator) Exchange() int {
	return s.exchange
}

func (s *Simulator) Config() state.SimCfg {
	return s.cfg
}

func (s *Simulator) NumNodes() int {
	return len(s.nodes)
}

// Table returns a copy of the route table of id, or nil for an unknown node
func (s *Simulator) Table(id state.NodeId) []RouteEntry {
	if !s.validNode(id) {
		return nil
	}
	return s.nodes[id].Table()
}

func (s *Simulator) Neighbours(id state.NodeId) []state.NodeId {
	if !s.validNode(id) {
		return nil
	}
	return s.nodes[id].Neighbours()
}

func (s *Simulator) Status(id state.NodeId) state.NodeStatus {
	if !s.validNode(id) {
		return state.Failed
	}
	return s.nodes[id].Status
}

func (s *Simulator) LinkMatrix() [][]int {
	return s.links.Matrix()
}

func (s *Simulator) Links() []state.Link {
	return s.links.Links()
}

// Reports returns every closed round so far
func (s *Simulator) Reports() []RoundReport {
	return slices.Clone(s.reports)
}

// BestRoute follows next hops from one node to another using the current tables
func (s *Simulator) BestRoute(from, to state.NodeId) BestRoute {
	if !s.validNode(from) || !s.validNode(to) {
		return BestRoute{From: from, To: to, Status: NoRoute}
	}
	return walkBestRoute(s.nodes, from, to)
}
