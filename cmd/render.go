package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func costString(cost int) string {
	if cost < 0 {
		return "-"
	}
	return strconv.Itoa(cost)
}

// scenarioLinks returns the links a scenario starts with
func scenarioLinks(cfg *state.SimCfg) *state.LinkRegistry {
	links := state.NewLinkRegistry(cfg.Nodes)
	for _, l := range cfg.Links {
		links.SetCost(l.From, l.To, l.Cost)
	}
	return links
}

func renderLinkMatrix(w io.Writer, m [][]int) {
	fmt.Fprintln(w, "LINK COSTS")
	table := newTable(w)
	header := []string{""}
	for i := range m {
		header = append(header, strconv.Itoa(i))
	}
	table.SetHeader(header)
	for i, row := range m {
		cells := []string{strconv.Itoa(i)}
		for _, cost := range row {
			cells = append(cells, costString(cost))
		}
		table.Append(cells)
	}
	table.Render()
	fmt.Fprintln(w)
}

func renderRouteTable(w io.Writer, exchange int, node state.NodeId, entries []core.RouteEntry) {
	fmt.Fprintf(w, "ROUTE TABLE node %d, exchange %d\n", node, exchange)
	table := newTable(w)
	table.SetHeader([]string{"DEST", "COST", "NEXT HOP", "FORGET"})
	for _, e := range entries {
		forget := strconv.Itoa(e.Forget)
		if e.Dest == node {
			forget = "-"
		}
		table.Append([]string{e.Dest.String(), strconv.Itoa(e.Cost), e.NextHop.String(), forget})
	}
	table.Render()
	fmt.Fprintln(w)
}

func renderLinks(w io.Writer, links []state.Link) {
	table := newTable(w)
	table.SetHeader([]string{"A", "B", "COST", "STATE"})
	for _, l := range links {
		st := "up"
		if !l.Up() {
			st = "down"
		}
		table.Append([]string{l.A.String(), l.B.String(), costString(l.Cost), st})
	}
	table.Render()
}

func renderEvents(w io.Writer, events []state.DirectiveCfg) {
	table := newTable(w)
	table.SetHeader([]string{"AT", "EVENT"})
	for _, d := range events {
		at, ev, err := core.EventFromDirective(d)
		if err != nil {
			table.Append([]string{strconv.Itoa(d.At), "invalid: " + err.Error()})
			continue
		}
		table.Append([]string{strconv.Itoa(at), ev.String()})
	}
	table.Render()
}

func renderRound(w io.Writer, report core.RoundReport) {
	if report.Stable {
		fmt.Fprintf(w, "exchange %d: %d messages, stable\n", report.Exchange, report.Messages)
		return
	}
	parts := make([]string, 0, 2)
	if len(report.Changed) > 0 {
		ids := make([]string, 0, len(report.Changed))
		for _, id := range report.Changed {
			ids = append(ids, id.String())
		}
		parts = append(parts, "changed "+strings.Join(ids, ", "))
	}
	if report.Stale > 0 {
		parts = append(parts, fmt.Sprintf("%d stale routes", report.Stale))
	}
	if len(parts) == 0 {
		parts = append(parts, "topology changed")
	}
	fmt.Fprintf(w, "exchange %d: %d messages, %s\n", report.Exchange, report.Messages, strings.Join(parts, "; "))
}

func renderSummary(w io.Writer, res core.Result, maxExchanges int) {
	switch {
	case res.Converged:
		fmt.Fprintf(w, "converged: stable after %d exchanges\n", res.Exchanges)
	case res.Exchanges < maxExchanges:
		fmt.Fprintf(w, "stopped after %d of %d exchanges\n", res.Exchanges, maxExchanges)
	case res.Stable:
		fmt.Fprintf(w, "finished %d exchanges, last exchange was stable\n", res.Exchanges)
	default:
		fmt.Fprintf(w, "finished %d exchanges, still converging\n", res.Exchanges)
	}
}

// consoleObserver prints simulator notifications as they happen
type consoleObserver struct {
	w     io.Writer
	quiet bool
}

func (o *consoleObserver) RoundClosed(report core.RoundReport) {
	if !o.quiet {
		renderRound(o.w, report)
	}
}

func (o *consoleObserver) TableTraced(exchange int, node state.NodeId, entries []core.RouteEntry) {
	renderRouteTable(o.w, exchange, node, entries)
}

func (o *consoleObserver) BestRouteShown(exchange int, route core.BestRoute) {
	fmt.Fprintf(o.w, "best route at exchange %d: %s\n", exchange, route)
}

func (o *consoleObserver) LinkChanged(exchange int, link state.Link, oldCost int) {
	if !o.quiet {
		fmt.Fprintf(o.w, "link %d-%d changed at exchange %d: %s -> %s\n", link.A, link.B, exchange, costString(oldCost), costString(link.Cost))
	}
}

func (o *consoleObserver) StatusChanged(exchange int, node state.NodeId, status state.NodeStatus) {
	if !o.quiet {
		fmt.Fprintf(o.w, "node %d is %s at exchange %d\n", node, status, exchange)
	}
}
