package state

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

func PathValidator(s string) error {
	_, err := os.Stat(path.Dir(s))
	if err != nil {
		return err
	}
	_, err = filepath.Abs(s)
	return err
}

func NodeValidator(cfg *SimCfg, id NodeId) error {
	if id < 0 || int(id) >= cfg.Nodes {
		return fmt.Errorf("node %d is outside [0, %d)", id, cfg.Nodes)
	}
	return nil
}

// ConfigValidator rejects a scenario that cannot be simulated. Directives scheduled at or beyond
// MaxExchanges are not rejected here; the simulator warns about them and skips them.
func ConfigValidator(cfg *SimCfg) error {
	if cfg.Nodes <= 0 {
		return fmt.Errorf("number of nodes must be positive, got %d", cfg.Nodes)
	}
	if cfg.MaxExchanges <= 0 {
		return fmt.Errorf("max exchanges must be positive, got %d", cfg.MaxExchanges)
	}
	if cfg.InfinityCost <= 0 {
		return fmt.Errorf("infinity cost must be positive, got %d", cfg.InfinityCost)
	}
	if cfg.ForgetAfter < MinForgetAfter {
		return fmt.Errorf("forget after must be at least %d, got %d", MinForgetAfter, cfg.ForgetAfter)
	}

	seen := make(map[Pair[NodeId, NodeId]]struct{})
	for _, link := range cfg.Links {
		if err := linkValidator(cfg, link); err != nil {
			return err
		}
		key := linkKey(link.From, link.To)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate link found: %d, %d", link.From, link.To)
		}
		seen[key] = struct{}{}
	}

	for _, o := range cfg.Overrides {
		if err := NodeValidator(cfg, o.Id); err != nil {
			return fmt.Errorf("override: %w", err)
		}
		if o.Status != "" {
			if _, ok := ParseNodeStatus(o.Status); !ok {
				return fmt.Errorf("override for node %d: unknown status %q", o.Id, o.Status)
			}
		}
	}

	for i, ev := range cfg.Events {
		if err := directiveValidator(cfg, ev); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

func linkValidator(cfg *SimCfg, link LinkCfg) error {
	if err := NodeValidator(cfg, link.From); err != nil {
		return err
	}
	if err := NodeValidator(cfg, link.To); err != nil {
		return err
	}
	if link.From == link.To {
		return fmt.Errorf("node %d cannot link to itself", link.From)
	}
	return nil
}

func directiveValidator(cfg *SimCfg, ev DirectiveCfg) error {
	if ev.At < 0 {
		return fmt.Errorf("exchange index must not be negative, got %d", ev.At)
	}
	if ev.kinds() != 1 {
		return fmt.Errorf("exactly one of link_cost, best_route, trace, node_status must be set")
	}
	switch {
	case ev.LinkCost != nil:
		return linkValidator(cfg, *ev.LinkCost)
	case ev.BestRoute != nil:
		if err := NodeValidator(cfg, ev.BestRoute.From); err != nil {
			return err
		}
		return NodeValidator(cfg, ev.BestRoute.To)
	case ev.Trace != nil:
		if err := NodeValidator(cfg, ev.Trace.Node); err != nil {
			return err
		}
		if ev.Trace.Until <= ev.At {
			return fmt.Errorf("trace window [%d, %d) is empty", ev.At, ev.Trace.Until)
		}
	case ev.NodeStatus != nil:
		if err := NodeValidator(cfg, ev.NodeStatus.Node); err != nil {
			return err
		}
		if _, ok := ParseNodeStatus(ev.NodeStatus.Status); !ok {
			return fmt.Errorf("unknown status %q", ev.NodeStatus.Status)
		}
	}
	return nil
}
