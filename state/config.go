package state

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LinkCfg is one topology triple. A negative cost configures the pair as not connected.
type LinkCfg struct {
	From NodeId `yaml:"from"`
	To   NodeId `yaml:"to"`
	Cost int    `yaml:"cost"`
}

type RouteQueryCfg struct {
	From NodeId `yaml:"from"`
	To   NodeId `yaml:"to"`
}

// TraceCfg dumps the table of Node at every exchange in [At, Until)
type TraceCfg struct {
	Node  NodeId `yaml:"node"`
	Until int    `yaml:"until"`
}

type NodeStatusCfg struct {
	Node   NodeId `yaml:"node"`
	Status string `yaml:"status"`
}

// DirectiveCfg schedules one action after the message round of exchange At. Exactly one of the
// action fields must be set.
type DirectiveCfg struct {
	At         int            `yaml:"at"`
	LinkCost   *LinkCfg       `yaml:"link_cost,omitempty"`
	BestRoute  *RouteQueryCfg `yaml:"best_route,omitempty"`
	Trace      *TraceCfg      `yaml:"trace,omitempty"`
	NodeStatus *NodeStatusCfg `yaml:"node_status,omitempty"`
}

func (d DirectiveCfg) kinds() int {
	n := 0
	if d.LinkCost != nil {
		n++
	}
	if d.BestRoute != nil {
		n++
	}
	if d.Trace != nil {
		n++
	}
	if d.NodeStatus != nil {
		n++
	}
	return n
}

// NodeCfg overrides simulation-wide defaults for a single node
type NodeCfg struct {
	Id           NodeId `yaml:"id"`
	SplitHorizon *bool  `yaml:"split_horizon,omitempty"`
	Status       string `yaml:"status,omitempty"`
}

// SimCfg holds everything needed to construct a simulation run
type SimCfg struct {
	Nodes        int            `yaml:"nodes"`
	MaxExchanges int            `yaml:"max_exchanges"`
	StopOnStable bool           `yaml:"stop_on_stability"`
	SplitHorizon bool           `yaml:"split_horizon"`
	InfinityCost int            `yaml:"infinity_cost"`
	ForgetAfter  int            `yaml:"forget_after"`
	Overrides    []NodeCfg      `yaml:"overrides,omitempty"`
	Links        []LinkCfg      `yaml:"links"`
	Events       []DirectiveCfg `yaml:"events,omitempty"`
}

// DefaultConfig returns a configuration with every tunable at its default and an empty topology
func DefaultConfig() SimCfg {
	return SimCfg{
		MaxExchanges: DefaultMaxExchanges,
		StopOnStable: DefaultStopOnStable,
		SplitHorizon: DefaultSplitHorizon,
		InfinityCost: DefaultInfinityCost,
		ForgetAfter:  DefaultForgetAfter,
	}
}

func (c *SimCfg) Override(id NodeId) *NodeCfg {
	for i := range c.Overrides {
		if c.Overrides[i].Id == id {
			return &c.Overrides[i]
		}
	}
	return nil
}

// ParseConfig decodes a YAML (or JSON) scenario on top of DefaultConfig.
func ParseConfig(data []byte) (*SimCfg, error) {
	cfg := DefaultConfig()
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads a scenario file. Files starting with the legacy header ("-numOfNodes ...") are
// parsed with ParseLegacy, everything else as YAML.
func LoadConfig(path string) (*SimCfg, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg *SimCfg
	if IsLegacy(file) {
		cfg, err = ParseLegacy(bytes.NewReader(file))
	} else {
		cfg, err = ParseConfig(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

func MarshalConfig(cfg *SimCfg) ([]byte, error) {
	return yaml.Marshal(cfg)
}
