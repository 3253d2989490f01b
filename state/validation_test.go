package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *SimCfg {
	cfg := DefaultConfig()
	cfg.Nodes = 3
	cfg.Links = []LinkCfg{{0, 1, 1}, {1, 2, 1}}
	return &cfg
}

func TestConfigValidator_Valid(t *testing.T) {
	assert.NoError(t, ConfigValidator(validConfig()))
}

func TestConfigValidator_Bounds(t *testing.T) {
	cfg := validConfig()
	cfg.Nodes = 0
	assert.ErrorContains(t, ConfigValidator(cfg), "number of nodes must be positive, got 0")

	cfg = validConfig()
	cfg.MaxExchanges = -1
	assert.ErrorContains(t, ConfigValidator(cfg), "max exchanges must be positive")

	cfg = validConfig()
	cfg.InfinityCost = 0
	assert.ErrorContains(t, ConfigValidator(cfg), "infinity cost must be positive")

	cfg = validConfig()
	cfg.ForgetAfter = 0
	assert.ErrorContains(t, ConfigValidator(cfg), "forget after must be at least 2, got 0")

	cfg = validConfig()
	cfg.ForgetAfter = 1
	assert.ErrorContains(t, ConfigValidator(cfg), "forget after must be at least 2, got 1")

	cfg = validConfig()
	cfg.ForgetAfter = MinForgetAfter
	assert.NoError(t, ConfigValidator(cfg))
}

func TestConfigValidator_Links(t *testing.T) {
	cfg := validConfig()
	cfg.Links = append(cfg.Links, LinkCfg{From: 2, To: 3, Cost: 1})
	assert.ErrorContains(t, ConfigValidator(cfg), "node 3 is outside [0, 3)")

	cfg = validConfig()
	cfg.Links = append(cfg.Links, LinkCfg{From: 2, To: 2, Cost: 1})
	assert.ErrorContains(t, ConfigValidator(cfg), "node 2 cannot link to itself")

	cfg = validConfig()
	cfg.Links = append(cfg.Links, LinkCfg{From: 1, To: 0, Cost: 5})
	assert.ErrorContains(t, ConfigValidator(cfg), "duplicate link found: 1, 0")
}

func TestConfigValidator_Events(t *testing.T) {
	cfg := validConfig()
	cfg.Events = []DirectiveCfg{{At: 1}}
	assert.ErrorContains(t, ConfigValidator(cfg), "event 0: exactly one of")

	cfg = validConfig()
	cfg.Events = []DirectiveCfg{{At: 1, BestRoute: &RouteQueryCfg{From: 0, To: 2}, Trace: &TraceCfg{Node: 0, Until: 3}}}
	assert.ErrorContains(t, ConfigValidator(cfg), "exactly one of")

	cfg = validConfig()
	cfg.Events = []DirectiveCfg{{At: -2, BestRoute: &RouteQueryCfg{From: 0, To: 2}}}
	assert.ErrorContains(t, ConfigValidator(cfg), "must not be negative")

	cfg = validConfig()
	cfg.Events = []DirectiveCfg{{At: 1, BestRoute: &RouteQueryCfg{From: 0, To: 7}}}
	assert.ErrorContains(t, ConfigValidator(cfg), "node 7 is outside")

	cfg = validConfig()
	cfg.Events = []DirectiveCfg{{At: 4, Trace: &TraceCfg{Node: 0, Until: 4}}}
	assert.ErrorContains(t, ConfigValidator(cfg), "trace window [4, 4) is empty")

	cfg = validConfig()
	cfg.Events = []DirectiveCfg{{At: 1, NodeStatus: &NodeStatusCfg{Node: 1, Status: "sleeping"}}}
	assert.ErrorContains(t, ConfigValidator(cfg), `unknown status "sleeping"`)

	// scheduling beyond the exchange bound is a runtime warning, not a config error
	cfg = validConfig()
	cfg.Events = []DirectiveCfg{{At: cfg.MaxExchanges + 5, LinkCost: &LinkCfg{From: 0, To: 1, Cost: 3}}}
	assert.NoError(t, ConfigValidator(cfg))
}

func TestConfigValidator_Overrides(t *testing.T) {
	cfg := validConfig()
	cfg.Overrides = []NodeCfg{{Id: 9}}
	assert.ErrorContains(t, ConfigValidator(cfg), "override: node 9 is outside")

	cfg = validConfig()
	cfg.Overrides = []NodeCfg{{Id: 1, Status: "zombie"}}
	assert.ErrorContains(t, ConfigValidator(cfg), `override for node 1: unknown status "zombie"`)
}
