package state

const (
	// LinkDown is the link cost of a pair that is not connected, or whose link failed.
	LinkDown = -1
	// NoHop marks a route entry without a next hop (the self entry).
	NoHop NodeId = -1
	// MinForgetAfter is the smallest forget threshold that survives a route refreshed after the
	// owner aged its table in the same round.
	MinForgetAfter = 2
)

var (
	DefaultInfinityCost = 16
	DefaultForgetAfter  = 5
	DefaultMaxExchanges = 100
	DefaultSplitHorizon = true
	DefaultStopOnStable = false
	DefaultConfigPath   = "scenario.yaml"
	DefaultDebugAddr    = "127.0.0.1:6060"
	DefaultLogPrefix    = "dvsim"
)
