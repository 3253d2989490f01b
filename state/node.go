package state

import "strconv"

// NodeId identifies a router for the lifetime of a simulation run. Valid ids are [0, numOfNodes).
type NodeId int

func (n NodeId) String() string {
	if n == NoHop {
		return "-"
	}
	return strconv.Itoa(int(n))
}

type NodeStatus int

const (
	Active NodeStatus = iota
	Failed
)

func (s NodeStatus) String() string {
	switch s {
	case Active:
		return "active"
	case Failed:
		return "failed"
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

func ParseNodeStatus(s string) (NodeStatus, bool) {
	switch s {
	case "active", "up":
		return Active, true
	case "failed", "down":
		return Failed, true
	}
	return Active, false
}
