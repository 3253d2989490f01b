package state

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

/*
ParseLegacy reads the line-oriented scenario format:

	-numOfNodes 3 -maxIterations 20 -untilStability true
	0 1 1          // links: from to cost
	1 2 1
	##
	0 1 3 -1       // link changes: from to afterExchange newCost
	##
	0 2 5          // best routes: from to atExchange
	##
	0 2 6          // traces: node startExchange endExchange

The header must contain -numOfNodes; -maxIterations, -untilStability, -splitHorizon, -infinityCost and
-forgetAfter are optional. Trailing sections may be omitted.
*/
func ParseLegacy(r io.Reader) (*SimCfg, error) {
	cfg := DefaultConfig()
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("empty scenario")
	}
	err := parseLegacyHeader(&cfg, sc.Text())
	if err != nil {
		return nil, err
	}

	section := 0
	lineNo := 1
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.Contains(line, "##") {
			section++
			continue
		}
		v, err := parseInts(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		switch section {
		case 0:
			if len(v) != 3 {
				return nil, fmt.Errorf("line %d: link must be \"from to cost\"", lineNo)
			}
			cfg.Links = append(cfg.Links, LinkCfg{From: NodeId(v[0]), To: NodeId(v[1]), Cost: v[2]})
		case 1:
			if len(v) != 4 {
				return nil, fmt.Errorf("line %d: link change must be \"from to afterExchange newCost\"", lineNo)
			}
			cfg.Events = append(cfg.Events, DirectiveCfg{
				At:       v[2],
				LinkCost: &LinkCfg{From: NodeId(v[0]), To: NodeId(v[1]), Cost: v[3]},
			})
		case 2:
			if len(v) != 3 {
				return nil, fmt.Errorf("line %d: best route must be \"from to atExchange\"", lineNo)
			}
			cfg.Events = append(cfg.Events, DirectiveCfg{
				At:        v[2],
				BestRoute: &RouteQueryCfg{From: NodeId(v[0]), To: NodeId(v[1])},
			})
		case 3:
			if len(v) != 3 {
				return nil, fmt.Errorf("line %d: trace must be \"node startExchange endExchange\"", lineNo)
			}
			cfg.Events = append(cfg.Events, DirectiveCfg{
				At:    v[1],
				Trace: &TraceCfg{Node: NodeId(v[0]), Until: v[2]},
			})
		default:
			return nil, fmt.Errorf("line %d: unexpected section %d", lineNo, section+1)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsLegacy reports whether data starts with a legacy header line
func IsLegacy(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("-"))
}

func parseLegacyHeader(cfg *SimCfg, line string) error {
	fields := strings.Fields(line)
	if len(fields)%2 != 0 {
		return fmt.Errorf("header flags must come in \"-name value\" pairs: %q", line)
	}
	hasNodes := false
	for i := 0; i < len(fields); i += 2 {
		name, val := fields[i], fields[i+1]
		var err error
		switch name {
		case "-numOfNodes":
			cfg.Nodes, err = strconv.Atoi(val)
			hasNodes = true
		case "-maxIterations", "-maxExchanges":
			cfg.MaxExchanges, err = strconv.Atoi(val)
		case "-untilStability":
			cfg.StopOnStable, err = strconv.ParseBool(val)
		case "-splitHorizon":
			cfg.SplitHorizon, err = strconv.ParseBool(val)
		case "-infinityCost":
			cfg.InfinityCost, err = strconv.Atoi(val)
		case "-forgetAfter":
			cfg.ForgetAfter, err = strconv.Atoi(val)
		default:
			return fmt.Errorf("unknown header flag %s", name)
		}
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
	}
	if !hasNodes {
		return fmt.Errorf("must specify -numOfNodes")
	}
	return nil
}

func parseInts(line string) ([]int, error) {
	fields := strings.Fields(line)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", f)
		}
		out = append(out, v)
	}
	return out, nil
}
