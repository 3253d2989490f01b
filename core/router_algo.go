package core

import (
	"maps"
	"slices"
)

// handleCosts relaxes the route table against one advert (Bellman-Ford step).
func (n *Node) handleCosts(adv Advert) {
	linkCost := n.links.Cost(n.Id, adv.From)
	if linkCost < 0 {
		// the link died while the advert was in flight
		n.removeNeighbour(adv.From)
		return
	}
	if !n.IsNeighbour(adv.From) {
		// the sender noticed the restored link before we did
		n.Connect(adv.From)
	}

	for _, dest := range slices.Sorted(maps.Keys(adv.Costs)) {
		if dest == n.Id {
			continue
		}
		newCost := AddCost(adv.Costs[dest], linkCost, n.infinity)
		cur, known := n.table.Peek(dest)
		viaSender := known && cur.NextHop == adv.From
		curCost := n.infinity
		if known {
			curCost = cur.Cost
		}
		if viaSender {
			// only the next hop keeps a route alive
			curCost = n.table.Cost(dest)
		}

		switch {
		case newCost >= n.infinity:
			// poisoned: withdraw only a route held through the sender, other hops cannot retract it
			if viaSender {
				n.table.Drop(dest)
			}
		case newCost < curCost:
			n.table.Log(dest, newCost, adv.From)
		case newCost > curCost && viaSender:
			// our next hop got worse; follow it rather than keep a stale lower cost
			n.table.Log(dest, newCost, adv.From)
		}
	}
}
