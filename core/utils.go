package core

// AddCost adds two non-negative costs, saturating at infinity
func AddCost(a, b, infinity int) int {
	if a >= infinity || b >= infinity {
		return infinity
	}
	return min(a+b, infinity)
}
