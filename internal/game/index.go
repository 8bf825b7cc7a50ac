package game

// RepairIndex recomputes the turn index after a departure. Pure bookkeeping,
// kept free of storage concerns so the edge cases stay unit-testable.
//
// Rules:
//   - If the departing player held the turn, the turn passes to whoever now
//     occupies that slot: old index modulo the shorter list.
//   - If the departing player sat strictly before the turn-holder, the index
//     shifts down by one (clamped at zero) to follow the turn-holder's new
//     position.
//   - Otherwise the index is unchanged.
//
// The result is always reduced modulo the remaining player count; an empty
// remaining list yields 0.
func RepairIndex(old []Player, current int, departingID string, remaining []Player) int {
	if len(remaining) == 0 {
		return 0
	}
	idx := current
	if len(old) > 0 && old[current%len(old)].ID == departingID {
		idx = current % len(remaining)
	} else {
		pos := -1
		for i, p := range old {
			if p.ID == departingID {
				pos = i
				break
			}
		}
		if pos != -1 && pos < current {
			idx = current - 1
			if idx < 0 {
				idx = 0
			}
		}
	}
	return idx % len(remaining)
}
