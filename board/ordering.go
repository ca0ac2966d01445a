package board

// Ordering math over id lists. The store resolves a scope (one board's
// columns, or one column's cards) to ids sorted by current order, computes
// the new sequence here, then persists order = list index for each id.

// clampIndex bounds index to [0, max].
func clampIndex(index, max int) int {
	if index < 0 {
		return 0
	}
	if index > max {
		return max
	}
	return index
}

// moveWithin splices id out of orderedIDs and back in at targetIndex
// (clamped to the list bounds). The second return is false when id is not a
// member of the scope.
//
// Assigning order = index over the result renumbers the entire scope; this
// is the client-observable contract for same-scope moves.
func moveWithin(orderedIDs []string, id string, targetIndex int) ([]string, bool) {
	from := -1
	for i, existing := range orderedIDs {
		if existing == id {
			from = i
			break
		}
	}
	if from == -1 {
		return nil, false
	}

	without := make([]string, 0, len(orderedIDs)-1)
	without = append(without, orderedIDs[:from]...)
	without = append(without, orderedIDs[from+1:]...)

	targetIndex = clampIndex(targetIndex, len(without))
	result := make([]string, 0, len(orderedIDs))
	result = append(result, without[:targetIndex]...)
	result = append(result, id)
	result = append(result, without[targetIndex:]...)
	return result, true
}

// checkMembership verifies that orderedIDs is exactly the scope membership.
// Unknown or duplicated ids fail with ErrInvalidScope; omitted members fail
// with ErrStaleScope (the caller's view of the scope is outdated).
func checkMembership(orderedIDs, scopeIDs []string) error {
	members := make(map[string]bool, len(scopeIDs))
	for _, id := range scopeIDs {
		members[id] = true
	}

	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !members[id] {
			return ErrInvalidScope
		}
		if seen[id] {
			return ErrInvalidScope
		}
		seen[id] = true
	}

	if len(seen) != len(members) {
		return ErrStaleScope
	}
	return nil
}
