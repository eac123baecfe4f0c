package settings

import "sort"

// sortedIDs keeps delivery in subscription order.
func sortedIDs(m map[int]Handler) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
