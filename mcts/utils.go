package mcts

import "sort"

type rankedAction struct {
	SortedAction
	rank int
}

// sortActions sorts actions (with parallel nonTerminalRank tie-breakers in
// ranks) descending by equity, then ascending by rank, then descending by
// visit count, per Tree.GetSortedActions.
func sortActions(actions []SortedAction, ranks []int) {
	zipped := make([]rankedAction, len(actions))
	for i, a := range actions {
		zipped[i] = rankedAction{SortedAction: a, rank: ranks[i]}
	}
	sort.SliceStable(zipped, func(i, j int) bool {
		if zipped[i].Equity != zipped[j].Equity {
			return zipped[i].Equity > zipped[j].Equity
		}
		if zipped[i].rank != zipped[j].rank {
			return zipped[i].rank < zipped[j].rank
		}
		return zipped[i].Visits > zipped[j].Visits
	})
	for i, z := range zipped {
		actions[i] = z.SortedAction
		ranks[i] = z.rank
	}
}
