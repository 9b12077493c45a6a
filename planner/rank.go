package planner

import "sort"

// Rank orders itinerary summaries fastest first. The sort is stable, so
// equal durations keep their original submission order. The fastest entry
// is flagged for presentation, and any itinerary whose walking time exceeds
// the budget is flagged as over budget; the flag is advisory and never
// removes an option from the list.
//
// The returned default index is 0 (the fastest) unless priorSelection names
// a SourceIndex still present in the list, in which case the caller's
// earlier choice keeps being the default across a re-render.
func Rank(summaries []ItinerarySummary, walkingBudgetMinutes float64, priorSelection int) ([]ItinerarySummary, int) {
	ranked := make([]ItinerarySummary, len(summaries))
	copy(ranked, summaries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalDurationSeconds < ranked[j].TotalDurationSeconds
	})

	for i := range ranked {
		ranked[i].Fastest = i == 0
		ranked[i].WalkingBudgetExceeded = walkingBudgetMinutes > 0 &&
			ranked[i].TotalWalkingMinutes > walkingBudgetMinutes
	}

	defaultIndex := 0
	if priorSelection >= 0 {
		for i := range ranked {
			if ranked[i].SourceIndex == priorSelection {
				defaultIndex = i
				break
			}
		}
	}
	return ranked, defaultIndex
}
