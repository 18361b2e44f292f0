package stylist

import "time"

const (
	historyWindowDays = 7
	excludeWindowDays = 2
)

// RecentlyWornSets buckets item ids by how recently they were worn.
// Excluded holds ids worn within the last 2 days, Penalized ids worn 3-7 days
// ago. The sets are disjoint.
type RecentlyWornSets struct {
	Excluded  map[uint]struct{}
	Penalized map[uint]struct{}
}

// AnalyzeRecentWear walks the logged outfits and buckets every referenced
// item id. Logs older than the 7-day window are ignored.
func AnalyzeRecentWear(logs []WearLog, today time.Time) RecentlyWornSets {
	worn := RecentlyWornSets{
		Excluded:  map[uint]struct{}{},
		Penalized: map[uint]struct{}{},
	}
	excludeSince := today.AddDate(0, 0, -excludeWindowDays)
	windowSince := today.AddDate(0, 0, -historyWindowDays)

	for _, log := range logs {
		if log.WornDate.Before(windowSince) {
			continue
		}
		recent := !log.WornDate.Before(excludeSince)
		for _, id := range log.ItemIDs {
			if recent {
				worn.Excluded[id] = struct{}{}
			} else {
				worn.Penalized[id] = struct{}{}
			}
		}
	}
	// an item worn both yesterday and five days ago stays hard-excluded
	for id := range worn.Excluded {
		delete(worn.Penalized, id)
	}
	return worn
}
