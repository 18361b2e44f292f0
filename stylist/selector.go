package stylist

import (
	"fmt"
	"sort"

	"wearlyapi/models"
)

// Backfill works off the best-scoring candidates only.
const selectionPoolSize = 20

// SelectTop picks up to count suggestions from the scored candidates.
// Zero-total candidates (hard freshness exclusion) are discarded outright - a
// wardrobe with too few fresh items legitimately yields fewer than count
// results. A greedy pass prefers outfits sharing no items and keeps scanning
// the full ranking until it finds them: with many equal-scoring combinations
// the near-best of the list all share the same lead item, so stopping at a
// fixed pool depth would defeat diversity. The backfill pass relaxes the
// no-shared-item constraint when diversity alone cannot fill the quota, and
// only draws from the top of the ranking.
func SelectTop(scored []ScoredOutfit, count int) []ScoredOutfit {
	ranked := make([]ScoredOutfit, 0, len(scored))
	for _, s := range scored {
		if s.Score.Total > 0 {
			ranked = append(ranked, s)
		}
	}
	// stable keeps generation order for ties, which keeps selection
	// deterministic for identical inputs
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Total > ranked[j].Score.Total
	})

	picked := []ScoredOutfit{}
	usedItems := map[uint]struct{}{}
	for _, cand := range ranked {
		if len(picked) >= count {
			break
		}
		if sharesUsedItem(cand.Outfit, usedItems) {
			continue
		}
		picked = append(picked, cand)
		for _, id := range cand.Outfit.ItemIDs() {
			usedItems[id] = struct{}{}
		}
	}

	if len(picked) < count {
		pool := ranked
		if len(pool) > selectionPoolSize {
			pool = pool[:selectionPoolSize]
		}
		taken := map[string]struct{}{}
		for _, p := range picked {
			taken[outfitKey(p.Outfit)] = struct{}{}
		}
		for _, cand := range pool {
			if len(picked) >= count {
				break
			}
			key := outfitKey(cand.Outfit)
			if _, ok := taken[key]; ok {
				continue
			}
			picked = append(picked, cand)
			taken[key] = struct{}{}
		}
	}
	return picked
}

func sharesUsedItem(o OutfitCandidate, used map[uint]struct{}) bool {
	for _, id := range o.ItemIDs() {
		if _, ok := used[id]; ok {
			return true
		}
	}
	return false
}

// outfitKey is the exact item-id tuple identity, nil slots included.
func outfitKey(o OutfitCandidate) string {
	return fmt.Sprintf("%d/%d/%d/%d/%d",
		slotID(o.Top), slotID(o.Bottom), slotID(o.Shoes), slotID(o.Outerwear), slotID(o.Accessory))
}

func slotID(item *models.ClothingItem) uint {
	if item == nil {
		return 0
	}
	return item.ID
}
