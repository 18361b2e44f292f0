package stylist

import "wearlyapi/models"

// Outerwear becomes mandatory below this temperature whenever any outerwear
// survived filtering.
const outerwearRequiredBelow = 50.0

// The cross-product explodes for big closets, so each category is capped and
// enumeration stops at a hard candidate ceiling. Caps keep input order, which
// keeps the pipeline deterministic.
const (
	maxPerCoreCategory     = 10
	maxPerOptionalCategory = 6
	maxCandidates          = 10000
)

// GenerateCandidates enumerates every structurally valid outfit from the
// filtered pool. Top, bottom and shoes are required - if any of those
// categories is empty the result is empty, not an error. Accessory variants
// (with and without) are produced at every outerwear state.
func GenerateCandidates(items []models.ClothingItem, weather WeatherSnapshot) []OutfitCandidate {
	var tops, bottoms, shoes, outerwear, accessories []models.ClothingItem
	for _, item := range items {
		switch item.Category {
		case models.CategoryTop:
			tops = append(tops, item)
		case models.CategoryBottom:
			bottoms = append(bottoms, item)
		case models.CategoryShoes:
			shoes = append(shoes, item)
		case models.CategoryOuterwear:
			outerwear = append(outerwear, item)
		case models.CategoryAccessory:
			accessories = append(accessories, item)
		}
	}
	tops = capCategory(tops, maxPerCoreCategory)
	bottoms = capCategory(bottoms, maxPerCoreCategory)
	shoes = capCategory(shoes, maxPerCoreCategory)
	outerwear = capCategory(outerwear, maxPerOptionalCategory)
	accessories = capCategory(accessories, maxPerOptionalCategory)

	if len(tops) == 0 || len(bottoms) == 0 || len(shoes) == 0 {
		return nil
	}

	requireOuterwear := weather.Temperature < outerwearRequiredBelow && len(outerwear) > 0

	var candidates []OutfitCandidate
	full := false
	add := func(c OutfitCandidate) {
		if len(candidates) >= maxCandidates {
			full = true
			return
		}
		candidates = append(candidates, c)
	}
	withAccessories := func(c OutfitCandidate) {
		add(c)
		for a := range accessories {
			v := c
			v.Accessory = &accessories[a]
			add(v)
		}
	}

	for t := range tops {
		for b := range bottoms {
			for s := range shoes {
				base := OutfitCandidate{Top: &tops[t], Bottom: &bottoms[b], Shoes: &shoes[s]}
				if !requireOuterwear {
					withAccessories(base)
				}
				for o := range outerwear {
					v := base
					v.Outerwear = &outerwear[o]
					withAccessories(v)
				}
				if full {
					return candidates
				}
			}
		}
	}
	return candidates
}

func capCategory(items []models.ClothingItem, limit int) []models.ClothingItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
