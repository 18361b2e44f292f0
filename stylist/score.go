package stylist

import (
	"math"
	"strings"

	"wearlyapi/models"
)

const (
	maxWeatherScore   = 30.0
	maxFormalityScore = 25.0
	maxColorScore     = 20.0
	maxFreshnessScore = 25.0
)

// ScoreOutfit computes the four independent sub-scores. Each one is clamped
// into its own range before summing, so no factor can offset another's clamp.
// An item worn within the exclusion window sinks the whole outfit to zero, not
// just its freshness share, so selection discards it outright.
func ScoreOutfit(c OutfitCandidate, weather WeatherSnapshot, target models.FormalityLevel, worn RecentlyWornSets) ScoreBreakdown {
	if containsExcludedItem(c, worn) {
		return ScoreBreakdown{}
	}
	b := ScoreBreakdown{
		Weather:   scoreWeather(c, weather),
		Formality: scoreFormality(c, target),
		Color:     scoreColor(c),
		Freshness: scoreFreshness(c, worn),
	}
	b.Total = b.Weather + b.Formality + b.Color + b.Freshness
	return b
}

func containsExcludedItem(c OutfitCandidate, worn RecentlyWornSets) bool {
	for _, id := range c.ItemIDs() {
		if _, ok := worn.Excluded[id]; ok {
			return true
		}
	}
	return false
}

func idealWarmth(temp float64) float64 {
	switch {
	case temp >= 75:
		return 1.5
	case temp >= 60:
		return 2.5
	case temp >= 45:
		return 3.5
	default:
		return 4.5
	}
}

var waterproofTags = []string{"waterproof", "rain", "water-resistant"}

func scoreWeather(c OutfitCandidate, weather WeatherSnapshot) float64 {
	items := c.Items()
	var sum float64
	for _, item := range items {
		sum += float64(item.WarmthRating)
	}
	avgWarmth := sum / float64(len(items))

	score := maxWeatherScore - 6*math.Abs(avgWarmth-idealWarmth(weather.Temperature))
	if weather.Temperature < outerwearRequiredBelow && c.Outerwear != nil {
		score += 5
	}
	if weather.Condition == ConditionRain || weather.Condition == ConditionSnow {
		if hasAnyTag(items, waterproofTags) {
			score += 5
		}
	}
	return clamp(score, 0, maxWeatherScore)
}

func scoreFormality(c OutfitCandidate, target models.FormalityLevel) float64 {
	items := c.Items()
	var sum float64
	minLevel, maxLevel := 2, 0
	for _, item := range items {
		level := item.Formality.Level()
		diff := level - target.Level()
		if diff < 0 {
			diff = -diff
		}
		switch diff {
		case 0:
			sum += 25
		case 1:
			sum += 15
		}
		if level < minLevel {
			minLevel = level
		}
		if level > maxLevel {
			maxLevel = level
		}
	}
	score := sum / float64(len(items))
	// casual mixed with formal anywhere reads as inconsistent
	if maxLevel-minLevel > 1 {
		score -= 5
	}
	return clamp(score, 0, maxFormalityScore)
}

var neutralColors = []string{"black", "white", "gray", "grey", "beige", "tan", "brown", "navy", "cream"}

var complementaryPairs = [][2]string{
	{"blue", "orange"},
	{"red", "green"},
	{"yellow", "purple"},
	{"pink", "green"},
	{"navy", "white"},
	{"black", "white"},
}

var clashingPairs = [][2]string{
	{"brown", "black"},
	{"navy", "black"},
	{"red", "pink"},
}

func isNeutralColor(color string) bool {
	if color == "" {
		return true
	}
	for _, neutral := range neutralColors {
		if strings.Contains(color, neutral) {
			return true
		}
	}
	return false
}

func colorPresent(colors []string, name string) bool {
	for _, color := range colors {
		if strings.Contains(color, name) {
			return true
		}
	}
	return false
}

func scoreColor(c OutfitCandidate) float64 {
	items := c.Items()
	colors := make([]string, 0, len(items))
	neutralCount := 0
	nonNeutral := map[string]struct{}{}
	for _, item := range items {
		color := strings.ToLower(strings.TrimSpace(item.Color))
		colors = append(colors, color)
		if isNeutralColor(color) {
			neutralCount++
		} else {
			nonNeutral[color] = struct{}{}
		}
	}

	score := 10.0
	if neutralCount == len(colors) {
		score += 8
	} else if neutralCount == len(colors)-1 {
		score += 6
	}
	for _, pair := range complementaryPairs {
		if colorPresent(colors, pair[0]) && colorPresent(colors, pair[1]) {
			score += 4
		}
	}
	for _, pair := range clashingPairs {
		if colorPresent(colors, pair[0]) && colorPresent(colors, pair[1]) {
			score -= 5
		}
	}
	if len(nonNeutral) > 2 {
		score -= 3
	}
	return clamp(score, 0, maxColorScore)
}

// A hard-excluded item floors the sub-score to 0; ScoreOutfit zeroes the rest
// of the breakdown for those candidates. Penalized items only dampen it.
func scoreFreshness(c OutfitCandidate, worn RecentlyWornSets) float64 {
	penalized := 0
	for _, id := range c.ItemIDs() {
		if _, ok := worn.Excluded[id]; ok {
			return 0
		}
		if _, ok := worn.Penalized[id]; ok {
			penalized++
		}
	}
	switch penalized {
	case 0:
		return maxFreshnessScore
	case 1:
		return 15
	case 2:
		return 8
	default:
		return 5
	}
}

func hasAnyTag(items []*models.ClothingItem, wanted []string) bool {
	for _, item := range items {
		for _, raw := range item.Tags {
			tag := strings.ToLower(strings.TrimSpace(raw))
			for _, w := range wanted {
				if tag == w {
					return true
				}
			}
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
