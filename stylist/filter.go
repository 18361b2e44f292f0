package stylist

import (
	"fmt"
	"strings"

	"wearlyapi/models"
)

// Ideal temperature band per warmth rating, fahrenheit. An item stays
// eligible while the current temperature is within band +/- bandTolerance.
var warmthBands = map[int][2]float64{
	1: {75, 120},
	2: {65, 85},
	3: {50, 70},
	4: {35, 55},
	5: {-20, 50},
}

const bandTolerance = 10.0

type season string

const (
	seasonSummer season = "summer"
	seasonSpring season = "spring"
	seasonFall   season = "fall"
	seasonWinter season = "winter"
)

// Each season accepts its own tag plus adjacent seasons. The 60-75 band is
// the spring/fall transition and maps to spring, whose adjacency already
// covers both summer and fall.
var seasonAllowedTags = map[season][]string{
	seasonSummer: {"summer", "spring"},
	seasonSpring: {"spring", "summer", "fall"},
	seasonFall:   {"fall", "spring", "winter"},
	seasonWinter: {"winter", "fall"},
}

var knownSeasonTags = []string{"summer", "spring", "fall", "winter"}
var universalSeasonTags = []string{"all-season", "year-round"}

func seasonForTemperature(temp float64) season {
	switch {
	case temp >= 75:
		return seasonSummer
	case temp >= 60:
		return seasonSpring
	case temp >= 45:
		return seasonFall
	default:
		return seasonWinter
	}
}

// FilterByContext drops items that cannot work for the requested dress code,
// the current temperature, or the season, before any combinations are built.
// A warmth rating outside 1..5 is an upstream data bug and fails loudly.
func FilterByContext(items []models.ClothingItem, weather WeatherSnapshot, target models.FormalityLevel) ([]models.ClothingItem, error) {
	return filterByContext(items, weather, target, false)
}

func filterByContext(items []models.ClothingItem, weather WeatherSnapshot, target models.FormalityLevel, skipWarmth bool) ([]models.ClothingItem, error) {
	current := seasonForTemperature(weather.Temperature)
	eligible := make([]models.ClothingItem, 0, len(items))
	for _, item := range items {
		if item.WarmthRating < 1 || item.WarmthRating > 5 {
			return nil, fmt.Errorf("item %v has warmth rating %d outside 1..5", item.ID, item.WarmthRating)
		}
		if !formalityCompatible(item.Formality, target) {
			continue
		}
		if !skipWarmth && !warmthCompatible(item.WarmthRating, weather.Temperature) {
			continue
		}
		if !seasonCompatible(item.Tags, current) {
			continue
		}
		eligible = append(eligible, item)
	}
	return eligible, nil
}

// Adjacent dress codes mix fine, casual with formal never does.
func formalityCompatible(item, target models.FormalityLevel) bool {
	diff := item.Level() - target.Level()
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1
}

func warmthCompatible(rating int, temp float64) bool {
	band := warmthBands[rating]
	return temp >= band[0]-bandTolerance && temp <= band[1]+bandTolerance
}

// Items without any season-like tag are neutral and always pass. Tagged items
// must overlap the current season's allowed set or carry a universal tag.
func seasonCompatible(tags []string, current season) bool {
	allowed := seasonAllowedTags[current]
	hasSeasonTag := false
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		for _, universal := range universalSeasonTags {
			if tag == universal {
				return true
			}
		}
		for _, known := range knownSeasonTags {
			if tag == known {
				hasSeasonTag = true
			}
		}
		for _, ok := range allowed {
			if tag == ok {
				return true
			}
		}
	}
	return !hasSeasonTag
}
