package stylist

import (
	"sort"
	"strings"
	"unicode"
)

// Reason composes a short explanation from the strongest score factors.
// Presentation only - any deterministic wording satisfies the contract.
func Reason(s ScoredOutfit, weather WeatherSnapshot) string {
	type factor struct {
		name string
		pct  float64
	}
	factors := []factor{
		{"weather", s.Score.Weather / maxWeatherScore},
		{"formality", s.Score.Formality / maxFormalityScore},
		{"color", s.Score.Color / maxColorScore},
		{"freshness", s.Score.Freshness / maxFreshnessScore},
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].pct > factors[j].pct
	})

	var clauses []string
	if factors[0].name == "weather" && s.Score.Weather >= 25 {
		var clause string
		switch {
		case weather.Temperature < 45:
			clause = "bundled up right for the cold"
		case weather.Temperature > 75:
			clause = "light and breathable for the heat"
		default:
			clause = "well matched to today's temperature"
		}
		if weather.Condition == ConditionRain {
			clause += " and ready for the rain"
		}
		clauses = append(clauses, clause)
	}
	if s.Score.Formality >= 20 {
		clauses = append(clauses, "fits your dress code")
	}
	if s.Score.Freshness >= maxFreshnessScore {
		clauses = append(clauses, "nothing you've worn lately")
	} else if s.Score.Freshness >= 15 {
		clauses = append(clauses, "mostly fresh pieces")
	}
	if s.Score.Color >= 18 {
		clauses = append(clauses, "excellent color coordination")
	} else if s.Score.Color >= 15 {
		clauses = append(clauses, "well-coordinated colors")
	}

	if len(clauses) == 0 {
		return "Good outfit for today"
	}
	return capitalize(strings.Join(clauses, ", "))
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
