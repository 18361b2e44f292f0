package stylist

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReasonColdWeather(t *testing.T) {
	scored := ScoredOutfit{Score: ScoreBreakdown{Weather: 28, Formality: 10, Color: 10, Freshness: 10}}
	reason := Reason(scored, WeatherSnapshot{Temperature: 30, Condition: ConditionClear})
	assert.Contains(t, reason, "cold")
}

func TestReasonRainMentioned(t *testing.T) {
	scored := ScoredOutfit{Score: ScoreBreakdown{Weather: 28, Formality: 10, Color: 10, Freshness: 10}}
	reason := Reason(scored, WeatherSnapshot{Temperature: 65, Condition: ConditionRain})
	assert.Contains(t, reason, "rain")
}

func TestReasonFreshness(t *testing.T) {
	scored := ScoredOutfit{Score: ScoreBreakdown{Weather: 10, Formality: 10, Color: 10, Freshness: maxFreshnessScore}}
	reason := Reason(scored, WeatherSnapshot{Temperature: 65, Condition: ConditionClear})
	assert.Contains(t, reason, "worn lately")
}

func TestReasonFallback(t *testing.T) {
	scored := ScoredOutfit{Score: ScoreBreakdown{Weather: 5, Formality: 5, Color: 5, Freshness: 5}}
	reason := Reason(scored, WeatherSnapshot{Temperature: 65, Condition: ConditionClear})
	assert.Equal(t, "Good outfit for today", reason)
}

func TestReasonDeterministicAndCapitalized(t *testing.T) {
	scored := ScoredOutfit{Score: ScoreBreakdown{Weather: 28, Formality: 22, Color: 19, Freshness: maxFreshnessScore}}
	weather := WeatherSnapshot{Temperature: 80, Condition: ConditionClear}

	first := Reason(scored, weather)
	second := Reason(scored, weather)
	assert.Equal(t, first, second)

	runes := []rune(first)
	require.NotEmpty(t, runes)
	assert.True(t, unicode.IsUpper(runes[0]))
}
