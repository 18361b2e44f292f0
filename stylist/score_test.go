package stylist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wearlyapi/models"
)

func coreCandidate(top, bottom, shoes models.ClothingItem) OutfitCandidate {
	return OutfitCandidate{Top: &top, Bottom: &bottom, Shoes: &shoes}
}

func TestScoreWeatherIdealWarmth(t *testing.T) {
	cand := coreCandidate(
		testItem(1, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 2, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "white", 2, models.FormalityCasual),
	)

	// avg warmth 2 vs ideal 1.5 at 80F: 30 - 6*0.5
	score := scoreWeather(cand, WeatherSnapshot{Temperature: 80, Condition: ConditionClear})
	assert.InDelta(t, 27.0, score, 0.001)

	// 2.5 away from the cold-weather ideal costs 15 points
	score = scoreWeather(cand, WeatherSnapshot{Temperature: 20, Condition: ConditionClear})
	assert.InDelta(t, 15.0, score, 0.001)
}

func TestScoreWeatherWaterproofBonusInRain(t *testing.T) {
	dry := coreCandidate(
		testItem(1, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 3, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "white", 3, models.FormalityCasual),
	)
	waterproof := coreCandidate(
		testItem(1, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 3, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "white", 3, models.FormalityCasual, "waterproof"),
	)

	rain := WeatherSnapshot{Temperature: 80, Condition: ConditionRain}
	assert.InDelta(t, 5.0, scoreWeather(waterproof, rain)-scoreWeather(dry, rain), 0.001)

	clear := WeatherSnapshot{Temperature: 80, Condition: ConditionClear}
	assert.InDelta(t, 0.0, scoreWeather(waterproof, clear)-scoreWeather(dry, clear), 0.001)
}

func TestScoreWeatherOuterwearBonusWhenCold(t *testing.T) {
	bare := coreCandidate(
		testItem(1, models.CategoryTop, "white", 4, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 3, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "white", 3, models.FormalityCasual),
	)
	outerwear := testItem(4, models.CategoryOuterwear, "black", 4, models.FormalityCasual)
	layered := bare
	layered.Outerwear = &outerwear

	cold := WeatherSnapshot{Temperature: 40, Condition: ConditionClear}
	assert.Greater(t, scoreWeather(layered, cold), scoreWeather(bare, cold))
}

func TestScoreFormalityExactMatch(t *testing.T) {
	cand := coreCandidate(
		testItem(1, models.CategoryTop, "white", 2, models.FormalityBusinessCasual),
		testItem(2, models.CategoryBottom, "black", 2, models.FormalityBusinessCasual),
		testItem(3, models.CategoryShoes, "black", 2, models.FormalityBusinessCasual),
	)

	assert.InDelta(t, maxFormalityScore, scoreFormality(cand, models.FormalityBusinessCasual), 0.001)
}

func TestScoreFormalitySpreadPenalty(t *testing.T) {
	cand := coreCandidate(
		testItem(1, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 2, models.FormalityFormal),
		testItem(3, models.CategoryShoes, "black", 2, models.FormalityBusinessCasual),
	)

	// (15+15+25)/3 minus the casual-with-formal spread penalty
	assert.InDelta(t, 55.0/3-5, scoreFormality(cand, models.FormalityBusinessCasual), 0.001)
}

func TestScoreFormalityNoMatch(t *testing.T) {
	cand := coreCandidate(
		testItem(1, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 2, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "black", 2, models.FormalityCasual),
	)

	assert.Equal(t, 0.0, scoreFormality(cand, models.FormalityFormal))
}

func TestScoreColorAllNeutral(t *testing.T) {
	cand := coreCandidate(
		testItem(1, models.CategoryTop, "black", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "gray", 2, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "beige", 2, models.FormalityCasual),
	)

	assert.InDelta(t, 18.0, scoreColor(cand), 0.001)
}

func TestScoreColorComplementaryPair(t *testing.T) {
	cand := coreCandidate(
		testItem(1, models.CategoryTop, "blue", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "orange", 2, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "black", 2, models.FormalityCasual),
	)

	// base 10 + blue/orange bonus, no neutral majority
	assert.InDelta(t, 14.0, scoreColor(cand), 0.001)
}

func TestScoreColorClashPenalty(t *testing.T) {
	cand := coreCandidate(
		testItem(1, models.CategoryTop, "red", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "pink", 2, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "white", 2, models.FormalityCasual),
	)

	assert.InDelta(t, 5.0, scoreColor(cand), 0.001)
}

func TestScoreColorEmptyColorIsNeutral(t *testing.T) {
	cand := coreCandidate(
		testItem(1, models.CategoryTop, "", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "white", 2, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "Black", 2, models.FormalityCasual),
	)

	// all three count as neutral, black/white adds the complementary bonus
	assert.InDelta(t, 20.0, scoreColor(cand), 0.001)
}

func TestScoreFreshness(t *testing.T) {
	cand := coreCandidate(
		testItem(1, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 2, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "white", 2, models.FormalityCasual),
	)

	fresh := RecentlyWornSets{Excluded: map[uint]struct{}{}, Penalized: map[uint]struct{}{}}
	assert.Equal(t, maxFreshnessScore, scoreFreshness(cand, fresh))

	onePenalized := RecentlyWornSets{Excluded: map[uint]struct{}{}, Penalized: map[uint]struct{}{2: {}}}
	assert.Equal(t, 15.0, scoreFreshness(cand, onePenalized))

	twoPenalized := RecentlyWornSets{Excluded: map[uint]struct{}{}, Penalized: map[uint]struct{}{1: {}, 2: {}}}
	assert.Equal(t, 8.0, scoreFreshness(cand, twoPenalized))

	excluded := RecentlyWornSets{Excluded: map[uint]struct{}{3: {}}, Penalized: map[uint]struct{}{1: {}}}
	assert.Equal(t, 0.0, scoreFreshness(cand, excluded))
}

func TestScoreOutfitExcludedItemZeroesTotal(t *testing.T) {
	cand := coreCandidate(
		testItem(1, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 2, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "white", 2, models.FormalityCasual),
	)
	worn := RecentlyWornSets{Excluded: map[uint]struct{}{2: {}}, Penalized: map[uint]struct{}{}}
	weather := WeatherSnapshot{Temperature: 75, Condition: ConditionClear}

	breakdown := ScoreOutfit(cand, weather, models.FormalityCasual, worn)
	// the whole outfit scores zero, good weather or color points cannot keep
	// a recently worn item in rotation
	assert.Equal(t, ScoreBreakdown{}, breakdown)
}

func TestScoreOutfitTotalIsSumOfParts(t *testing.T) {
	cand := coreCandidate(
		testItem(1, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 2, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "white", 2, models.FormalityCasual),
	)
	worn := RecentlyWornSets{Excluded: map[uint]struct{}{}, Penalized: map[uint]struct{}{}}
	weather := WeatherSnapshot{Temperature: 75, Condition: ConditionClear}

	breakdown := ScoreOutfit(cand, weather, models.FormalityCasual, worn)

	assert.InDelta(t, breakdown.Weather+breakdown.Formality+breakdown.Color+breakdown.Freshness, breakdown.Total, 0.001)
	assert.GreaterOrEqual(t, breakdown.Weather, 0.0)
	assert.LessOrEqual(t, breakdown.Weather, maxWeatherScore)
	assert.LessOrEqual(t, breakdown.Formality, maxFormalityScore)
	assert.LessOrEqual(t, breakdown.Color, maxColorScore)
	assert.LessOrEqual(t, breakdown.Freshness, maxFreshnessScore)
	assert.LessOrEqual(t, breakdown.Total, 100.0)
}
