package stylist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wearlyapi/models"
)

func eligibleIDs(t *testing.T, items []models.ClothingItem, weather WeatherSnapshot, target models.FormalityLevel) []uint {
	t.Helper()
	eligible, err := FilterByContext(items, weather, target)
	require.NoError(t, err)
	ids := make([]uint, 0, len(eligible))
	for _, item := range eligible {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestFilterFormality(t *testing.T) {
	items := []models.ClothingItem{
		testItem(1, models.CategoryTop, "white", 3, models.FormalityCasual),
		testItem(2, models.CategoryTop, "white", 3, models.FormalityBusinessCasual),
		testItem(3, models.CategoryTop, "white", 3, models.FormalityFormal),
	}
	weather := WeatherSnapshot{Temperature: 60}

	// adjacent levels mix, two steps apart never do
	assert.Equal(t, []uint{1, 2}, eligibleIDs(t, items, weather, models.FormalityCasual))
	assert.Equal(t, []uint{1, 2, 3}, eligibleIDs(t, items, weather, models.FormalityBusinessCasual))
	assert.Equal(t, []uint{2, 3}, eligibleIDs(t, items, weather, models.FormalityFormal))
}

func TestFilterWarmthBands(t *testing.T) {
	items := []models.ClothingItem{
		testItem(1, models.CategoryTop, "white", 1, models.FormalityCasual),
		testItem(2, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(3, models.CategoryTop, "white", 3, models.FormalityCasual),
		testItem(4, models.CategoryTop, "white", 4, models.FormalityCasual),
		testItem(5, models.CategoryTop, "white", 5, models.FormalityCasual),
	}

	// 50F: light summer pieces are out, mid and heavy stay
	assert.Equal(t, []uint{3, 4, 5}, eligibleIDs(t, items, WeatherSnapshot{Temperature: 50}, models.FormalityCasual))
	// 90F: only the lightest ratings survive
	assert.Equal(t, []uint{1, 2}, eligibleIDs(t, items, WeatherSnapshot{Temperature: 90}, models.FormalityCasual))
	// 20F: heavy winter gear only
	assert.Equal(t, []uint{5}, eligibleIDs(t, items, WeatherSnapshot{Temperature: 20}, models.FormalityCasual))
}

func TestFilterSeasonTags(t *testing.T) {
	items := []models.ClothingItem{
		testItem(1, models.CategoryTop, "white", 3, models.FormalityCasual, "summer"),
		testItem(2, models.CategoryTop, "white", 3, models.FormalityCasual, "winter"),
		testItem(3, models.CategoryTop, "white", 3, models.FormalityCasual, "fall"),
		testItem(4, models.CategoryTop, "white", 3, models.FormalityCasual),
		testItem(5, models.CategoryTop, "white", 3, models.FormalityCasual, "all-season"),
		testItem(6, models.CategoryTop, "white", 3, models.FormalityCasual, "Waterproof"),
	}

	// 50F is fall: summer-only items drop, untagged and non-season tags pass
	assert.Equal(t, []uint{2, 3, 4, 5, 6}, eligibleIDs(t, items, WeatherSnapshot{Temperature: 50}, models.FormalityCasual))
}

func TestFilterSeasonTransitionBand(t *testing.T) {
	items := []models.ClothingItem{
		testItem(1, models.CategoryTop, "white", 3, models.FormalityCasual, "summer"),
		testItem(2, models.CategoryTop, "white", 3, models.FormalityCasual, "fall"),
		testItem(3, models.CategoryTop, "white", 3, models.FormalityCasual, "winter"),
	}

	// 65F sits in the spring/fall transition: both summer and fall tags pass
	assert.Equal(t, []uint{1, 2}, eligibleIDs(t, items, WeatherSnapshot{Temperature: 65}, models.FormalityCasual))
}

func TestFilterSeasonTagCaseInsensitive(t *testing.T) {
	items := []models.ClothingItem{
		testItem(1, models.CategoryTop, "white", 3, models.FormalityCasual, " Summer "),
	}

	assert.Empty(t, eligibleIDs(t, items, WeatherSnapshot{Temperature: 30}, models.FormalityCasual))
	assert.Equal(t, []uint{1}, eligibleIDs(t, items, WeatherSnapshot{Temperature: 80}, models.FormalityCasual))
}

func TestFilterInvalidWarmthRating(t *testing.T) {
	items := []models.ClothingItem{
		testItem(1, models.CategoryTop, "white", 0, models.FormalityCasual),
	}

	_, err := FilterByContext(items, WeatherSnapshot{Temperature: 60}, models.FormalityCasual)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warmth rating")
}
