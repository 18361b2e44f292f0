package stylist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wearlyapi/models"
)

func TestGenerateCandidatesCounts(t *testing.T) {
	items := []models.ClothingItem{
		testItem(1, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(2, models.CategoryTop, "blue", 2, models.FormalityCasual),
		testItem(3, models.CategoryBottom, "black", 2, models.FormalityCasual),
		testItem(4, models.CategoryBottom, "navy", 2, models.FormalityCasual),
		testItem(5, models.CategoryShoes, "white", 2, models.FormalityCasual),
		testItem(6, models.CategoryOuterwear, "black", 3, models.FormalityCasual),
		testItem(7, models.CategoryAccessory, "brown", 1, models.FormalityCasual),
	}

	candidates := GenerateCandidates(items, WeatherSnapshot{Temperature: 70})

	// 4 core combos, each in 4 variants: bare, +accessory, +outerwear, +both
	require.Len(t, candidates, 16)
	for _, cand := range candidates {
		require.NotNil(t, cand.Top)
		require.NotNil(t, cand.Bottom)
		require.NotNil(t, cand.Shoes)
	}
}

func TestGenerateCandidatesMissingCoreCategory(t *testing.T) {
	items := []models.ClothingItem{
		testItem(1, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 2, models.FormalityCasual),
		// no shoes
		testItem(3, models.CategoryOuterwear, "black", 3, models.FormalityCasual),
	}

	candidates := GenerateCandidates(items, WeatherSnapshot{Temperature: 70})
	assert.Empty(t, candidates)
}

func TestGenerateCandidatesColdMandatesOuterwear(t *testing.T) {
	items := []models.ClothingItem{
		testItem(1, models.CategoryTop, "white", 3, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 3, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "white", 3, models.FormalityCasual),
		testItem(4, models.CategoryOuterwear, "black", 4, models.FormalityCasual),
		testItem(5, models.CategoryOuterwear, "navy", 5, models.FormalityCasual),
	}

	candidates := GenerateCandidates(items, WeatherSnapshot{Temperature: 45})
	require.NotEmpty(t, candidates)
	for _, cand := range candidates {
		require.NotNil(t, cand.Outerwear)
	}
}

func TestGenerateCandidatesColdWithoutAnyOuterwear(t *testing.T) {
	items := []models.ClothingItem{
		testItem(1, models.CategoryTop, "white", 4, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 4, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "white", 4, models.FormalityCasual),
	}

	// nothing to mandate when no outerwear survived filtering
	candidates := GenerateCandidates(items, WeatherSnapshot{Temperature: 45})
	require.Len(t, candidates, 1)
	assert.Nil(t, candidates[0].Outerwear)
}

func TestGenerateCandidatesAccessoryVariants(t *testing.T) {
	items := []models.ClothingItem{
		testItem(1, models.CategoryTop, "white", 2, models.FormalityCasual),
		testItem(2, models.CategoryBottom, "black", 2, models.FormalityCasual),
		testItem(3, models.CategoryShoes, "white", 2, models.FormalityCasual),
		testItem(4, models.CategoryAccessory, "brown", 1, models.FormalityCasual),
	}

	candidates := GenerateCandidates(items, WeatherSnapshot{Temperature: 70})
	require.Len(t, candidates, 2)
	assert.Nil(t, candidates[0].Accessory)
	require.NotNil(t, candidates[1].Accessory)
	assert.Equal(t, uint(4), candidates[1].Accessory.ID)
}

func TestGenerateCandidatesCeiling(t *testing.T) {
	var items []models.ClothingItem
	id := uint(1)
	add := func(category models.ClothingCategory, n int) {
		for i := 0; i < n; i++ {
			items = append(items, testItem(id, category, "white", 2, models.FormalityCasual))
			id++
		}
	}
	// more than the per-category caps on every slot
	add(models.CategoryTop, 15)
	add(models.CategoryBottom, 15)
	add(models.CategoryShoes, 15)
	add(models.CategoryOuterwear, 10)
	add(models.CategoryAccessory, 10)

	candidates := GenerateCandidates(items, WeatherSnapshot{Temperature: 70})
	assert.LessOrEqual(t, len(candidates), maxCandidates)
	assert.NotEmpty(t, candidates)
}
