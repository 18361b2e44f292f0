package stylist

import (
	"context"
	"fmt"
	"time"

	"wearlyapi/models"
)

// Condition is the coarse weather bucket the engine cares about.
type Condition string

const (
	ConditionClear  Condition = "clear"
	ConditionCloudy Condition = "cloudy"
	ConditionRain   Condition = "rain"
	ConditionSnow   Condition = "snow"
)

// WeatherSnapshot carries resolved current conditions. Temperatures are
// fahrenheit - providers convert at the boundary.
type WeatherSnapshot struct {
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Condition   Condition `json:"condition"`
	Humidity    float64   `json:"humidity"`
	Description string    `json:"description"`
}

type ItemStore interface {
	ListAllItems(ctx context.Context) ([]models.ClothingItem, error)
}

// WearLog is one logged outfit with the ids of the items it contained.
type WearLog struct {
	WornDate time.Time
	ItemIDs  []uint
}

type WearHistoryStore interface {
	ListWornLogsSince(ctx context.Context, since time.Time) ([]WearLog, error)
}

// OutfitCandidate is a structurally valid outfit: top, bottom and shoes are
// always set, outerwear and accessory may be nil.
type OutfitCandidate struct {
	Top       *models.ClothingItem `json:"top"`
	Bottom    *models.ClothingItem `json:"bottom"`
	Shoes     *models.ClothingItem `json:"shoes"`
	Outerwear *models.ClothingItem `json:"outerwear,omitempty"`
	Accessory *models.ClothingItem `json:"accessory,omitempty"`
}

// Items returns the non-null items of the candidate.
func (o OutfitCandidate) Items() []*models.ClothingItem {
	var items []*models.ClothingItem
	for _, it := range []*models.ClothingItem{o.Top, o.Bottom, o.Shoes, o.Outerwear, o.Accessory} {
		if it != nil {
			items = append(items, it)
		}
	}
	return items
}

func (o OutfitCandidate) ItemIDs() []uint {
	items := o.Items()
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

type ScoreBreakdown struct {
	Weather   float64 `json:"weather_score"`
	Formality float64 `json:"formality_score"`
	Color     float64 `json:"color_score"`
	Freshness float64 `json:"freshness_score"`
	Total     float64 `json:"total"`
}

type ScoredOutfit struct {
	Outfit OutfitCandidate `json:"outfit"`
	Score  ScoreBreakdown  `json:"score"`
}

type OutfitSuggestion struct {
	Outfit OutfitCandidate `json:"outfit"`
	Score  ScoreBreakdown  `json:"score"`
	Reason string          `json:"reason"`
}

const DefaultSuggestionCount = 3

// Engine runs the suggestion pipeline: load wardrobe, bucket recent wear,
// filter, enumerate, score, select. It holds no state between calls.
type Engine struct {
	Items   ItemStore
	History WearHistoryStore
	// Now supplies engine time for history bucketing, defaults to time.Now.
	Now func() time.Time
}

func (e *Engine) today() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// GenerateSuggestions returns up to count scored outfit suggestions for the
// given weather and target dress code. An empty wardrobe or a wardrobe with no
// eligible combinations yields an empty list, not an error. Store failures
// propagate untouched - partial data would produce misleading suggestions.
func (e *Engine) GenerateSuggestions(ctx context.Context, weather WeatherSnapshot, formality models.FormalityLevel, count int) ([]OutfitSuggestion, error) {
	if count <= 0 {
		count = DefaultSuggestionCount
	}

	items, err := e.Items.ListAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing wardrobe items: %w", err)
	}
	if len(items) == 0 {
		return []OutfitSuggestion{}, nil
	}

	today := e.today()
	logs, err := e.History.ListWornLogsSince(ctx, today.AddDate(0, 0, -historyWindowDays))
	if err != nil {
		return nil, fmt.Errorf("listing wear history: %w", err)
	}
	worn := AnalyzeRecentWear(logs, today)

	eligible, err := FilterByContext(items, weather, formality)
	if err != nil {
		return nil, err
	}

	candidates := GenerateCandidates(eligible, weather)
	if len(candidates) == 0 {
		// The warmth bands can wipe out a whole core category, for example a
		// summer-only closet on a freezing day. Dressing badly beats not
		// dressing at all, so retry without the warmth cut and let the weather
		// score carry the mismatch.
		relaxed, err := filterByContext(items, weather, formality, true)
		if err != nil {
			return nil, err
		}
		candidates = GenerateCandidates(relaxed, weather)
	}
	scored := make([]ScoredOutfit, 0, len(candidates))
	for _, cand := range candidates {
		scored = append(scored, ScoredOutfit{Outfit: cand, Score: ScoreOutfit(cand, weather, formality, worn)})
	}

	picked := SelectTop(scored, count)
	suggestions := make([]OutfitSuggestion, 0, len(picked))
	for _, s := range picked {
		suggestions = append(suggestions, OutfitSuggestion{
			Outfit: s.Outfit,
			Score:  s.Score,
			Reason: Reason(s, weather),
		})
	}
	return suggestions, nil
}
