package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"wearlyapi/models"
	"wearlyapi/services"
	"wearlyapi/stylist"
)

type LogOutfitIn struct {
	TopID       *uint   `json:"top_id" validate:"required"`
	BottomID    *uint   `json:"bottom_id" validate:"required"`
	ShoesID     *uint   `json:"shoes_id" validate:"required"`
	OuterwearID *uint   `json:"outerwear_id"`
	AccessoryID *uint   `json:"accessory_id"`
	WornDate    *string `json:"worn_date" validate:"omitempty,datetime=2006-01-02"`
}

type OutfitItemResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Color    string  `json:"color"`
	Uri      *string `json:"uri,omitempty"`
}

type SuggestedOutfitResponse struct {
	Top       *OutfitItemResponse `json:"top"`
	Bottom    *OutfitItemResponse `json:"bottom"`
	Shoes     *OutfitItemResponse `json:"shoes"`
	Outerwear *OutfitItemResponse `json:"outerwear,omitempty"`
	Accessory *OutfitItemResponse `json:"accessory,omitempty"`

	Score  stylist.ScoreBreakdown `json:"score"`
	Reason string                 `json:"reason"`
}

type SuggestionsResponse struct {
	City        string                    `json:"city"`
	Weather     stylist.WeatherSnapshot   `json:"weather"`
	Formality   string                    `json:"formality"`
	Suggestions []SuggestedOutfitResponse `json:"suggestions"`
}

type OutfitLogResponse struct {
	ID          uint   `json:"id"`
	TopID       *uint  `json:"top_id"`
	BottomID    *uint  `json:"bottom_id"`
	ShoesID     *uint  `json:"shoes_id"`
	OuterwearID *uint  `json:"outerwear_id"`
	AccessoryID *uint  `json:"accessory_id"`
	WornDate    string `json:"worn_date"`
}

type OutfitsController struct {
	Weather     services.WeatherCacher
	URLCache    services.URLCacheServiceProvider
	FirebaseApp *firebase.App
}

func (controller *OutfitsController) OutfitRoutes(g *echo.Group) {
	g.POST("/log", controller.LogOutfit)
	g.GET("/log/list", controller.ListOutfitLogs)
	g.GET("/suggest", controller.SuggestOutfits)
}

func (controller *OutfitsController) LogOutfit(c echo.Context) error {
	var req LogOutfitIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	ids := []uint{}
	for _, id := range []*uint{req.TopID, req.BottomID, req.ShoesID, req.OuterwearID, req.AccessoryID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	var ownedCount int64
	if err := db.Model(&models.ClothingItem{}).Where("id IN ? and owner_id = ?", ids, user.ID).Count(&ownedCount).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to verify items"})
	}
	if ownedCount != int64(len(ids)) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "One or more items were not found in your closet"})
	}

	wornDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.WornDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.WornDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "worn_date must be YYYY-MM-DD"})
		}
		wornDate = parsed
	}

	outfitLog := models.OutfitLog{
		TopID:       req.TopID,
		BottomID:    req.BottomID,
		ShoesID:     req.ShoesID,
		OuterwearID: req.OuterwearID,
		AccessoryID: req.AccessoryID,
		OwnerID:     user.ID,
		WornDate:    wornDate,
	}
	if err := db.Create(&outfitLog).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to log outfit, please try again"})
	}
	fmt.Println("[Outfit] Logged outfit for user ", user.ID, " Log ID: ", outfitLog.ID, " Worn: ", wornDate.Format("2006-01-02"))

	return c.JSON(http.StatusCreated, outfitLogToResponse(outfitLog))
}

func outfitLogToResponse(outfitLog models.OutfitLog) OutfitLogResponse {
	return OutfitLogResponse{
		ID:          outfitLog.ID,
		TopID:       outfitLog.TopID,
		BottomID:    outfitLog.BottomID,
		ShoesID:     outfitLog.ShoesID,
		OuterwearID: outfitLog.OuterwearID,
		AccessoryID: outfitLog.AccessoryID,
		WornDate:    outfitLog.WornDate.Format("2006-01-02"),
	}
}

func (controller *OutfitsController) ListOutfitLogs(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	days := 30
	echo.QueryParamsBinder(c).Int("days", &days)
	if days < 1 || days > 365 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "days must be between 1 and 365"})
	}

	var logs []models.OutfitLog
	since := time.Now().UTC().AddDate(0, 0, -days)
	if err := db.Where("owner_id = ? and worn_date >= ?", user.ID, since).Order("worn_date desc").Find(&logs).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfit logs"})
	}

	responses := make([]OutfitLogResponse, 0, len(logs))
	for _, outfitLog := range logs {
		responses = append(responses, outfitLogToResponse(outfitLog))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"logs": responses,
	})
}

func (controller *OutfitsController) suggestedItem(c echo.Context, item *models.ClothingItem) *OutfitItemResponse {
	if item == nil {
		return nil
	}
	var uri *string
	if item.ImageURL != nil && *item.ImageURL != "" {
		url, err := controller.URLCache.GetReadURL(c.Request().Context(), *item.ImageURL)
		if err != nil {
			log.Printf("CACHE WARNING: could not presign suggested item image '%s': %v", *item.ImageURL, err)
		} else {
			uri = &url
		}
	}
	return &OutfitItemResponse{
		ID:       item.ID,
		Name:     item.Name,
		Category: string(item.Category),
		Color:    item.Color,
		Uri:      uri,
	}
}

func (controller *OutfitsController) SuggestOutfits(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	city := c.QueryParam("city")
	if city == "" {
		city = user.City
	}
	if city == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please set your city in settings or pass the city parameter"})
	}

	formality := user.PreferredFormality
	if raw := c.QueryParam("formality"); raw != "" {
		if !models.ValidateFormalityRaw(raw) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please provide proper formality parameter"})
		}
		formality = models.FormalityLevel(raw)
	}

	count := stylist.DefaultSuggestionCount
	echo.QueryParamsBinder(c).Int("count", &count)
	if count < 1 || count > 10 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "count must be between 1 and 10"})
	}

	weather, err := controller.Weather.CurrentWeather(c.Request().Context(), city)
	if err != nil {
		log.Printf("[Suggest] Weather lookup failed for city %s: %v", city, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Could not fetch the weather for your city, please try again later"})
	}

	store := &services.GormWardrobeStore{DB: db, OwnerID: user.ID}
	engine := stylist.Engine{
		Items:   store,
		History: store,
	}
	suggestions, err := engine.GenerateSuggestions(c.Request().Context(), weather, formality, count)
	if err != nil {
		log.Printf("[Suggest] Engine failed for user %v: %v", user.ID, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not build suggestions, please try again"})
	}

	responses := make([]SuggestedOutfitResponse, 0, len(suggestions))
	for _, suggestion := range suggestions {
		responses = append(responses, SuggestedOutfitResponse{
			Top:       controller.suggestedItem(c, suggestion.Outfit.Top),
			Bottom:    controller.suggestedItem(c, suggestion.Outfit.Bottom),
			Shoes:     controller.suggestedItem(c, suggestion.Outfit.Shoes),
			Outerwear: controller.suggestedItem(c, suggestion.Outfit.Outerwear),
			Accessory: controller.suggestedItem(c, suggestion.Outfit.Accessory),
			Score:     suggestion.Score,
			Reason:    suggestion.Reason,
		})
	}

	displayWeather := weather
	if user.TemperatureUnit == "celsius" {
		displayWeather.Temperature = (weather.Temperature - 32) * 5 / 9
		displayWeather.FeelsLike = (weather.FeelsLike - 32) * 5 / 9
	}

	return c.JSON(http.StatusOK, SuggestionsResponse{
		City:        city,
		Weather:     displayWeather,
		Formality:   string(formality),
		Suggestions: responses,
	})
}
