package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"wearlyapi/models"
	"wearlyapi/services"
	"wearlyapi/tasks"
)

// Request structs for validation
type CreateClothingIn struct {
	Name         string   `json:"name" validate:"omitempty,max=100"`
	FileName     *string  `json:"file_name" validate:"omitempty,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=500"`
	Category     string   `json:"category" validate:"required,oneof=top bottom shoes outerwear accessory"`
	Color        string   `json:"color" validate:"omitempty,max=40"`
	WarmthRating *int     `json:"warmth_rating" validate:"omitempty,min=1,max=5"`
	Formality    string   `json:"formality" validate:"omitempty,oneof=casual business_casual formal"`
	Tags         []string `json:"tags" validate:"omitempty,max=20,dive,max=40"`
	AddToCloset  *bool    `json:"add_to_closet" validate:"required"`
	// runs photo analysis to fill in missing attributes
	AutoAnalyze *bool `json:"auto_analyze"`
}

type UpdateClothingIn struct {
	Name         *string  `json:"name" validate:"omitempty,max=100"`
	Description  *string  `json:"description" validate:"omitempty,max=500"`
	Color        *string  `json:"color" validate:"omitempty,max=40"`
	WarmthRating *int     `json:"warmth_rating" validate:"omitempty,min=1,max=5"`
	Formality    *string  `json:"formality" validate:"omitempty,oneof=casual business_casual formal"`
	Tags         []string `json:"tags" validate:"omitempty,max=20,dive,max=40"`
	Status       *string  `json:"status" validate:"omitempty,oneof=temporary in_closet"`
}

// Response structs
type ClothingResponse struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	Category     string   `json:"category"`
	Color        string   `json:"color"`
	WarmthRating int      `json:"warmth_rating"`
	Formality    string   `json:"formality"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status"`
	Uri          *string  `json:"uri,omitempty"`

	AnalysisStatus string `json:"analysis_status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type ClothingCreatedResponse struct {
	ClothingResponse ClothingResponse `json:"clothes"`
	FileUploadUrl    string           `json:"file_upload_url"`
}

type ClothesListResponse struct {
	Tops        []ClothingResponse `json:"tops"`
	Bottoms     []ClothingResponse `json:"bottoms"`
	Shoes       []ClothingResponse `json:"shoes"`
	Outerwear   []ClothingResponse `json:"outerwear"`
	Accessories []ClothingResponse `json:"accessories"`
}

type ClothesController struct {
	Google      services.GoogleServiceProvider
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
	URLCache    services.URLCacheServiceProvider
}

func (controller *ClothesController) ClothingRoutes(g *echo.Group) {
	g.POST("/create", controller.CreateClothing)
	g.GET("/list", controller.ListClothes)
	g.PATCH("/:clothingId", controller.UpdateClothing)
	g.DELETE("/:clothingId", controller.DeleteClothing)
}

func clothingToResponse(item models.ClothingItem, uri *string) ClothingResponse {
	tags := []string(item.Tags)
	if tags == nil {
		tags = []string{}
	}
	return ClothingResponse{
		ID:             item.ID,
		Name:           item.Name,
		Description:    item.Description,
		Category:       string(item.Category),
		Color:          item.Color,
		WarmthRating:   item.WarmthRating,
		Formality:      string(item.Formality),
		Tags:           tags,
		Status:         item.Status,
		Uri:            uri,
		AnalysisStatus: item.AnalysisStatus,
		CreatedAt:      item.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:      item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (controller *ClothesController) CreateClothing(c echo.Context) error {
	var req CreateClothingIn
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
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
	}

	autoAnalyze := req.AutoAnalyze != nil && *req.AutoAnalyze
	if autoAnalyze && (req.FileName == nil || *req.FileName == "") {
		sentry.CaptureException(fmt.Errorf("Image was not provided when creating clothing %s with auto analyze, user %v", req.Name, user.ID))
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Sorry, it seems image was not provided, please try again"})
	}

	warmthRating := 3
	if req.WarmthRating != nil {
		warmthRating = *req.WarmthRating
	}
	formality := models.FormalityCasual
	if req.Formality != "" {
		formality = models.FormalityLevel(req.Formality)
	}
	status := "temporary"
	if req.AddToCloset != nil && *req.AddToCloset {
		status = "in_closet"
	}

	clothing := models.ClothingItem{
		Name:           req.Name,
		Description:    req.Description,
		Category:       models.ScanCategory(req.Category),
		Color:          req.Color,
		WarmthRating:   warmthRating,
		Formality:      formality,
		Tags:           pq.StringArray(req.Tags),
		OwnerID:        user.ID,
		Status:         status,
		AnalysisStatus: "idle",
	}

	var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
	var uploadUrl string
	if req.FileName != nil && *req.FileName != "" {
		safeFileName := fmt.Sprintf("clothes/%v/%s", user.ID, *req.FileName)
		url, presignErr := controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
		if presignErr != nil {
			log.Printf("Unable to presign generate for %s!, %s", clothing.Name, presignErr)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Error while creating clothe with attachment",
			})
		}
		uploadUrl = url
		clothing.ImageURL = &safeFileName
	}

	if err := db.Create(&clothing).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}
	if autoAnalyze {
		clothing.AnalysisStatus = "pending"
		if err := db.Save(&clothing).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update clothe status, please try again"})
		}
		task, err := tasks.NewClothingAnalysisTask(clothing.ID)
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process clothing, please try again"})
		}
		info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("analyze"))
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process clothing, please try again"})
		}
		fmt.Println("[Queue] Analyze clothing task submitted, Clothing ID: ", clothing.ID, " Task ID: ", info.ID)
	}

	response := ClothingCreatedResponse{
		ClothingResponse: clothingToResponse(clothing, nil),
		FileUploadUrl:    uploadUrl,
	}

	return c.JSON(http.StatusCreated, response)
}

// populatePresignedClothingImages takes raw clothing models and enriches them with presigned URLs concurrently.
// This version includes a failsafe for when the cache system itself fails.
func (controller *ClothesController) populatePresignedClothingImages(ctx context.Context, clothes []models.ClothingItem) []ClothingResponse {
	if len(clothes) == 0 {
		return []ClothingResponse{}
	}

	var wg sync.WaitGroup
	processedResponses := make([]ClothingResponse, len(clothes))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, clothingItem := range clothes {
		wg.Add(1)
		go func(index int, item models.ClothingItem) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL

				url, err := controller.URLCache.GetReadURL(ctx, objectKey)

				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)

					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})

					fallbackUrl, fallbackErr := controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
						// imageUrl stays empty, we don't fail the entire request
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			processedResponses[index] = clothingToResponse(item, &imageUrl)
		}(i, clothingItem)
	}

	wg.Wait()
	return processedResponses
}

func (controller *ClothesController) ListClothes(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var clothes []models.ClothingItem
	if err := db.Where("owner_id = ?", user.ID).Find(&clothes).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch clothes"})
	}
	processedResponses := controller.populatePresignedClothingImages(c.Request().Context(), clothes)

	response := ClothesListResponse{
		Tops:        []ClothingResponse{},
		Bottoms:     []ClothingResponse{},
		Shoes:       []ClothingResponse{},
		Outerwear:   []ClothingResponse{},
		Accessories: []ClothingResponse{},
	}

	for _, resp := range processedResponses {
		switch resp.Category {
		case "top":
			response.Tops = append(response.Tops, resp)
		case "bottom":
			response.Bottoms = append(response.Bottoms, resp)
		case "shoes":
			response.Shoes = append(response.Shoes, resp)
		case "outerwear":
			response.Outerwear = append(response.Outerwear, resp)
		case "accessory":
			response.Accessories = append(response.Accessories, resp)
		}
	}

	return c.JSON(http.StatusOK, response)
}

func (controller *ClothesController) UpdateClothing(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	var clothingId uint
	if err := echo.PathParamsBinder(c).Uint("clothingId", &clothingId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	var req UpdateClothingIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var clothing models.ClothingItem
	r := db.Where("id = ? and owner_id = ?", clothingId, user.ID).Limit(1).Find(&clothing)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch clothe data"})
	}
	if r.RowsAffected == 0 {
		return echo.ErrNotFound
	}

	if req.Name != nil {
		clothing.Name = *req.Name
	}
	if req.Description != nil {
		clothing.Description = req.Description
	}
	if req.Color != nil {
		clothing.Color = *req.Color
	}
	if req.WarmthRating != nil {
		clothing.WarmthRating = *req.WarmthRating
	}
	if req.Formality != nil {
		clothing.Formality = models.FormalityLevel(*req.Formality)
	}
	if req.Tags != nil {
		clothing.Tags = pq.StringArray(req.Tags)
	}
	if req.Status != nil {
		clothing.Status = *req.Status
	}

	if err := db.Save(&clothing).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update clothe data"})
	}

	return c.JSON(http.StatusOK, clothingToResponse(clothing, nil))
}

func (controller *ClothesController) DeleteClothing(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	var clothingId uint
	if err := echo.PathParamsBinder(c).Uint("clothingId", &clothingId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	result := db.Where("id = ? and owner_id = ?", clothingId, user.ID).Delete(&models.ClothingItem{})
	if result.Error != nil {
		log.Println(result.Error)
		return echo.ErrInternalServerError
	}
	if result.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	fmt.Println("Clothing deleted for user ", user.ID, " Clothing ID: ", clothingId)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "deleted",
	})
}
