package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"wearlyapi/models"
	"wearlyapi/services"
	"wearlyapi/stylist"
)

type ClothingAnalysisPayload struct {
	ClothingId uint `json:"clothing_id"`
}

// Client initializes an asynq client for enqueuing tasks
func NewClient() (*asynq.Client, error) {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")}), nil
}

func NewClothingAnalysisTask(clothingId uint) (*asynq.Task, error) {
	payload, err := json.Marshal(ClothingAnalysisPayload{ClothingId: clothingId})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask("analyze:clothing", payload), nil

}

func getFileForClothing(awsService services.AWSServiceProvider, clothing models.ClothingItem) ([]byte, string, error) {
	bucketName := os.Getenv("R2_BUCKET_NAME")
	fmt.Printf("[Clothing: %v] Bucket name: %s\n", clothing.ID, bucketName)
	fmt.Printf("[Clothing: %v] Request presigned download url.. ", clothing.ID)
	if clothing.ImageURL == nil {
		return nil, "", fmt.Errorf("[Clothing: %v] Image URL is nil", clothing.ID)
	}
	fileUrl, err := awsService.GetPresignedR2FileReadURL(context.TODO(), bucketName, *clothing.ImageURL)
	fileName := filepath.Base(*clothing.ImageURL)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on getting presigned URL for file %s", clothing.ID, *clothing.ImageURL))
		return nil, fileName, err
	}
	fmt.Printf("Downloading... %s\n", fileUrl)
	fileBytes, err := services.ReadFileFromUrl(fileUrl)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on downloading file %s: %v", clothing.ID, *clothing.ImageURL, err))
		return nil, fileName, err
	}

	return fileBytes, fileName, nil
}

func saveClothingAnalysisFail(db *gorm.DB, clothing models.ClothingItem, msg string, shouldRetry bool) error {
	clothing.AnalysisRetryTimes = clothing.AnalysisRetryTimes + 1
	clothing.AnalysisErrorMessage = &msg
	if !shouldRetry || clothing.AnalysisRetryTimes >= 3 {

		clothing.AnalysisStatus = "failed"
	}
	tx := db.Save(&clothing)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Fail Clothing %v] Error on saving clothing for failed status", clothing.ID))
		return tx.Error
	}
	return nil
}

// HandleClothingAnalysisTask downloads the item photo and fills in the
// attributes the user left empty from the photo analysis.
func HandleClothingAnalysisTask(
	ctx context.Context, t *asynq.Task, db *gorm.DB, llmStylist services.LLMStylist,
	awsService services.AWSServiceProvider, fbApp *firebase.App) error {
	google_key := os.Getenv("GOOGLE_API_KEY")
	if google_key == "" {
		sentry.CaptureException(fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload())))
		return fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload()))
	}
	var payload ClothingAnalysisPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Clothing: %v] Start Analysis\n", payload.ClothingId)
	var clothing models.ClothingItem
	res := db.First(&clothing, payload.ClothingId)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving clothing for analysis %v", payload.ClothingId))
		return res.Error
	}
	if clothing.ImageURL == nil || *clothing.ImageURL == "" {
		saveClothingAnalysisFail(db, clothing, "No photo attached to this item, please upload a photo first", false)
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] No image to analyze", payload.ClothingId))
		return fmt.Errorf("[Clothing: %v] No image to analyze", payload.ClothingId)
	}
	fileBytes, fileName, err := getFileForClothing(awsService, clothing)
	if err != nil {
		saveClothingAnalysisFail(db, clothing, "Failed to read the item photo, please try to upload it again", true)
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on getting file %s: %v", payload.ClothingId, *clothing.ImageURL, err))
		return err
	}
	fmt.Printf("[Clothing: %v] Downloaded file size: %d bytes\n", payload.ClothingId, len(fileBytes))

	filePath, err := services.CreateTempFile(fileBytes, fileName)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on creating temp file %s: %v", payload.ClothingId, fileName, err))
		return err
	}
	defer os.Remove(filePath)

	model := services.Flash25
	fmt.Printf("[Clothing: %v] Model: %s\n", payload.ClothingId, model.String())

	llmResponse, err := llmStylist.AnalyzeClothing(filePath, model)
	if err != nil {
		if strings.Contains(err.Error(), "content violation") {
			saveClothingAnalysisFail(db, clothing, "Sorry, it seems this photo contains violated content that we cannot process.", false)
			sentry.CaptureException(fmt.Errorf("[Clothing: %v] Content violation on analyzing photo %s: %v", payload.ClothingId, *clothing.ImageURL, err))
			return nil
		}
		fmt.Printf("[Clothing: %v] Error on analyzing photo %v: %v\n", payload.ClothingId, *clothing.ImageURL, err)
		saveClothingAnalysisFail(db, clothing, "Sorry, we failed to analyze this photo, please try again or contact support", true)
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on analyzing photo %s: %v", payload.ClothingId, *clothing.ImageURL, err))
		return err
	}
	if llmResponse == nil || llmResponse.Analysis == nil {
		saveClothingAnalysisFail(db, clothing, "Sorry, we failed to analyze this photo, please try again or contact support", true)
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Response is nil but no error provided on analyzing %s", payload.ClothingId, *clothing.ImageURL))
		return fmt.Errorf("[Clothing: %v] Response is nil but no error provided on analyzing %s", payload.ClothingId, *clothing.ImageURL)
	}

	analysis := llmResponse.Analysis
	if analysis.Name == "NO_CLOTHING" {
		saveClothingAnalysisFail(db, clothing, "We could not find a clothing item in this photo, please upload another one", false)
		return nil
	}

	// only fill the attributes the user did not set manually
	if clothing.Name == "" {
		clothing.Name = analysis.Name
	}
	if clothing.Color == "" {
		clothing.Color = strings.ToLower(analysis.Color)
	}
	if clothing.Color == "" {
		// photo-based fallback when the model returned nothing usable
		dominant, colorErr := services.DominantColorName(fileBytes, 0.5)
		if colorErr != nil {
			fmt.Printf("[Clothing: %v] Dominant color fallback failed: %v\n", payload.ClothingId, colorErr)
		} else {
			clothing.Color = dominant
		}
	}
	if analysis.WarmthRating >= 1 && analysis.WarmthRating <= 5 {
		clothing.WarmthRating = analysis.WarmthRating
	}
	if models.ValidateCategoryRaw(analysis.Category) {
		clothing.Category = models.ScanCategory(analysis.Category)
	}
	if models.ValidateFormalityRaw(analysis.Formality) {
		clothing.Formality = models.FormalityLevel(analysis.Formality)
	}
	if len(clothing.Tags) == 0 && len(analysis.Tags) > 0 {
		tags := make([]string, 0, len(analysis.Tags))
		for _, tag := range analysis.Tags {
			tags = append(tags, strings.ToLower(tag))
		}
		clothing.Tags = pq.StringArray(tags)
	}
	clothing.AnalysisStatus = "completed"
	clothing.AnalysisErrorMessage = nil

	if err := db.Save(&clothing).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on saving analyzed clothing: %v", payload.ClothingId, err))
		return err
	}
	fmt.Printf("[Clothing: %v] Analysis completed: %s %s %s warmth %d\n",
		payload.ClothingId, clothing.Name, clothing.Category, clothing.Color, clothing.WarmthRating)

	if fbApp != nil {
		var owner models.UserAccount
		if err := db.First(&owner, clothing.OwnerID).Error; err == nil && owner.ReceiveNotifications {
			services.SendNotification(fbApp, db, owner.ID,
				"Your item is ready 👕",
				fmt.Sprintf("%s was analyzed and added to your closet", clothing.Name),
				map[string]string{"clothing_id": fmt.Sprintf("%d", clothing.ID), "type": "clothing_analyzed"})
		}
	}

	return nil
}

// ScheduledMorningOutfitTask pushes the top outfit suggestion of the day to
// users who opted in and have a city set.
func ScheduledMorningOutfitTask(ctx context.Context, t *asynq.Task, db *gorm.DB, weatherCache services.WeatherCacher, fbApp *firebase.App) error {

	fmt.Printf("[Morning Outfit] Processing for all users\n")

	var users []models.UserAccount
	result := db.Where("banned = ? AND receive_notifications = ? AND city <> ''", false, true).Find(&users)
	if result.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Morning Outfit] Error fetching users: %v", result.Error))
		return result.Error
	}

	fmt.Printf("[Morning Outfit] Found %d users to send notifications\n", len(users))

	for _, user := range users {
		err := sendMorningOutfitToUser(ctx, db, weatherCache, fbApp, user)
		if err != nil {
			fmt.Printf("[Morning Outfit] Failed to send to user %d: %v\n", user.ID, err)
			sentry.CaptureException(fmt.Errorf("[Morning Outfit] Failed to send to user %d: %v", user.ID, err))
			continue
		}
		fmt.Printf("[Morning Outfit] Successfully sent suggestion to user %d\n", user.ID)
		time.Sleep(1 * time.Second) // To avoid hitting rate limits
	}

	return nil
}

func sendMorningOutfitToUser(ctx context.Context, db *gorm.DB, weatherCache services.WeatherCacher, fbApp *firebase.App, user models.UserAccount) error {
	weather, err := weatherCache.CurrentWeather(ctx, user.City)
	if err != nil {
		return fmt.Errorf("error fetching weather for %s: %v", user.City, err)
	}

	store := &services.GormWardrobeStore{DB: db, OwnerID: user.ID}
	engine := stylist.Engine{Items: store, History: store}
	suggestions, err := engine.GenerateSuggestions(ctx, weather, user.PreferredFormality, 1)
	if err != nil {
		return fmt.Errorf("error building suggestions: %v", err)
	}
	if len(suggestions) == 0 {
		fmt.Printf("[Morning Outfit] No eligible outfits for user %d\n", user.ID)
		return nil
	}

	top := suggestions[0]
	names := []string{}
	for _, item := range top.Outfit.Items() {
		names = append(names, item.Name)
	}
	title := "Today's outfit ☀️"
	if weather.Condition == stylist.ConditionRain {
		title = "Today's outfit ☔"
	} else if weather.Condition == stylist.ConditionSnow {
		title = "Today's outfit ❄️"
	}
	message := truncatePushMessage(fmt.Sprintf("%s. %s", strings.Join(names, ", "), top.Reason))

	fmt.Println("[Morning Outfit] Sending notification to user", user.ID)
	services.SendNotification(fbApp, db, user.ID, title, message, map[string]string{"type": "morning_outfit"})

	return nil
}

// truncatePushMessage caps push bodies at 150 characters, cutting rune-wise
// so item names with non-ascii characters are never split mid-rune.
func truncatePushMessage(message string) string {
	runes := []rune(message)
	if len(runes) <= 150 {
		return message
	}
	return string(runes[:147]) + "..."
}
