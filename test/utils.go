package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lib/pq"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"wearlyapi/models"
	"wearlyapi/services"
	"wearlyapi/stylist"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {

	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func GenerateUserToken(userPk string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Error when signing user token for %s. Error %s ", userPk, err)
	}
	return t
}

func NewJSONAuthRequest(method string, target string, userPk string, param interface{}) *http.Request {
	log.Println(JsonString(param))
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func NewJSONAuthRequestRaw(method string, target string, userPk string, json string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(json))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func Int64Pointer(i int64) *int64 {
	return &i
}

func UIntPointer(u uint) *uint {
	return &u
}

func NewRefString(data string) *string {
	return &data
}

func Contains(items []string, lookFor string) bool {

	for i := 0; i < len(items); i++ {

		if items[i] == lookFor {
			return true
		}
	}
	return false
}

func FakeUser(db *gorm.DB) *models.UserAccount {
	user := &models.UserAccount{
		Name:      "OurName",
		Email:     "email@example.com",
		GoogleID:  "12232",
		Platform:  models.PlatformIOS,
		LastIp:    "123.122.122.122",
		Status:    "FINISHED_AUTH",
		AvatarURL: "pictureurl",
		City:      "Baku",
	}
	db.Create(&user)

	tokenDb := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      "android",
		Token:         "cX-UZ3zwQEiPt-2GJkG2gA:APA91bGqRflaGrJrnynhRwZ442HdgUjVcO7mWMFnx6IwAdJ9RRKopvSP4QU7hbvTmk1XAp8XGvtHZLvo5JmOPTVKBbGqqvhfbZWKlXA9csEjx1hgpNvrWepU-rqG1sxS8_WCF5cGZchf",
		Active:        true,
	}
	db.Save(&tokenDb)
	db.First(&user, user.ID)

	return user
}

func FakeUserV2(db *gorm.DB, userName string, email string) *models.UserAccount {

	if email == "" {
		email = "email@example.com"
	}
	user := &models.UserAccount{
		Name:      userName,
		Email:     email,
		GoogleID:  "12232",
		Platform:  models.PlatformIOS,
		LastIp:    "123.122.122.122",
		Status:    "FINISHED_AUTH",
		AvatarURL: "pictureurl",
		City:      "Baku",
	}
	db.Create(&user)
	db.First(&user, user.ID)
	return user
}

// FakeClothing creates an in-closet item with sane defaults for suggestion tests.
func FakeClothing(db *gorm.DB, ownerID uint, name string, category models.ClothingCategory, color string, warmth int, formality models.FormalityLevel, tags ...string) *models.ClothingItem {
	item := &models.ClothingItem{
		Name:           name,
		Category:       category,
		Color:          color,
		WarmthRating:   warmth,
		Formality:      formality,
		Tags:           pq.StringArray(tags),
		OwnerID:        ownerID,
		Status:         "in_closet",
		AnalysisStatus: "idle",
	}
	db.Create(&item)
	return item
}

type GoogleServiceMock struct{}

func (gsm GoogleServiceMock) ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {

	return &idtoken.Payload{Issuer: "Issue", Audience: "AAA", Expires: 119919191919, IssuedAt: 12312321321, Subject: "fake@example.com", Claims: map[string]interface{}{
		"email":   "fake@example.com",
		"picture": "pictureurl",
		"name":    "Fake Name",
		"sub":     "123googleid",
	}}, nil

}

type AWSProviderMock struct {
	MockUrl string
}

func (awsService AWSProviderMock) InitPresignClient(ctx context.Context) error {
	return nil
}

func (awsService AWSProviderMock) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {

	return fmt.Sprintf("https://fakebucketurl.com/%s", fileName), nil
}

func (awsService AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return awsService.MockUrl, nil
}

func (awsService AWSProviderMock) UploadToPresignedURL(ctx context.Context, bucketName, url string, fileContent []byte) (string, int, error) {
	return url, 204, nil
}

type URLCacheMock struct{}

func (u URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	return fmt.Sprintf("https://fakebucketurl.com/%s", objectKey), nil
}

// WeatherMock replays a fixed snapshot; Err short-circuits with a failure.
type WeatherMock struct {
	Snapshot stylist.WeatherSnapshot
	Err      error
}

func (w WeatherMock) CurrentWeather(ctx context.Context, city string) (stylist.WeatherSnapshot, error) {
	if w.Err != nil {
		return stylist.WeatherSnapshot{}, w.Err
	}
	return w.Snapshot, nil
}

type MockLLMStylist struct{}

func (m MockLLMStylist) AnalyzeClothing(filePath string, modelName services.LLMModelName) (*services.LLMResponse, error) {
	return &services.LLMResponse{
		Analysis: &services.ClothingAnalysis{
			Name:         "Blue oxford shirt",
			Category:     "top",
			Color:        "blue",
			WarmthRating: 2,
			Formality:    "business_casual",
			Tags:         []string{"spring", "summer"},
		},
		Response: `{
			"name": "Blue oxford shirt",
			"category": "top",
			"color": "blue",
			"warmth_rating": 2,
			"formality": "business_casual",
			"tags": ["spring", "summer"]
			}`,
		InputTokenCount:  10,
		TotalTokenCount:  11,
		OutputTokenCount: 13,
	}, nil
}
