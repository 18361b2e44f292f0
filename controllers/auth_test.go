package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wearlyapi/dbhelper"
	"wearlyapi/models"
	"wearlyapi/test"
)

func TestAuthGoogle(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{}, test.WeatherMock{})

	param := models.GoogleAuthSignIn{
		IdToken:  "some-google-id-token",
		Platform: "ios",
	}
	req := test.NewJSONRequest("POST", "/auth/google/v2", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp echo.Map
	json.Unmarshal(rec.Body.Bytes(), &resp)

	assert.Equal(t, "fake@example.com", resp["email"], resp)
	assert.Equal(t, true, resp["new"], resp)
	assert.Equal(t, "pictureurl", resp["avatar"], resp)
	assert.NotEmpty(t, resp["access_token"], resp)
	assert.NotEmpty(t, resp["refresh_token"], resp)

	var user models.UserAccount
	db.First(&user, "email = ?", "fake@example.com")

	assert.Equal(t, "fake@example.com", user.Email)
	assert.Equal(t, "FINISHED_AUTH", user.Status)
	assert.Equal(t, "123googleid", user.GoogleID)
	assert.Equal(t, models.PlatformIOS, user.Platform)
	// new users start with the notification-friendly defaults
	assert.Equal(t, "fahrenheit", user.TemperatureUnit)
	assert.Equal(t, models.FormalityCasual, user.PreferredFormality)

	// second sign-in resolves to the same account
	req2 := test.NewJSONRequest("POST", "/auth/google/v2", param)
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req2)

	assert.Equal(t, http.StatusOK, rec2.Code)
	var resp2 echo.Map
	json.Unmarshal(rec2.Body.Bytes(), &resp2)
	assert.Equal(t, false, resp2["new"], resp2)

	var count int64
	db.Model(&models.UserAccount{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAuthGoogleBadPlatform(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{}, test.WeatherMock{})

	param := models.GoogleAuthSignIn{
		IdToken:  "some-google-id-token",
		Platform: "blackberry",
	}
	req := test.NewJSONRequest("POST", "/auth/google/v2", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshToken(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{}, test.WeatherMock{})

	userDb := test.FakeUser(db)
	refreshToken, err := GenerateRefreshToken(fmt.Sprint(userDb.ID))
	require.NoError(t, err)

	param := echo.Map{
		"refresh_token": refreshToken,
	}
	req := test.NewJSONRequest("POST", "/auth/refresh-token", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp echo.Map
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp["access_token"])
	assert.NotEmpty(t, resp["refresh_token"])
}

func TestMe(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{}, test.WeatherMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/auth/me", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp echo.Map
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, user.Email, resp["email"])
	assert.Equal(t, "Baku", resp["city"])
	assert.Equal(t, "fahrenheit", resp["temperature_unit"])
	assert.Equal(t, "casual", resp["preferred_formality"])
}

func TestUpdateSettings(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{}, test.WeatherMock{})
	user := test.FakeUser(db)

	param := models.UserSettingsIn{
		ReceiveNotifications: true,
		City:                 stringPtr("London"),
		TemperatureUnit:      stringPtr("celsius"),
		PreferredFormality:   stringPtr("business_casual"),
	}
	req := test.NewJSONAuthRequest("POST", "/auth/settings", strconv.FormatUint(uint64(user.ID), 10), param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var fromDb models.UserAccount
	db.First(&fromDb, user.ID)
	assert.Equal(t, "London", fromDb.City)
	assert.Equal(t, "celsius", fromDb.TemperatureUnit)
	assert.Equal(t, models.FormalityBusinessCasual, fromDb.PreferredFormality)
	assert.True(t, fromDb.ReceiveNotifications)
}

func TestUpdateSettingsInvalidUnit(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{}, test.WeatherMock{})
	user := test.FakeUser(db)

	param := models.UserSettingsIn{
		TemperatureUnit: stringPtr("kelvin"),
	}
	req := test.NewJSONAuthRequest("POST", "/auth/settings", strconv.FormatUint(uint64(user.ID), 10), param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSettingsInvalidFormality(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{}, test.WeatherMock{})
	user := test.FakeUser(db)

	param := models.UserSettingsIn{
		PreferredFormality: stringPtr("fancy"),
	}
	req := test.NewJSONAuthRequest("POST", "/auth/settings", strconv.FormatUint(uint64(user.ID), 10), param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterPush(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{}, test.WeatherMock{})
	user := test.FakeUser(db)

	param := models.UserPushIn{
		Token:    "new-device-token",
		Platform: "ios",
	}
	req := test.NewJSONAuthRequest("POST", "/auth/register-push", strconv.FormatUint(uint64(user.ID), 10), param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var count int64
	db.Model(&models.UserPushToken{}).Where("user_account_id = ? and token = ?", user.ID, "new-device-token").Count(&count)
	assert.Equal(t, int64(1), count)

	// registering the same token twice is idempotent
	req2 := test.NewJSONAuthRequest("POST", "/auth/register-push", strconv.FormatUint(uint64(user.ID), 10), param)
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req2)
	require.Equal(t, http.StatusOK, rec2.Code)

	db.Model(&models.UserPushToken{}).Where("user_account_id = ? and token = ?", user.ID, "new-device-token").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeletePush(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{}, test.WeatherMock{})
	user := test.FakeUser(db)

	var existing models.UserPushToken
	require.NoError(t, db.Where("user_account_id = ?", user.ID).First(&existing).Error)

	param := models.UserPushIn{
		Token:    existing.Token,
		Platform: "android",
	}
	req := test.NewJSONAuthRequest("POST", "/auth/delete-push", strconv.FormatUint(uint64(user.ID), 10), param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp echo.Map
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, true, resp["deleted"])

	var count int64
	db.Model(&models.UserPushToken{}).Where("user_account_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
