package main

import (
	"context"
	"log"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4/middleware"

	"wearlyapi/controllers"
	"wearlyapi/dbhelper"
	"wearlyapi/services"
	"wearlyapi/telegram"
)

func main() {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         os.Getenv("SENTRY_DSN"),
		Environment: services.GetEnv("ENV", "local"),
		Release:     "wearlyapi@1.0.0",
		Debug:       false,
		// Set TracesSampleRate to 1.0 to capture 100%
		// of transactions for performance monitoring.
		// We recommend adjusting this value in production,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	db := dbhelper.SetupDB()

	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v\n", err)
		return
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")})
	asynqInspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")})
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")
	awsService := &services.AWSService{}
	urlCache, err := services.NewURLCacheService(awsService, bucketName)
	if err != nil {
		log.Fatal("Failed to initialize URL cache service")
	}
	weatherProvider := services.NewOpenWeatherService(os.Getenv("OPENWEATHER_API_KEY"))
	weatherCache, err := services.NewWeatherCacheService(weatherProvider)
	if err != nil {
		log.Fatal("Failed to initialize weather cache service")
	}

	e := controllers.SetupServer(
		db, services.GoogleService{}, awsService, app,
		asynqClient, asynqInspector, urlCache, weatherCache,
	)
	e.Debug = true
	if os.Getenv("TELEGRAM_BOT") == "true" {

		telegram.RunOutfitBot(e, db, weatherCache)

	} else {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(3)))
		e.Use(middleware.Logger())
		e.Use(middleware.Recover())

		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
		e.Logger.Fatal(e.Start(":8083"))
	}
}
