package main

import (
	"context"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/hibiken/asynq"

	"wearlyapi/dbhelper"
	"wearlyapi/services"
	"wearlyapi/tasks"
)

func NewMorningOutfitTask() *asynq.Task {
	return asynq.NewTask("suggest:morning", []byte{})
}

func runScheduler() {

	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")}, &asynq.SchedulerOpts{

		LogLevel: asynq.InfoLevel,
	})

	tasks := []struct {
		cron string
		task *asynq.Task
		desc string
	}{
		{
			cron: "0 7 * * *", // 7:00 AM daily
			task: NewMorningOutfitTask(),
			desc: "Morning outfit notifications",
		},
	}

	for _, t := range tasks {
		entryID, err := scheduler.Register(t.cron, t.task)
		if err != nil {
			log.Fatalf("Failed to register task '%s': %v", t.desc, err)
		}
		log.Printf("Registered task '%s' with ID: %s, cron: %s", t.desc, entryID, t.cron)
	}

	log.Println("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func main() {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			"analyze": 7,
			"default": 3,
		}},
	)
	awsService := &services.AWSService{}
	llmStylist := &services.GoogleLLMStylist{}
	err := awsService.InitPresignClient(context.Background())
	if err != nil {
		log.Fatal("[Queue] Failed to initialize AWS provider: S3")
	}
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v\n", err)
		return
	}
	weatherProvider := services.NewOpenWeatherService(os.Getenv("OPENWEATHER_API_KEY"))
	weatherCache, err := services.NewWeatherCacheService(weatherProvider)
	if err != nil {
		log.Fatal("[Queue] Failed to initialize weather cache service")
	}

	mux := asynq.NewServeMux()
	db := dbhelper.SetupDB()
	mux.HandleFunc("analyze:clothing", func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleClothingAnalysisTask(ctx, t, db, llmStylist, awsService, app)
	})
	mux.HandleFunc("suggest:morning", func(ctx context.Context, t *asynq.Task) error {
		return tasks.ScheduledMorningOutfitTask(ctx, t, db, weatherCache, app)
	})

	go runScheduler()
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
