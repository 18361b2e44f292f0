package telegram

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"wearlyapi/models"
	"wearlyapi/services"
	"wearlyapi/stylist"
)

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

// RunOutfitBot answers /outfit for users who linked their telegram username in
// the app. Admin/debug surface, the mobile app is the real client.
func RunOutfitBot(e *echo.Echo, db *gorm.DB, weatherCache services.WeatherCacher) {

	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		println("Error tg bot init")
		log.Panic(err)
	}
	bot.Debug = true

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		if update.Message.Command() == "start" {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Link your telegram username in the app settings, then send /outfit to get today's suggestion.")
			bot.Send(msg)
			continue
		}
		if update.Message.Command() != "outfit" {
			continue
		}

		var user models.UserAccount
		r := db.Where("telegram_username = ?", update.Message.From.UserName).Limit(1).Find(&user)
		if r.Error != nil || r.RowsAffected == 0 {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "I don't know you yet. Link your telegram username in the app settings first.")
			bot.Send(msg)
			continue
		}
		if user.City == "" {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Set your city in the app settings so I can check the weather.")
			bot.Send(msg)
			continue
		}

		weather, err := weatherCache.CurrentWeather(context.Background(), user.City)
		if err != nil {
			log.Println("Error fetching weather for tg user", user.ID, err)
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Couldn't fetch the weather right now, try again later.")
			bot.Send(msg)
			continue
		}

		store := &services.GormWardrobeStore{DB: db, OwnerID: user.ID}
		engine := stylist.Engine{Items: store, History: store}
		suggestions, err := engine.GenerateSuggestions(context.Background(), weather, user.PreferredFormality, stylist.DefaultSuggestionCount)
		if err != nil {
			log.Println("Error building suggestions for tg user", user.ID, err)
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Couldn't build suggestions right now, try again later.")
			bot.Send(msg)
			continue
		}
		if len(suggestions) == 0 {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "No eligible outfits today. Log fewer repeats or add more items.")
			bot.Send(msg)
			continue
		}

		description := strings.Builder{}
		description.WriteString(fmt.Sprintf("%s, %.0f°F\n\n", weather.Description, weather.Temperature))
		for i, suggestion := range suggestions {
			names := []string{}
			for _, item := range suggestion.Outfit.Items() {
				names = append(names, EscapeMessage(item.Name))
			}
			description.WriteString(fmt.Sprintf("%d. %s\n%s\n\n", i+1, strings.Join(names, ", "), EscapeMessage(suggestion.Reason)))
		}
		msg := tgbotapi.NewMessage(update.Message.Chat.ID, description.String())
		msg.ReplyToMessageID = update.Message.MessageID
		msg.ParseMode = "markdown"
		bot.Send(msg)
	}

}
