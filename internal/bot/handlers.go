package bot

import (
	"context"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/database"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/scraper"
)

// RunCommands drives the long-polling command loop until ctx is cancelled.
func RunCommands(ctx context.Context, api *tgbotapi.BotAPI, db *database.DB, sc *scraper.Scraper) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			handleCallback(api, db, update.CallbackQuery)
		case update.Message != nil && update.Message.IsCommand():
			handleCommand(ctx, api, db, sc, update.Message)
		}
	}
	log.Println("Command loop stopped")
}

func handleCommand(ctx context.Context, api *tgbotapi.BotAPI, db *database.DB, sc *scraper.Scraper, message *tgbotapi.Message) {
	switch message.Command() {
	case "start", "help":
		reply(api, message.Chat.ID, helpMessage)
	case "track":
		handleTrack(ctx, api, db, sc, message)
	case "alerts":
		handleListAlerts(api, db, message.Chat.ID)
	case "delete":
		handleDeleteByNumber(api, db, message)
	default:
		reply(api, message.Chat.ID, "❓ Unknown command. Use /help to see what I can do.")
	}
}

func handleTrack(ctx context.Context, api *tgbotapi.BotAPI, db *database.DB, sc *scraper.Scraper, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.Fields(message.CommandArguments())
	if len(args) != 2 {
		reply(api, chatID, "❌ Usage: /track <URL> <target price>")
		return
	}
	fullURL := args[0]
	targetPrice, err := strconv.ParseFloat(args[1], 64)
	if err != nil || targetPrice <= 0 {
		reply(api, chatID, "❌ The target price must be a positive number.")
		return
	}
	cleanURL := scraper.CleanURL(fullURL)

	// Placeholder first: the scrape below can take a while.
	processing, err := api.Send(tgbotapi.NewMessage(chatID, "⚙️ Working on it..."))
	if err != nil {
		log.Printf("Failed to send placeholder to chat %d: %v", chatID, err)
	}

	res := sc.GetProductInfo(ctx, fullURL)

	var status string
	existing, err := db.GetAlert(chatID, cleanURL)
	switch {
	case err != nil:
		log.Printf("Failed to look up alert for chat %d: %v", chatID, err)
		status = "❌ Something went wrong saving your alert, please try again."
	case existing != nil:
		if err := db.UpdateAlertTarget(existing.ID, targetPrice, fullURL); err != nil {
			log.Printf("Failed to update alert %s: %v", existing.ID, err)
			status = "❌ Something went wrong updating your alert, please try again."
		} else {
			status = "🔁 Alert updated."
		}
	default:
		if _, err := db.CreateAlert(chatID, fullURL, cleanURL, targetPrice); err != nil {
			log.Printf("Failed to create alert for chat %d: %v", chatID, err)
			status = "❌ Something went wrong saving your alert, please try again."
		} else {
			status = "✅ Alert created."
		}
	}

	var response string
	if res.Status == scraper.StatusFetchFailed {
		response = status + "\n\n⚠️ Could not fetch the product right now (" +
			res.Outcome.String() + "). The alert is saved and will be checked on the next cycle."
	} else {
		response = status + "\n\n" + FormatProductInfo(res, targetPrice)
	}

	if processing.MessageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, processing.MessageID, response)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := api.Send(edit); err != nil {
			log.Printf("Failed to edit placeholder in chat %d: %v", chatID, err)
			reply(api, chatID, response)
		}
	} else {
		reply(api, chatID, response)
	}
}

func handleListAlerts(api *tgbotapi.BotAPI, db *database.DB, chatID int64) {
	alerts, err := db.GetUserAlerts(chatID)
	if err != nil {
		log.Printf("Failed to list alerts for chat %d: %v", chatID, err)
		reply(api, chatID, "❌ Could not load your alerts, please try again.")
		return
	}
	text, markup := FormatAlertList(alerts)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := api.Send(msg); err != nil {
		log.Printf("Failed to send alert list to chat %d: %v", chatID, err)
	}
}

func handleDeleteByNumber(api *tgbotapi.BotAPI, db *database.DB, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.Fields(message.CommandArguments())
	if len(args) != 1 {
		reply(api, chatID, "❌ Usage: /delete <alert number>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		reply(api, chatID, "❌ The alert number must be an integer.")
		return
	}

	// Numbers refer to the deterministic /alerts ordering.
	alerts, err := db.GetUserAlerts(chatID)
	if err != nil {
		log.Printf("Failed to list alerts for chat %d: %v", chatID, err)
		reply(api, chatID, "❌ Could not load your alerts, please try again.")
		return
	}
	if n < 1 || n > len(alerts) {
		reply(api, chatID, "❌ Invalid alert number.")
		return
	}

	deleted, err := db.DeleteAlert(alerts[n-1].ID, chatID)
	if err != nil || !deleted {
		log.Printf("Failed to delete alert %s for chat %d: %v", alerts[n-1].ID, chatID, err)
		reply(api, chatID, "⚠️ Could not delete that alert.")
		return
	}
	reply(api, chatID, "🗑 Alert deleted.")
}

func handleCallback(api *tgbotapi.BotAPI, db *database.DB, query *tgbotapi.CallbackQuery) {
	if _, err := api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Failed to answer callback %s: %v", query.ID, err)
	}
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	alertID, ok := strings.CutPrefix(query.Data, "delete_alert_")
	if !ok {
		log.Printf("Unrecognised callback data: %q", query.Data)
		return
	}

	deleted, err := db.DeleteAlert(alertID, chatID)
	text := "🗑 Alert deleted."
	if err != nil || !deleted {
		log.Printf("Failed to delete alert %s for chat %d: %v", alertID, chatID, err)
		text = "⚠️ Could not delete that alert."
	}
	edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, text)
	if _, err := api.Send(edit); err != nil {
		log.Printf("Failed to edit message in chat %d: %v", chatID, err)
	}
}

func reply(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d (retrying without formatting): %v", chatID, err)
		msg.ParseMode = ""
		if _, err := api.Send(msg); err != nil {
			log.Printf("Failed to send message to chat %d: %v", chatID, err)
		}
	}
}
