package bot

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Init connects to the Telegram Bot API with the given token.
func Init(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		if err.Error() == "Unauthorized" {
			return nil, fmt.Errorf("invalid or expired Telegram token; get one from @BotFather")
		}
		return nil, fmt.Errorf("connecting to Telegram: %w", err)
	}

	api.Debug = false
	log.Printf("Authorized as @%s", api.Self.UserName)
	return api, nil
}
