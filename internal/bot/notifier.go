package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/notify"
)

// TelegramNotifier delivers checker notifications over the Telegram API.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

func NewTelegramNotifier(api *tgbotapi.BotAPI) *TelegramNotifier {
	return &TelegramNotifier{api: api}
}

// Send delivers the payload as a photo with caption when an image is known,
// as a plain message otherwise. A blocked bot or missing chat surfaces as
// notify.ErrRecipientUnreachable.
func (n *TelegramNotifier) Send(_ context.Context, p notify.Payload) error {
	markup := buttonMarkup(p.Buttons)

	var err error
	if p.ImageURL != "" {
		photo := tgbotapi.NewPhoto(p.ChatID, tgbotapi.FileURL(p.ImageURL))
		photo.Caption = p.Text
		photo.ParseMode = tgbotapi.ModeMarkdown
		if markup != nil {
			photo.ReplyMarkup = markup
		}
		_, err = n.api.Send(photo)
	} else {
		msg := tgbotapi.NewMessage(p.ChatID, p.Text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if markup != nil {
			msg.ReplyMarkup = markup
		}
		_, err = n.api.Send(msg)
	}
	if err == nil {
		return nil
	}
	if isUnreachable(err) {
		return fmt.Errorf("chat %d: %v: %w", p.ChatID, err, notify.ErrRecipientUnreachable)
	}
	return err
}

func buttonMarkup(buttons []notify.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data)))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func isUnreachable(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "blocked by the user") ||
		strings.Contains(msg, "chat not found") ||
		strings.Contains(msg, "user is deactivated")
}
