package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/models"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/scraper"
)

const helpMessage = "🤖 *Available commands:*\n\n" +
	"/track `<URL>` `<target price>` – add or update a price alert.\n" +
	"/alerts – list your alerts.\n" +
	"/delete `<number>` – delete an alert by its list number.\n" +
	"/help – show this message."

// FormatProductInfo renders the product card shown after /track.
func FormatProductInfo(res scraper.Result, targetPrice float64) string {
	var parts []string
	if res.Name != "" {
		parts = append(parts, fmt.Sprintf("🏷 *%s*", res.Name))
	}
	if res.Price != nil {
		parts = append(parts, fmt.Sprintf("💲 Current price: %.2f€", *res.Price))
	} else {
		parts = append(parts, "⚠️ Could not determine the current price.")
	}
	parts = append(parts, fmt.Sprintf("🎯 Your target: ≤%.2f€", targetPrice))
	parts = append(parts, attributeLines(res.ProductDetails)...)
	parts = append(parts, "\n🔗 "+res.FullURL)
	return strings.Join(parts, "\n")
}

// FormatAlertList renders a user's alerts as a numbered list with one
// inline delete button per alert.
func FormatAlertList(alerts []models.Alert) (string, *tgbotapi.InlineKeyboardMarkup) {
	if len(alerts) == 0 {
		return "📭 You have no active alerts.", nil
	}

	parts := []string{"📌 Your active alerts (most recently updated first):"}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(alerts))
	for i, alert := range alerts {
		line := fmt.Sprintf("\n%d. %s", i+1, markdownLink(alert.FullURL))
		line += fmt.Sprintf("\n    🎯 Target: ≤%.2f€", alert.TargetPrice)
		if alert.LastPrice != nil {
			line += fmt.Sprintf(" (last: %.2f€)", *alert.LastPrice)
		}
		parts = append(parts, line)

		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🗑 Delete %d", i+1), "delete_alert_"+alert.ID)))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return strings.Join(parts, "\n"), &markup
}

// FormatNotification renders the message sent when an alert triggers.
// alert still carries the price observed before this cycle, so the message
// can show the movement.
func FormatNotification(alert models.Alert, res scraper.Result) string {
	priceText := "price unknown"
	if res.Price != nil {
		priceText = fmt.Sprintf("%.2f€", *res.Price)
		if alert.LastPrice != nil && *res.Price < *alert.LastPrice {
			priceText = fmt.Sprintf("from %.2f€ to %.2f€", *alert.LastPrice, *res.Price)
		}
	}

	parts := []string{fmt.Sprintf("📉 Target price reached! %s", priceText)}
	if res.Name != "" {
		parts = append(parts, fmt.Sprintf("🏷 [%s](%s)", res.Name, alert.FullURL))
	} else {
		parts = append(parts, "🔗 "+alert.FullURL)
	}
	parts = append(parts, fmt.Sprintf("(Your target: ≤%.2f€)", alert.TargetPrice))
	parts = append(parts, attributeLines(res.ProductDetails)...)
	return strings.Join(parts, "\n")
}

func attributeLines(d models.ProductDetails) []string {
	var parts []string
	for _, attr := range []struct{ prefix, value string }{
		{"🏢 Brand", d.Brand},
		{"🎨 Color", d.Color},
		{"💾 Storage", d.Storage},
	} {
		if attr.value != "" {
			parts = append(parts, attr.prefix+": "+attr.value)
		}
	}
	if d.Availability != models.AvailabilityUnknown {
		if d.Availability.InStock() {
			parts = append(parts, "📦 Availability: ✅ in stock")
		} else {
			parts = append(parts, "📦 Availability: ❌ out of stock")
		}
	}
	if d.Condition != "" {
		parts = append(parts, "✨ Condition: "+d.Condition)
	}
	return parts
}

// markdownLink renders url as a markdown link with a truncated label so
// long product URLs don't flood the list.
func markdownLink(url string) string {
	if url == "" {
		return "unknown URL"
	}
	label := url
	if len(label) > 45 {
		label = label[:42] + "..."
	}
	return fmt.Sprintf("[%s](%s)", label, url)
}
