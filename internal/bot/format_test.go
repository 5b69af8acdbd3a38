package bot_test

import (
	"strings"
	"testing"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/bot"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/models"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/scraper"
)

func ptr(f float64) *float64 { return &f }

func TestFormatAlertListEmpty(t *testing.T) {
	text, markup := bot.FormatAlertList(nil)
	if markup != nil {
		t.Fatal("no keyboard expected for an empty list")
	}
	if !strings.Contains(text, "no active alerts") {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestFormatAlertList(t *testing.T) {
	longURL := "https://shop.example/very/long/product/path/that/keeps/going?l=9"
	alerts := []models.Alert{
		{ID: "a1", FullURL: longURL, TargetPrice: 100, LastPrice: ptr(120)},
		{ID: "a2", FullURL: "https://x.com/p", TargetPrice: 50},
	}

	text, markup := bot.FormatAlertList(alerts)
	if !strings.Contains(text, "1. ") || !strings.Contains(text, "2. ") {
		t.Fatalf("list should be numbered:\n%s", text)
	}
	if !strings.Contains(text, "(last: 120.00€)") {
		t.Fatalf("first entry should show the last observed price:\n%s", text)
	}
	if !strings.Contains(text, "...]("+longURL+")") {
		t.Fatalf("long URL label should be truncated but still link:\n%s", text)
	}

	if markup == nil || len(markup.InlineKeyboard) != 2 {
		t.Fatalf("want one delete button row per alert, got %+v", markup)
	}
	if got := markup.InlineKeyboard[0][0].CallbackData; got == nil || *got != "delete_alert_a1" {
		t.Fatalf("callback data = %v", got)
	}
}

func TestFormatNotificationShowsDrop(t *testing.T) {
	alert := models.Alert{FullURL: "https://x.com/p", TargetPrice: 100, LastPrice: ptr(95)}
	res := scraper.Result{
		ProductDetails: models.ProductDetails{
			Price:        ptr(90),
			Name:         "Phone 12",
			Brand:        "Pear",
			Availability: models.AvailabilityInStock,
		},
		FullURL: "https://x.com/p",
	}

	text := bot.FormatNotification(alert, res)
	if !strings.Contains(text, "from 95.00€ to 90.00€") {
		t.Fatalf("drop should show the movement:\n%s", text)
	}
	if !strings.Contains(text, "[Phone 12](https://x.com/p)") {
		t.Fatalf("name should link to the product:\n%s", text)
	}
	if !strings.Contains(text, "≤100.00€") {
		t.Fatalf("target missing:\n%s", text)
	}
	if !strings.Contains(text, "Brand: Pear") || !strings.Contains(text, "✅ in stock") {
		t.Fatalf("attributes missing:\n%s", text)
	}
}

func TestFormatNotificationFirstObservation(t *testing.T) {
	alert := models.Alert{FullURL: "https://x.com/p", TargetPrice: 100}
	res := scraper.Result{
		ProductDetails: models.ProductDetails{Price: ptr(90)},
		FullURL:        "https://x.com/p",
	}

	text := bot.FormatNotification(alert, res)
	if strings.Contains(text, "from ") {
		t.Fatalf("no movement to show without a previous price:\n%s", text)
	}
	if !strings.Contains(text, "90.00€") {
		t.Fatalf("current price missing:\n%s", text)
	}
	if !strings.Contains(text, "🔗 https://x.com/p") {
		t.Fatalf("plain URL expected when the name is unknown:\n%s", text)
	}
}

func TestFormatProductInfoWithoutPrice(t *testing.T) {
	res := scraper.Result{FullURL: "https://x.com/p", Status: scraper.StatusScraped}
	text := bot.FormatProductInfo(res, 100)
	if !strings.Contains(text, "Could not determine the current price") {
		t.Fatalf("missing price warning:\n%s", text)
	}
	if !strings.Contains(text, "≤100.00€") {
		t.Fatalf("target missing:\n%s", text)
	}
}
