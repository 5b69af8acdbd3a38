// Package checker runs the periodic evaluation loop: every tick it walks
// all registered alerts, re-checks prices through the scraper facade and
// sends notifications for qualifying drops.
package checker

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/bot"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/database"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/models"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/notify"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/scraper"
)

// ProductSource yields current product details for a URL. Satisfied by
// *scraper.Scraper; tests inject a fake.
type ProductSource interface {
	GetProductInfo(ctx context.Context, fullURL string) scraper.Result
}

// Config carries the checker's tunables.
type Config struct {
	Interval       time.Duration
	Cooldown       time.Duration
	AlertDelay     time.Duration
	CacheRetention time.Duration

	// ClearPriceOnFailure nulls last_price when a check obtains no price;
	// the default preserves the prior observation.
	ClearPriceOnFailure bool
}

// Checker is the periodic alert evaluator.
type Checker struct {
	db       *database.DB
	source   ProductSource
	notifier notify.Notifier
	cfg      Config
}

func New(db *database.DB, source ProductSource, notifier notify.Notifier, cfg Config) *Checker {
	return &Checker{db: db, source: source, notifier: notifier, cfg: cfg}
}

// Run executes check cycles until ctx is cancelled. The first cycle starts
// immediately; cancellation interrupts the inter-tick sleep and the pacing
// between alerts, never an in-flight alert.
func (c *Checker) Run(ctx context.Context) {
	log.Printf("[checker] started, checking alerts every %s", c.cfg.Interval)
	for {
		c.RunCycle(ctx)
		select {
		case <-ctx.Done():
			log.Println("[checker] stopped")
			return
		case <-time.After(c.cfg.Interval):
		}
	}
}

// RunCycle evaluates every alert once, then sweeps the scrape cache. A
// failure to read the alert list aborts only this cycle.
func (c *Checker) RunCycle(ctx context.Context) {
	alerts, err := c.db.GetAllAlerts()
	if err != nil {
		log.Printf("[checker] could not load alerts, skipping cycle: %v", err)
		return
	}
	log.Printf("[checker] cycle start, %d alert(s)", len(alerts))

	// Fixed pacing between consecutive alerts keeps the fetch backend from
	// seeing a burst at every tick.
	pacer := rate.NewLimiter(rate.Every(c.cfg.AlertDelay), 1)
	for _, alert := range alerts {
		if err := pacer.Wait(ctx); err != nil {
			return
		}
		c.processAlert(ctx, alert)
	}

	cutoff := time.Now().UTC().Add(-c.cfg.CacheRetention)
	if n, err := c.db.PurgeScrapedBefore(cutoff); err != nil {
		log.Printf("[checker] cache sweep failed: %v", err)
	} else if n > 0 {
		log.Printf("[checker] cache sweep removed %d row(s)", n)
	}
	log.Println("[checker] cycle complete")
}

func (c *Checker) processAlert(ctx context.Context, alert models.Alert) {
	now := time.Now().UTC()
	if CooldownActive(alert.LastNotified, now, c.cfg.Cooldown) {
		log.Printf("Skipping alert %s (cooldown)", alert.ID)
		return
	}

	res := c.source.GetProductInfo(ctx, alert.FullURL)
	if res.Price == nil {
		log.Printf("No price obtained for alert %s (%s)", alert.ID, res.Status)
		if c.cfg.ClearPriceOnFailure {
			if err := c.db.SetAlertLastPrice(alert.ID, nil); err != nil {
				log.Printf("Failed to clear last price for alert %s: %v", alert.ID, err)
			}
		}
		return
	}
	cur := *res.Price
	prev := alert.LastPrice

	// Persist the observation before deciding, so a failed send does not
	// make the same price look new again next cycle.
	if err := c.db.SetAlertLastPrice(alert.ID, res.Price); err != nil {
		log.Printf("Failed to store last price for alert %s: %v", alert.ID, err)
		return
	}

	if DecidePrice(prev, cur, alert.TargetPrice) != DecisionNotify {
		log.Printf("Alert %s: price %.2f (target %.2f), no notification", alert.ID, cur, alert.TargetPrice)
		return
	}

	payload := notify.Payload{
		ChatID:   alert.ChatID,
		Text:     bot.FormatNotification(alert, res),
		ImageURL: res.Image,
		Buttons:  []notify.Button{{Label: "🗑 Delete alert", Data: "delete_alert_" + alert.ID}},
	}
	if err := c.notifier.Send(ctx, payload); err != nil {
		// last_notified stays untouched so the next eligible cycle retries.
		if errors.Is(err, notify.ErrRecipientUnreachable) {
			log.Printf("Chat %d unreachable for alert %s: %v", alert.ChatID, alert.ID, err)
		} else {
			log.Printf("Failed to notify chat %d for alert %s: %v", alert.ChatID, alert.ID, err)
		}
		return
	}
	if err := c.db.SetAlertLastNotified(alert.ID, now); err != nil {
		log.Printf("Failed to stamp last_notified for alert %s: %v", alert.ID, err)
		return
	}
	log.Printf("Notification sent to chat %d for alert %s", alert.ChatID, alert.ID)
}
