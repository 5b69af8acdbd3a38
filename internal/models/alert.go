package models

import "time"

// Alert is one user's price subscription. An alert has no status field:
// its state is fully captured by LastPrice and LastNotified, which the
// checker re-derives every cycle.
type Alert struct {
	ID          string  `db:"id"`
	ChatID      int64   `db:"chat_id"`
	FullURL     string  `db:"full_url"`
	CleanURL    string  `db:"clean_url"`
	TargetPrice float64 `db:"target_price"`

	// LastPrice is the most recent successfully observed price; nil means
	// the product has never been observed (or the price was cleared).
	LastPrice *float64 `db:"last_price"`

	// LastNotified is when a notification was last delivered; nil if never.
	LastNotified *time.Time `db:"last_notified"`

	// InsertedAt is bumped on every create/update (including price
	// observations), so listings ordered by it show the freshest first.
	InsertedAt time.Time `db:"inserted_at"`
}
