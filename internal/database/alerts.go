package database

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/models"
)

const alertColumns = `id, chat_id, full_url, clean_url, target_price, last_price, last_notified, inserted_at`

// GetAlert returns the alert for (chatID, cleanURL), or nil if none exists.
func (db *DB) GetAlert(chatID int64, cleanURL string) (*models.Alert, error) {
	var a models.Alert
	err := db.conn.Get(&a,
		`SELECT `+alertColumns+` FROM alerts WHERE chat_id = ? AND clean_url = ?`,
		chatID, cleanURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAlert inserts a new alert and returns its id.
func (db *DB) CreateAlert(chatID int64, fullURL, cleanURL string, targetPrice float64) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		`INSERT INTO alerts (id, chat_id, full_url, clean_url, target_price, inserted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, chatID, fullURL, cleanURL, targetPrice, time.Now().UTC())
	if err != nil {
		return "", err
	}
	log.Printf("Alert created for chat %d, url %s, target %.2f", chatID, cleanURL, targetPrice)
	return id, nil
}

// UpdateAlertTarget sets a new target price and full URL on an existing
// alert. Used when a user re-tracks a URL they already follow.
func (db *DB) UpdateAlertTarget(id string, targetPrice float64, fullURL string) error {
	_, err := db.conn.Exec(
		`UPDATE alerts SET target_price = ?, full_url = ?, inserted_at = ? WHERE id = ?`,
		targetPrice, fullURL, time.Now().UTC(), id)
	if err == nil {
		log.Printf("Alert %s updated, new target %.2f", id, targetPrice)
	}
	return err
}

// GetUserAlerts returns a user's alerts, most recently updated first.
func (db *DB) GetUserAlerts(chatID int64) ([]models.Alert, error) {
	var alerts []models.Alert
	err := db.conn.Select(&alerts,
		`SELECT `+alertColumns+` FROM alerts WHERE chat_id = ? ORDER BY inserted_at DESC`,
		chatID)
	return alerts, err
}

// GetAllAlerts returns every alert in the store.
func (db *DB) GetAllAlerts() ([]models.Alert, error) {
	var alerts []models.Alert
	err := db.conn.Select(&alerts, `SELECT `+alertColumns+` FROM alerts`)
	return alerts, err
}

// DeleteAlert removes an alert owned by chatID. Returns false when no row
// matched (wrong id or not the owner).
func (db *DB) DeleteAlert(id string, chatID int64) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM alerts WHERE id = ? AND chat_id = ?`, id, chatID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetAlertLastPrice records the price observed this cycle (nil clears it).
// inserted_at is bumped so /alerts shows recently checked alerts first.
func (db *DB) SetAlertLastPrice(id string, price *float64) error {
	_, err := db.conn.Exec(
		`UPDATE alerts SET last_price = ?, inserted_at = ? WHERE id = ?`,
		price, time.Now().UTC(), id)
	return err
}

// SetAlertLastNotified stamps the time a notification was delivered.
func (db *DB) SetAlertLastNotified(id string, t time.Time) error {
	_, err := db.conn.Exec(`UPDATE alerts SET last_notified = ? WHERE id = ?`, t.UTC(), id)
	return err
}
