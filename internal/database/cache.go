package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/models"
)

// cacheRow mirrors the scraped_prices table. Text columns are nullable so
// partially extracted products round-trip cleanly.
type cacheRow struct {
	CleanURL     string         `db:"clean_url"`
	Price        *float64       `db:"price"`
	Availability sql.NullString `db:"availability"`
	Condition    sql.NullString `db:"product_condition"`
	Name         sql.NullString `db:"product_name"`
	Description  sql.NullString `db:"description"`
	ImageURL     sql.NullString `db:"image_url"`
	Color        sql.NullString `db:"color"`
	Storage      sql.NullString `db:"storage"`
	BrandName    sql.NullString `db:"brand_name"`
	ScrapedAt    time.Time      `db:"scraped_at"`
}

func (r *cacheRow) toDetails() *models.ProductDetails {
	return &models.ProductDetails{
		Price:        r.Price,
		Availability: models.Availability(r.Availability.String),
		Condition:    r.Condition.String,
		Name:         r.Name.String,
		Description:  r.Description.String,
		Image:        r.ImageURL.String,
		Color:        r.Color.String,
		Storage:      r.Storage.String,
		Brand:        r.BrandName.String,
	}
}

// GetCachedDetails returns the cached snapshot for cleanURL if one exists
// and is younger than ttl. Staleness is checked at read time; stale rows
// stay in place until the retention purge removes them.
func (db *DB) GetCachedDetails(cleanURL string, ttl time.Duration) (*models.ProductDetails, error) {
	var row cacheRow
	err := db.conn.Get(&row,
		`SELECT clean_url, price, availability, product_condition, product_name,
		        description, image_url, color, storage, brand_name, scraped_at
		 FROM scraped_prices WHERE clean_url = ?`, cleanURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Since(row.ScrapedAt) >= ttl {
		return nil, nil
	}
	return row.toDetails(), nil
}

// SaveScrapedDetails upserts the snapshot for cleanURL, superseding any
// previous row, and stamps it with the current time.
func (db *DB) SaveScrapedDetails(cleanURL string, d *models.ProductDetails) error {
	_, err := db.conn.Exec(`
		INSERT INTO scraped_prices (
			clean_url, price, availability, product_condition, product_name,
			description, image_url, color, storage, brand_name, scraped_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(clean_url) DO UPDATE SET
			price = excluded.price,
			availability = excluded.availability,
			product_condition = excluded.product_condition,
			product_name = excluded.product_name,
			description = excluded.description,
			image_url = excluded.image_url,
			color = excluded.color,
			storage = excluded.storage,
			brand_name = excluded.brand_name,
			scraped_at = excluded.scraped_at`,
		cleanURL, d.Price, string(d.Availability), d.Condition, d.Name,
		d.Description, d.Image, d.Color, d.Storage, d.Brand, time.Now().UTC())
	return err
}

// PurgeScrapedBefore deletes cache rows scraped before cutoff and returns
// how many were removed. This bounds storage growth independently of the
// freshness window.
func (db *DB) PurgeScrapedBefore(cutoff time.Time) (int64, error) {
	res, err := db.conn.Exec(`DELETE FROM scraped_prices WHERE scraped_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
