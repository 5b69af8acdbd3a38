package database

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the sqlite connection holding alerts and the scrape cache.
type DB struct {
	conn *sqlx.DB
}

// New opens (or creates) the database at path and ensures the schema.
func New(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; a second pooled connection would also
	// see a different database entirely when path is ":memory:".
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Printf("Database ready at %s", path)
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		chat_id INTEGER NOT NULL,
		full_url TEXT NOT NULL,
		clean_url TEXT NOT NULL,
		target_price REAL NOT NULL,
		last_price REAL,
		last_notified DATETIME,
		inserted_at DATETIME NOT NULL,
		UNIQUE(chat_id, clean_url)
	);

	CREATE TABLE IF NOT EXISTS scraped_prices (
		clean_url TEXT PRIMARY KEY,
		price REAL,
		availability TEXT,
		product_condition TEXT,
		product_name TEXT,
		description TEXT,
		image_url TEXT,
		color TEXT,
		storage TEXT,
		brand_name TEXT,
		scraped_at DATETIME NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}
