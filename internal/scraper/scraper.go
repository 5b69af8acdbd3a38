// Package scraper acquires product details for a URL: a time-bounded cache
// lookup first, then a (possibly proxied) page fetch and JSON-LD
// extraction, writing fresh results back to the cache.
package scraper

import (
	"context"
	"log"
	"time"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/database"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/models"
)

// Status says where a Result came from.
type Status int

const (
	StatusCacheHit Status = iota
	StatusScraped
	StatusFetchFailed
)

func (s Status) String() string {
	switch s {
	case StatusCacheHit:
		return "CACHE_HIT"
	case StatusScraped:
		return "SCRAPED"
	default:
		return "FETCH_FAILED"
	}
}

// Result is what GetProductInfo hands back. Details may be partially or
// fully absent; Outcome carries the terminal fetch outcome when the fetch
// failed.
type Result struct {
	models.ProductDetails
	FullURL  string
	CleanURL string
	Status   Status
	Outcome  Outcome
}

// Scraper is the product-info facade used by the bot and the checker.
type Scraper struct {
	db      *database.DB
	fetcher *Fetcher
	ttl     time.Duration
}

func New(db *database.DB, fetcher *Fetcher, ttl time.Duration) *Scraper {
	return &Scraper{db: db, fetcher: fetcher, ttl: ttl}
}

// GetProductInfo returns current product details for fullURL, from cache
// when fresh enough, otherwise by fetching and extracting. A successful
// extraction with a price is written back to the cache.
func (s *Scraper) GetProductInfo(ctx context.Context, fullURL string) Result {
	cleanURL := CleanURL(fullURL)
	res := Result{FullURL: fullURL, CleanURL: cleanURL}

	cached, err := s.db.GetCachedDetails(cleanURL, s.ttl)
	if err != nil {
		log.Printf("Cache lookup failed for %s: %v", cleanURL, err)
	}
	if cached != nil {
		log.Printf("Using cached details for %s", cleanURL)
		res.ProductDetails = *cached
		res.Status = StatusCacheHit
		return res
	}

	content, outcome := s.fetcher.Fetch(ctx, fullURL)
	if outcome != OutcomeSuccess {
		log.Printf("Could not fetch %s: %s", fullURL, outcome)
		res.Status = StatusFetchFailed
		res.Outcome = outcome
		return res
	}

	res.ProductDetails = ExtractProductDetails(content, fullURL)
	res.Status = StatusScraped
	if res.Price != nil {
		if err := s.db.SaveScrapedDetails(cleanURL, &res.ProductDetails); err != nil {
			log.Printf("Failed to cache details for %s: %v", cleanURL, err)
		}
	}
	return res
}
