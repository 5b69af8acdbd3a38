package scraper

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/models"
)

// ExtractProductDetails pulls structured product data out of a page by
// scanning its JSON-LD blocks for a schema.org Product. It never fails:
// malformed input yields a details value with absent fields.
func ExtractProductDetails(content, urlForLog string) models.ProductDetails {
	var details models.ProductDetails

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		log.Printf("Error parsing document for %s: %v", urlForLog, err)
		return details
	}

	productFound := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}

		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			// One bad block must not abort the scan of the rest.
			log.Printf("Skipping malformed JSON-LD block for %s: %v", urlForLog, err)
			return true
		}

		product, ok := productNode(data)
		if !ok {
			return true
		}
		productFound = true

		details.Name = stringField(product, "name")
		details.Description = stringField(product, "description")
		details.Image = imageField(product["image"])
		details.Color = stringField(product, "color")
		details.Storage = stringField(product, "storage")
		details.Brand = brandField(product["brand"])

		offer, ok := firstOffer(product["offers"])
		if !ok {
			// Product without an offer: keep what we have and keep
			// scanning in case a later block carries the price.
			return true
		}
		if rawPrice, ok := offer["price"]; ok {
			if price, ok := parsePrice(rawPrice); ok {
				details.Price = &price
			} else {
				log.Printf("Invalid price %v for %s", rawPrice, urlForLog)
			}
			details.Availability = models.Availability(lastURISegment(stringField(offer, "availability")))
			details.Condition = lastURISegment(stringField(offer, "itemCondition"))
			log.Printf("Parsed product details (JSON-LD) for %s", urlForLog)
			return false
		}
		return true
	})

	if !productFound {
		log.Printf("No JSON-LD Product block found for %s", urlForLog)
	} else if details.Price == nil {
		log.Printf("Product block found but no usable price for %s", urlForLog)
	}
	return details
}

// productNode unwraps a decoded JSON-LD value into a Product object,
// looking inside a top-level array when necessary.
func productNode(data any) (map[string]any, bool) {
	switch v := data.(type) {
	case map[string]any:
		if v["@type"] == "Product" {
			return v, true
		}
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok && m["@type"] == "Product" {
				return m, true
			}
		}
	}
	return nil, false
}

// firstOffer accepts either a single offer object or a list of them.
func firstOffer(offers any) (map[string]any, bool) {
	switch v := offers.(type) {
	case map[string]any:
		return v, true
	case []any:
		if len(v) > 0 {
			if m, ok := v[0].(map[string]any); ok {
				return m, true
			}
		}
	}
	return nil, false
}

func parsePrice(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		price, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return price, true
	}
	return 0, false
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// imageField takes the first element when the schema lists several images.
func imageField(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// brandField handles both {"@type":"Brand","name":"X"} and a flat "X".
func brandField(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		return stringField(v, "name")
	}
	return ""
}

// lastURISegment turns "https://schema.org/InStock" into "InStock".
func lastURISegment(uri string) string {
	if uri == "" {
		return ""
	}
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}
