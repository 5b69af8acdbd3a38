package scraper_test

import (
	"testing"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/scraper"
)

func TestCleanURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips tracking params and fragment",
			in:   "https://x.com/p?l=9&ref=abc#s",
			want: "https://x.com/p?l=9",
		},
		{
			name: "keeps only the variant param",
			in:   "https://shop.example/item?utm_source=tg&l=128gb&campaign=x",
			want: "https://shop.example/item?l=128gb",
		},
		{
			name: "no query left",
			in:   "https://shop.example/item?ref=abc",
			want: "https://shop.example/item",
		},
		{
			name: "bare url unchanged",
			in:   "https://shop.example/item",
			want: "https://shop.example/item",
		},
		{
			name: "unparseable input returned as-is",
			in:   "http://bad url\x7f",
			want: "http://bad url\x7f",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scraper.CleanURL(tc.in); got != tc.want {
				t.Fatalf("CleanURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanURLIdempotent(t *testing.T) {
	urls := []string{
		"https://x.com/p?l=9&ref=abc#s",
		"https://shop.example/item?b=2&a=1&l=256gb",
		"not a url at all",
	}
	for _, u := range urls {
		once := scraper.CleanURL(u)
		if twice := scraper.CleanURL(once); twice != once {
			t.Fatalf("CleanURL not idempotent for %q: %q != %q", u, once, twice)
		}
	}
}

func TestCleanURLCollapsesVariants(t *testing.T) {
	a := scraper.CleanURL("https://x.com/p?l=9&ref=aaa")
	b := scraper.CleanURL("https://x.com/p?l=9&utm_medium=mail#reviews")
	if a != b {
		t.Fatalf("same variant should normalise identically: %q vs %q", a, b)
	}
}
