package scraper

import "net/url"

// variantParam is the only query parameter that identifies a product
// variant on the tracked store; everything else is tracking noise.
const variantParam = "l"

// CleanURL canonicalises a product URL into a stable cache/dedup key: the
// fragment and every query parameter except the variant selector are
// dropped. Never fails; input that cannot be parsed is returned unchanged.
func CleanURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	kept := url.Values{}
	if vs, ok := u.Query()[variantParam]; ok {
		kept[variantParam] = vs
	}
	u.RawQuery = kept.Encode()
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
