package models

import "strings"

// Availability is the last path segment of a schema.org availability URI,
// e.g. "InStock" from "https://schema.org/InStock". Kept verbatim so
// uncommon values ("LimitedAvailability", "PreOrder", ...) survive a trip
// through the cache; empty means unknown.
type Availability string

const (
	AvailabilityInStock    Availability = "InStock"
	AvailabilityOutOfStock Availability = "OutOfStock"
	AvailabilityUnknown    Availability = ""
)

// InStock reports whether the product was listed as purchasable.
func (a Availability) InStock() bool {
	return strings.EqualFold(string(a), string(AvailabilityInStock))
}

// ProductDetails is a snapshot of what one extraction learned about a
// product. All fields are optional; a nil Price means no price was found.
type ProductDetails struct {
	Price        *float64
	Availability Availability
	Condition    string
	Name         string
	Description  string
	Image        string
	Color        string
	Storage      string
	Brand        string
}
