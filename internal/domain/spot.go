package domain

import "time"

// Spot is a point of interest enriched from the places provider.
// Lookup identity is the case-insensitive (Name, City) pair; the store does not enforce it.
type Spot struct {
	ID          string    `json:"_id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Address     string    `json:"address" bson:"address"`
	City        string    `json:"city" bson:"city"`
	Hours       string    `json:"hours" bson:"hours"` // semicolon-delimited per-day segments
	Rating      *float64  `json:"rating,omitempty" bson:"rating,omitempty"`
	Price       *int      `json:"price,omitempty" bson:"price,omitempty"`
	Photo       *Photo    `json:"photo,omitempty" bson:"photo,omitempty"`
	Tips        []string  `json:"tips" bson:"tips"`
	Website     string    `json:"website,omitempty" bson:"website,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// Photo is a provider image reference. Consumers build a URL as prefix + size + suffix.
type Photo struct {
	Prefix string `json:"prefix" bson:"prefix"`
	Suffix string `json:"suffix" bson:"suffix"`
}

// URL composes the image URL for a size token such as "original" or "300x300".
func (p Photo) URL(size string) string {
	return p.Prefix + size + p.Suffix
}

// IsStale reports whether the record is at least maxAge old at now.
func (s *Spot) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.CreatedAt) >= maxAge
}

// PlaceCandidate is one search hit from the places provider.
type PlaceCandidate struct {
	ID       string
	Name     string
	Address  string
	Locality string
}

// PlaceDetails is the details payload for a single provider place, in provider order.
type PlaceDetails struct {
	Description string
	Website     string
	Hours       string
	Rating      *float64
	Price       *int
	Photos      []Photo
	Tips        []string
}

// PopularSpots is the completion provider's answer to "which spots are popular in this city".
type PopularSpots struct {
	IsCity bool     `json:"isCity"`
	Spots  []string `json:"spots,omitempty"`
}
