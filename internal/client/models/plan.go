package models

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DurationBucket is the billing period of a plan.
type DurationBucket string

const (
	BucketMonthly   DurationBucket = "monthly"
	BucketQuarterly DurationBucket = "quarterly"
	BucketAnnual    DurationBucket = "annual"
)

// Plan is a membership offer from the static catalog.
type Plan struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Price    string         `json:"price"`
	Duration string         `json:"duration"`
	Bucket   DurationBucket `json:"bucket"`
	Features []string       `json:"features"`
	Popular  bool           `json:"popular,omitempty"`
}

// EndDate adds the plan period to start using calendar arithmetic.
// Day overflow is normalised (Jan 31 + 1 month = Mar 2/3).
func (p Plan) EndDate(start time.Time) time.Time {
	switch p.Bucket {
	case BucketMonthly:
		return start.AddDate(0, 1, 0)
	case BucketQuarterly:
		return start.AddDate(0, 3, 0)
	case BucketAnnual:
		return start.AddDate(1, 0, 0)
	default:
		return start
	}
}

// PriceValue keeps only the digits of the display price: "₹14,999" → 14999.
func (p Plan) PriceValue() int {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, p.Price)
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return v
}

// Trainer works at a branch.
type Trainer struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// Branch is a gym location from the static catalog.
type Branch struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	Hours      string    `json:"hours"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Facilities []string  `json:"facilities"`
	Trainers   []Trainer `json:"trainers,omitempty"`
}

// HasFacility reports an exact, case-sensitive facility match.
func (b Branch) HasFacility(name string) bool {
	for _, f := range b.Facilities {
		if f == name {
			return true
		}
	}
	return false
}
