package models

import "time"

// Marketplace identifies a sales channel
type Marketplace string

const (
	MarketplaceWB   Marketplace = "wb"
	MarketplaceOzon Marketplace = "ozon"
)

// Period is an inclusive date range
type Period struct {
	From time.Time
	To   time.Time
}

// NewPeriod creates a period, swapping bounds if given in reverse
func NewPeriod(from, to time.Time) Period {
	if to.Before(from) {
		from, to = to, from
	}
	return Period{From: from, To: to}
}

// Days returns the number of calendar days covered, minimum 1
func (p Period) Days() int {
	days := int(p.To.Sub(p.From).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Contains reports whether d falls inside the period
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.From) && !d.After(p.To)
}
