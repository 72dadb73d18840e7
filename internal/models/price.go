package models

import (
	"time"

	"gorm.io/gorm"
)

// MandiPrice is a cached commodity price observation from a mandi.
// Rows double as the offline fallback when the upstream price API is down.
type MandiPrice struct {
	gorm.Model
	Commodity  string `gorm:"index:idx_commodity_state"`
	Market     string
	State      string `gorm:"index:idx_commodity_state"`
	Unit       string `gorm:"default:'quintal'"`
	MinPrice   float64
	MaxPrice   float64
	ModalPrice float64
	RecordedAt time.Time
	FetchedAt  time.Time `gorm:"index"`
}

// IsFresh reports whether the cached quote is recent enough to serve
// without refetching.
func (p *MandiPrice) IsFresh(maxAge time.Duration) bool {
	return time.Since(p.FetchedAt) <= maxAge
}
