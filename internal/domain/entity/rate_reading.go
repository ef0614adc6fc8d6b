package entity

import (
	"time"
)

// RateReading is the canonical gold/silver rate record, independent of the
// wording used by any particular upstream feed. Rate fields are kept as text
// because no arithmetic is ever performed on them; the formatting delivered by
// the upstream is preserved exactly.
type RateReading struct {
	Vedhani      string    `json:"vedhani"`
	Ornaments22K string    `json:"ornaments22k"`
	Ornaments18K string    `json:"ornaments18k"`
	Silver       string    `json:"silver"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Source       string    `json:"source,omitempty"`
}

// SameRates reports whether the four rate fields match another reading.
// Timestamps and source are ignored; this backs the change-detection check
// that skips writes when nothing actually moved.
func (r *RateReading) SameRates(other *RateReading) bool {
	if other == nil {
		return false
	}
	return r.Vedhani == other.Vedhani &&
		r.Ornaments22K == other.Ornaments22K &&
		r.Ornaments18K == other.Ornaments18K &&
		r.Silver == other.Silver
}
