package entity

import (
	"time"
)

// GoldRate is a row in the append-only gold_rates provenance table. Unlike
// RateReading it tracks sale history over time: every sync appends a new row
// and exactly one row carries IsActive = true.
type GoldRate struct {
	ID                  int       `json:"id"`
	Gold24KSale         float64   `json:"gold_24k_sale"`
	Gold24KPurchase     *float64  `json:"gold_24k_purchase"`
	Gold22KSale         float64   `json:"gold_22k_sale"`
	Gold22KPurchase     *float64  `json:"gold_22k_purchase"`
	Gold18KSale         float64   `json:"gold_18k_sale"`
	Gold18KPurchase     *float64  `json:"gold_18k_purchase"`
	SilverPerKgSale     float64   `json:"silver_per_kg_sale"`
	SilverPerKgPurchase *float64  `json:"silver_per_kg_purchase"`
	IsActive            bool      `json:"is_active"`
	CreatedDate         time.Time `json:"created_date"`
	Source              string    `json:"source"`
}
