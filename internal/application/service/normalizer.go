// Package service internal/application/service/normalizer.go
package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/api"
)

// Canonical field names of a rate reading.
const (
	fieldVedhani      = "vedhani"
	fieldOrnaments22K = "ornaments22k"
	fieldOrnaments18K = "ornaments18k"
	fieldSilver       = "silver"
)

// Schema names, in lookup priority order.
const (
	schemaCanonical = "canonical"
	schemaDisplay   = "display"
)

// keySchema maps canonical fields to the keys one upstream schema uses for
// them. Schemas are tried in order and, within a schema, keys in order; the
// first key present in the document wins. Fields are independent, so a hybrid
// document resolves each field on its own.
type keySchema struct {
	name string
	keys map[string][]string
}

var rateSchemas = []keySchema{
	{
		name: schemaCanonical,
		keys: map[string][]string{
			fieldVedhani:      {"vedhani"},
			fieldOrnaments22K: {"ornaments22k", "ornaments22K"},
			fieldOrnaments18K: {"ornaments18k", "ornaments18K"},
			fieldSilver:       {"silver"},
		},
	},
	{
		name: schemaDisplay,
		keys: map[string][]string{
			fieldVedhani:      {"24K Gold"},
			fieldOrnaments22K: {"22K Gold"},
			fieldOrnaments18K: {"18K Gold"},
			fieldSilver:       {"Silver"},
		},
	},
}

// Normalize maps a raw upstream document into the canonical reading. Every
// field resolves to a string; a key missing from the document resolves to an
// empty string, never an error. UpdatedAt comes from an explicit timestamp
// field when the document carries a parseable one, otherwise from the clock.
func Normalize(raw api.RawDocument) *entity.RateReading {
	reading := &entity.RateReading{
		Vedhani:      lookupField(raw, fieldVedhani),
		Ornaments22K: lookupField(raw, fieldOrnaments22K),
		Ornaments18K: lookupField(raw, fieldOrnaments18K),
		Silver:       lookupField(raw, fieldSilver),
		UpdatedAt:    lookupTimestamp(raw),
	}
	if src, ok := raw["source"].(string); ok {
		reading.Source = src
	}
	return reading
}

// NormalizeGoldRate maps a raw document into the numeric provenance shape for
// the gold_rates table. The display-label feed quotes silver per gram while
// gold_rates stores it per kilogram, so that single pipeline multiplies by
// 1000; the canonical feed already quotes per kilogram. Purchase columns have
// no upstream equivalent and stay nil.
func NormalizeGoldRate(raw api.RawDocument, defaultSource string) *entity.GoldRate {
	silver, silverSchema := lookupFieldSchema(raw, fieldSilver)
	silverPerKg := parseNumber(silver)
	if silverSchema == schemaDisplay {
		silverPerKg *= 1000
	}

	rate := &entity.GoldRate{
		Gold24KSale:     parseNumber(lookupField(raw, fieldVedhani)),
		Gold22KSale:     parseNumber(lookupField(raw, fieldOrnaments22K)),
		Gold18KSale:     parseNumber(lookupField(raw, fieldOrnaments18K)),
		SilverPerKgSale: silverPerKg,
		IsActive:        true,
		CreatedDate:     lookupTimestamp(raw),
		Source:          defaultSource,
	}
	if src, ok := raw["source"].(string); ok && src != "" {
		rate.Source = src
	}
	return rate
}

func lookupField(raw api.RawDocument, field string) string {
	value, _ := lookupFieldSchema(raw, field)
	return value
}

// lookupFieldSchema resolves a canonical field and reports which schema's key
// served it. Absent fields resolve to ("", "").
func lookupFieldSchema(raw api.RawDocument, field string) (string, string) {
	for _, schema := range rateSchemas {
		for _, key := range schema.keys[field] {
			if value, ok := raw[key]; ok {
				return coerceString(value), schema.name
			}
		}
	}
	return "", ""
}

// lookupTimestamp reads an explicit updatedAt/updated_at field. Parse failure
// falls back to the current instant rather than propagating an error.
func lookupTimestamp(raw api.RawDocument) time.Time {
	for _, key := range []string{"updatedAt", "updated_at"} {
		value, ok := raw[key]
		if !ok {
			continue
		}
		s, ok := value.(string)
		if !ok {
			break
		}
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return ts
		}
		break
	}
	return time.Now()
}

// coerceString converts a raw JSON value to text without rounding or unit
// conversion. json.Number keeps the exact digits the upstream sent.
func coerceString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func parseNumber(s string) float64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}
