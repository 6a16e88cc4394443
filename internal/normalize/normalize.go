// Package normalize maps raw feed records onto the canonical schema and
// produces the deterministic per-scan ranking.
package normalize

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"signal-desk/internal/models"
)

// Normalize maps every raw record onto a CanonicalRecord tagged with scanTag
// and returns them ranked. No record is ever dropped: a record missing every
// field still yields a canonical row with nil numerics. An empty input
// yields an empty (non-nil) slice.
func Normalize(records []models.RawRecord, scanTag string) []models.CanonicalRecord {
	out := make([]models.CanonicalRecord, 0, len(records))
	for _, r := range records {
		out = append(out, canonicalize(r, scanTag))
	}
	Rank(out)
	return out
}

func canonicalize(r models.RawRecord, scanTag string) models.CanonicalRecord {
	return models.CanonicalRecord{
		Scan:   scanTag,
		Symbol: firstString(r, "symbol", "ticker"),
		Score:  Coerce(r["score"]),
		Type:   firstStringOr(scanTag, r, "type", "setup"),
		Price:  Coerce(first(r, "price", "current_price")),
		Pct:    Coerce(first(r, "pct", "gain_pct")),
		Vol:    Coerce(first(r, "vol", "latest_volume")),
		Dir:    stringValue(r["dir"]),
		VWAP:   Coerce(r["vwap"]),
		Pos:    firstString(r, "pos", "position"),
		Momo:   Coerce(first(r, "momo", "mom_pct", "momo15")),
	}
}

// first returns the first non-nil value along an ordered key fallback chain.
// Empty strings count as absent so a feed that emits "" for a missing field
// still falls through to the next key.
func first(r models.RawRecord, keys ...string) any {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v
	}
	return nil
}

func firstString(r models.RawRecord, keys ...string) string {
	return stringValue(first(r, keys...))
}

func firstStringOr(fallback string, r models.RawRecord, keys ...string) string {
	if s := firstString(r, keys...); s != "" {
		return s
	}
	return fallback
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// Coerce converts a raw field to a nullable numeric. JSON numbers, integer
// types and numeric strings are accepted; everything else, including NaN and
// infinities, becomes nil. Coercion failure never drops the record.
func Coerce(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Rank sorts records by (score desc, pct desc, vol desc). Nil sorts after
// every non-nil value at each step regardless of sign; ties keep input
// order, so the ranking is a stable, deterministic total order.
func Rank(records []models.CanonicalRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if c := compareDesc(records[i].Score, records[j].Score); c != 0 {
			return c < 0
		}
		if c := compareDesc(records[i].Pct, records[j].Pct); c != 0 {
			return c < 0
		}
		return compareDesc(records[i].Vol, records[j].Vol) < 0
	})
}

// compareDesc orders descending with nil last. Returns negative when a ranks
// before b.
func compareDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	default:
		return 0
	}
}

// ExtractOptions collects option suggestions embedded in raw records under
// the "options" key. Records without one contribute nothing; there are no
// placeholder rows.
func ExtractOptions(records []models.RawRecord, scanTag string) []models.OptionSuggestion {
	var out []models.OptionSuggestion
	for _, r := range records {
		opt, ok := r["options"].(map[string]any)
		if !ok {
			continue
		}
		out = append(out, models.OptionSuggestion{
			Scan:          scanTag,
			Symbol:        firstString(r, "symbol", "ticker"),
			Type:          stringValue(opt["type"]),
			OptionsTicker: stringValue(opt["options_ticker"]),
			Strike:        Coerce(opt["strike"]),
			Expiration:    stringValue(opt["expiration"]),
			Bid:           Coerce(opt["bid"]),
			Ask:           Coerce(opt["ask"]),
			Mid:           Coerce(opt["mid"]),
			BuyMin:        Coerce(opt["buy_min"]),
			BuyMax:        Coerce(opt["buy_max"]),
			Target:        Coerce(opt["target"]),
			Stop:          Coerce(opt["stop"]),
		})
	}
	return out
}
