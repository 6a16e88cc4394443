// Package models provides domain models for the signal dashboard.
package models

// ScanID identifies one of the upstream detection passes.
type ScanID string

const (
	ScanPremarket ScanID = "am"
	ScanOpen      ScanID = "open"
	ScanLunch     ScanID = "lunch"
	ScanPower     ScanID = "power"
)

// RawRecord is an untyped record exactly as decoded from a feed. Key names
// vary by scan type and any field may be missing.
type RawRecord map[string]any

// CanonicalRecord is the normalized record every raw record is mapped onto.
// All keys are always present; numeric fields are nil when the source value
// was absent or unparseable. Records are never mutated after creation and
// live only for one refresh cycle.
type CanonicalRecord struct {
	Scan   string   `json:"scan"`
	Symbol string   `json:"symbol"`
	Score  *float64 `json:"score"`
	Type   string   `json:"type"`
	Price  *float64 `json:"price"`
	Pct    *float64 `json:"pct"`
	Vol    *float64 `json:"vol"`
	Dir    string   `json:"dir"`
	VWAP   *float64 `json:"vwap"`
	Pos    string   `json:"pos"`
	Momo   *float64 `json:"momo"`
}

// ScanResult is the ranked output of normalizing one scan's feed.
type ScanResult struct {
	Tag     string             `json:"tag"`
	Records []CanonicalRecord  `json:"records"`
	Options []OptionSuggestion `json:"options"`
}

// SourceStatus reports the fetch outcome for one scan within a cycle.
type SourceStatus struct {
	ID      ScanID `json:"id"`
	Tag     string `json:"tag"`
	Source  string `json:"source"`
	Records int    `json:"records"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}
