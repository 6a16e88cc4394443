package models

// OptionSuggestion is an option pick saved by the upstream bot inside a raw
// record's "options" object. Records without one produce no suggestion.
type OptionSuggestion struct {
	Scan          string   `json:"scan"`
	Symbol        string   `json:"symbol"`
	Type          string   `json:"type"`
	OptionsTicker string   `json:"options_ticker"`
	Strike        *float64 `json:"strike"`
	Expiration    string   `json:"expiration"`
	Bid           *float64 `json:"bid"`
	Ask           *float64 `json:"ask"`
	Mid           *float64 `json:"mid"`
	BuyMin        *float64 `json:"buy_min"`
	BuyMax        *float64 `json:"buy_max"`
	Target        *float64 `json:"target"`
	Stop          *float64 `json:"stop"`
}
