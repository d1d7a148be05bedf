package models

// Quote is a single normalized price observation for one symbol.
// Price and PercentChange are rounded to 2 decimal places; Volume and
// Timestamp are passed through exactly as the upstream reports them.
// Quotes are ephemeral: they live in memory and on the wire, never in
// storage.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	PercentChange float64 `json:"percentChange"`
	Volume        string  `json:"volume"`
	Timestamp     string  `json:"timestamp"`
}
