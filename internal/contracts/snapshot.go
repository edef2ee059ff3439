package contracts

// MarketSnapshot is a point-in-time read of market quotes.
// Quotes is always populated (real or mock); Changes holds percent
// variations for the symbols that reported one; Indicators carries
// optional secondary enrichment (e.g. the Alpha Vantage USD/BRL spot).
type MarketSnapshot struct {
	Quotes     map[string]float64 `json:"quotes"`
	Changes    map[string]float64 `json:"changes,omitempty"`
	Indicators map[string]any     `json:"indicators,omitempty"`
}

// Quote returns the quote for a symbol, if present.
func (m *MarketSnapshot) Quote(symbol string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.Quotes[symbol]
	return v, ok
}

// Change returns the percent change for a symbol, if present.
func (m *MarketSnapshot) Change(symbol string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.Changes[symbol]
	return v, ok
}

// MacroSnapshot aggregates the five macro sub-fetches. Every field is
// independently optional: nil means "no evidence", not "false".
type MacroSnapshot struct {
	USRates         *float64 `json:"usRates,omitempty"`
	USRatesDelta    *float64 `json:"usRatesDelta,omitempty"`
	BRRates         *float64 `json:"brRates,omitempty"`
	BRRatesDelta    *float64 `json:"brRatesDelta,omitempty"`
	USPositive      *bool    `json:"usPositive,omitempty"`
	BRPositive      *bool    `json:"brPositive,omitempty"`
	BRLFlowNegative *bool    `json:"brlFlowNegative,omitempty"`
	ExportsUp       *bool    `json:"exportsUp,omitempty"`
	VIXAbove20      *bool    `json:"vixAbove20,omitempty"`
}

// Float wraps a float64 as an optional field.
func Float(v float64) *float64 { return &v }

// Bool wraps a bool as an optional field.
func Bool(v bool) *bool { return &v }
