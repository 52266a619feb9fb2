package entity

// SymbolQuote is one candidate returned by the symbol lookup service.
type SymbolQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname,omitempty"`
	LongName  string `json:"longname,omitempty"`
	Exchange  string `json:"exchange,omitempty"`
	QuoteType string `json:"quoteType,omitempty"`
}

// TickerResolution is the outcome of validating a user supplied symbol.
type TickerResolution struct {
	Input       string   `json:"input"`
	Symbol      string   `json:"symbol,omitempty"`
	Name        string   `json:"name,omitempty"`
	Valid       bool     `json:"valid"`
	Suggestions []string `json:"suggestions,omitempty"`
	Message     string   `json:"message,omitempty"`
}
