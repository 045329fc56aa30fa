package massive

// SnapshotsResponse is the envelope returned by the batch snapshot endpoint.
type SnapshotsResponse struct {
	Status    string           `json:"status"`
	RequestID string           `json:"request_id"`
	Results   []OptionSnapshot `json:"results"`
	NextURL   string           `json:"next_url,omitempty"`
}

// OptionSnapshot is the current state of a single option contract.
type OptionSnapshot struct {
	Ticker  string          `json:"ticker"`
	Details ContractDetails `json:"details"`
	Day     DayBar          `json:"day"`
	Quote   Quote           `json:"last_quote"`

	ImpliedVolatility float64 `json:"implied_volatility,omitempty"`
	OpenInterest      int64   `json:"open_interest,omitempty"`
}

// ContractDetails identifies the contract itself.
type ContractDetails struct {
	Ticker         string  `json:"ticker"`
	Underlying     string  `json:"underlying_ticker"`
	ContractType   string  `json:"contract_type"` // "call" or "put"
	StrikePrice    float64 `json:"strike_price"`
	ExpirationDate string  `json:"expiration_date"` // YYYY-MM-DD
	SharesPerUnit  int     `json:"shares_per_contract"`
}

// DayBar is the current trading day's aggregate.
type DayBar struct {
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
	VWAP   float64 `json:"vwap,omitempty"`
}

// Quote is the most recent NBBO quote.
type Quote struct {
	Bid       float64 `json:"bid"`
	BidSize   int64   `json:"bid_size"`
	Ask       float64 `json:"ask"`
	AskSize   int64   `json:"ask_size"`
	Timestamp int64   `json:"last_updated"` // ns since epoch
}
