package dto

// TickerQuote is a point-in-time market snapshot for one traded asset.
type TickerQuote struct {
	PriceUSD     float64
	MarketCapUSD float64
}

// SimplePriceResponse mirrors the /simple/price payload of the market data
// API: asset id -> {"usd": ..., "usd_market_cap": ...}.
type SimplePriceResponse map[string]struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
}
