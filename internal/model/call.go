package model

import "time"

// Network is the chain or venue a call trades on.
type Network string

const (
	NetworkSolana   Network = "solana"
	NetworkBSC      Network = "bsc"
	NetworkEthereum Network = "ethereum"
	NetworkBase     Network = "base"
	NetworkTon      Network = "ton"
	NetworkTron     Network = "tron"
	NetworkSui      Network = "sui"
	NetworkCex      Network = "cex"
)

func (n Network) IsValid() bool {
	switch n {
	case NetworkSolana, NetworkBSC, NetworkEthereum, NetworkBase,
		NetworkTon, NetworkTron, NetworkSui, NetworkCex:
		return true
	}
	return false
}

// Strategy is the call's intended holding horizon.
type Strategy string

const (
	StrategyFlip   Strategy = "flip"
	StrategyMedium Strategy = "medium"
	StrategyLong   Strategy = "long"
)

func (s Strategy) IsValid() bool {
	switch s {
	case StrategyFlip, StrategyMedium, StrategyLong:
		return true
	}
	return false
}

type CallStatus string

const (
	CallStatusActive CallStatus = "active"
	CallStatusClosed CallStatus = "closed"
)

// ActiveWindow is the period after CreatedAt during which a call counts as
// live for "active only" filtering.
const ActiveWindow = 24 * time.Hour

// Call is a published trade recommendation. Every Call produced by the
// repository has a non-empty ID and concrete Status, Strategy, and CreatedAt;
// everything else may be absent.
type Call struct {
	ID               string     `json:"id"`
	AuthorID         string     `json:"author_id"`
	Network          Network    `json:"network"`
	Ticker           string     `json:"ticker"`
	Pair             string     `json:"pair"`
	EntryPoint       string     `json:"entry_point"`
	Target           string     `json:"target"`
	Strategy         Strategy   `json:"strategy"`
	Risks            string     `json:"risks"`
	CancelConditions string     `json:"cancel_conditions,omitempty"`
	Comment          string     `json:"comment,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	Status           CallStatus `json:"status"`
	MaxProfit        *float64   `json:"max_profit,omitempty"`
	CurrentPnL       *float64   `json:"current_pnl,omitempty"`
	CurrentMarketCap *float64   `json:"current_market_cap,omitempty"`
	SignalMarketCap  *float64   `json:"signal_market_cap,omitempty"`
	CurrentPrice     *float64   `json:"current_price,omitempty"`
	EntryPrice       *float64   `json:"entry_price,omitempty"`
}

// WithinActiveWindow reports whether the call is live at the given instant.
func (c Call) WithinActiveWindow(now time.Time) bool {
	return c.Status == CallStatusActive && now.Sub(c.CreatedAt) <= ActiveWindow
}

// CallTelemetry carries the market-derived fields refreshed on active calls.
type CallTelemetry struct {
	CurrentPrice     *float64
	CurrentMarketCap *float64
	CurrentPnL       *float64
	MaxProfit        *float64
}
