package api

import "time"

// SnapshotAgg is an OHLCV aggregate embedded in a ticker snapshot.
type SnapshotAgg struct {
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
	VWAP   float64 `json:"vw,omitempty"`
}

// SnapshotQuote is the most recent quote embedded in a ticker snapshot.
type SnapshotQuote struct {
	BidPrice  float64 `json:"p"`
	BidSize   float64 `json:"s"`
	AskPrice  float64 `json:"P"`
	AskSize   float64 `json:"S"`
	Timestamp int64   `json:"t"`
}

// SnapshotTicker is one ticker's entry in a market movers snapshot.
type SnapshotTicker struct {
	Ticker           string        `json:"ticker"`
	TodaysChange     float64       `json:"todaysChange"`
	TodaysChangePerc float64       `json:"todaysChangePerc"`
	Updated          int64         `json:"updated"`
	Day              SnapshotAgg   `json:"day"`
	Min              SnapshotAgg   `json:"min"`
	PrevDay          SnapshotAgg   `json:"prevDay"`
	LastQuote        SnapshotQuote `json:"lastQuote,omitempty"`
}

// SnapshotResponse is the movers (gainers/losers) snapshot payload.
type SnapshotResponse struct {
	Status  string           `json:"status"`
	Tickers []SnapshotTicker `json:"tickers"`
}

// AggBar is one OHLCV bar in the provider's wire format. Timestamp is epoch
// milliseconds.
type AggBar struct {
	Open         float64 `json:"o"`
	High         float64 `json:"h"`
	Low          float64 `json:"l"`
	Close        float64 `json:"c"`
	Volume       float64 `json:"v"`
	VWAP         float64 `json:"vw"`
	Timestamp    int64   `json:"t"`
	Transactions int     `json:"n"`
}

// AggsResponse is the aggregates (bars) payload.
type AggsResponse struct {
	Ticker       string   `json:"ticker"`
	Status       string   `json:"status"`
	QueryCount   int      `json:"queryCount"`
	ResultsCount int      `json:"resultsCount"`
	Adjusted     bool     `json:"adjusted"`
	Results      []AggBar `json:"results"`
}

// Bar is an OHLCV bar with resolved field names and a real timestamp, the
// shape served to downstream consumers.
type Bar struct {
	Timestamp    time.Time `json:"timestamp"`
	Open         float64   `json:"open"`
	High         float64   `json:"high"`
	Low          float64   `json:"low"`
	Close        float64   `json:"close"`
	Volume       float64   `json:"volume"`
	VWAP         float64   `json:"vwap"`
	Transactions int       `json:"transactions"`
}

// TickerDetails is the reference record for one ticker.
type TickerDetails struct {
	Ticker                      string  `json:"ticker"`
	Name                        string  `json:"name"`
	Market                      string  `json:"market"`
	Locale                      string  `json:"locale"`
	PrimaryExchange             string  `json:"primary_exchange"`
	Type                        string  `json:"type"`
	Active                      bool    `json:"active"`
	CurrencyName                string  `json:"currency_name"`
	MarketCap                   float64 `json:"market_cap"`
	ShareClassSharesOutstanding float64 `json:"share_class_shares_outstanding"`
	WeightedSharesOutstanding   float64 `json:"weighted_shares_outstanding"`
	Description                 string  `json:"description,omitempty"`
}

// TickerDetailsResponse wraps a single ticker's reference record.
type TickerDetailsResponse struct {
	RequestID string        `json:"request_id"`
	Status    string        `json:"status"`
	Results   TickerDetails `json:"results"`
}

// Publisher identifies a news source.
type Publisher struct {
	Name        string `json:"name"`
	HomepageURL string `json:"homepage_url"`
	LogoURL     string `json:"logo_url,omitempty"`
	FaviconURL  string `json:"favicon_url,omitempty"`
}

// NewsItem is one news article.
type NewsItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	PublishedUTC time.Time `json:"published_utc"`
	ArticleURL   string    `json:"article_url"`
	Tickers      []string  `json:"tickers"`
	Description  string    `json:"description,omitempty"`
	Publisher    Publisher `json:"publisher"`
}

// NewsResponse is the ticker news payload.
type NewsResponse struct {
	Count   int        `json:"count"`
	Status  string     `json:"status"`
	Results []NewsItem `json:"results"`
	NextURL string     `json:"next_url,omitempty"`
}
