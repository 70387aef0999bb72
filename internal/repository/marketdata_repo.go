package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"apevault/config"
	"apevault/internal/dto"
	"apevault/internal/model"
	"apevault/pkg/cache"
	"apevault/pkg/httpclient"
	"apevault/pkg/logger"

	"golang.org/x/time/rate"
)

type MarketDataRepository interface {
	GetQuote(ctx context.Context, network model.Network, ticker string) (*dto.TickerQuote, error)
}

type marketDataRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	cache          cache.Cache
	requestLimiter *rate.Limiter
}

func NewMarketDataRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MarketData.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &marketDataRepository{
		httpClient:     httpclient.New(cfg.MarketData.BaseURL, cfg.MarketData.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		cache:          inmemoryCache,
		requestLimiter: requestLimiter,
	}
}

func quoteCacheKey(network model.Network, ticker string) string {
	return fmt.Sprintf("marketdata:quote:%s:%s", network, strings.ToLower(ticker))
}

func (r *marketDataRepository) GetQuote(ctx context.Context, network model.Network, ticker string) (*dto.TickerQuote, error) {
	key := quoteCacheKey(network, ticker)
	if cached, found := r.cache.Get(key); found {
		if quote, ok := cached.(*dto.TickerQuote); ok {
			return quote, nil
		}
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	assetID := strings.ToLower(ticker)
	queryParams := map[string]string{
		"ids":                assetID,
		"vs_currencies":      "usd",
		"include_market_cap": "true",
	}

	var priceResp dto.SimplePriceResponse
	resp, err := r.httpClient.Get(ctx, "/simple/price", queryParams, nil, &priceResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", ticker, err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Market data API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("market data api returned status: %d", resp.StatusCode)
	}

	asset, ok := priceResp[assetID]
	if !ok {
		return nil, fmt.Errorf("no quote returned for ticker: %s", ticker)
	}
	if asset.USD <= 0 {
		return nil, fmt.Errorf("invalid price for ticker %s: %f", ticker, asset.USD)
	}

	quote := &dto.TickerQuote{
		PriceUSD:     asset.USD,
		MarketCapUSD: asset.USDMarketCap,
	}
	r.cache.Set(key, quote, r.cfg.MarketData.QuoteCacheTTL)

	return quote, nil
}
