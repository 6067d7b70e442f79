package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/api"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/metrics"
)

const newsLimit = 10

// proxy serves one REST passthrough request: cache lookup, upstream fetch,
// cache fill. An upstream failure maps to 502 with the given message.
func (s *Server) proxy(w http.ResponseWriter, r *http.Request, endpoint, cacheKey, errMsg string, fetch func(ctx context.Context) (any, error)) {
	metrics.ProxyRequestsTotal.WithLabelValues(endpoint).Inc()
	start := time.Now()
	defer func() {
		metrics.ProxyDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	if data, ok := s.cache.Get(ctx, cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	result, err := fetch(ctx)
	if err != nil {
		metrics.ProxyErrorsTotal.WithLabelValues(endpoint).Inc()
		s.logger.Error("proxy fetch failed",
			"endpoint", endpoint,
			"error", err,
		)
		writeError(w, http.StatusBadGateway, errMsg)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		metrics.ProxyErrorsTotal.WithLabelValues(endpoint).Inc()
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.cache.Set(ctx, cacheKey, data)
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleGainers(w http.ResponseWriter, r *http.Request) {
	s.proxy(w, r, "gainers", "gainers", "Failed to fetch gainers", func(ctx context.Context) (any, error) {
		return s.market.GetGainers(ctx)
	})
}

func (s *Server) handleLosers(w http.ResponseWriter, r *http.Request) {
	s.proxy(w, r, "losers", "losers", "Failed to fetch losers", func(ctx context.Context) (any, error) {
		return s.market.GetLosers(ctx)
	})
}

func (s *Server) handleHistorical(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	daysBack := 0
	if v := r.URL.Query().Get("days_back"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid days_back")
			return
		}
		daysBack = n
	}
	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "1"
	}

	key := fmt.Sprintf("historical:%s:%d:%s", symbol, daysBack, interval)
	s.proxy(w, r, "historical", key, "Failed to fetch historical data", func(ctx context.Context) (any, error) {
		resp, err := s.market.GetAggregates(ctx, symbol, api.GetAggregatesOptions{
			DaysBack: daysBack,
			Interval: interval,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"results": api.ConvertBars(resp.Results)}, nil
	})
}

func (s *Server) handleFloat(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	s.proxy(w, r, "float", "float:"+symbol, "Failed to fetch float data", func(ctx context.Context) (any, error) {
		return s.market.GetTickerDetails(ctx, symbol)
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	s.proxy(w, r, "news", "news:"+symbol, "Failed to fetch news", func(ctx context.Context) (any, error) {
		return s.market.GetNews(ctx, symbol, newsLimit)
	})
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	s.proxy(w, r, "volume", "volume:"+symbol, "Failed to fetch volume data", func(ctx context.Context) (any, error) {
		// Volume is the summed intraday minute bars for the current
		// market date.
		resp, err := s.market.GetAggregates(ctx, symbol, api.GetAggregatesOptions{})
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"symbol": symbol,
			"volume": api.TotalVolume(resp.Results),
		}, nil
	})
}
