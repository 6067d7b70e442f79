package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/api"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/cache"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/relay"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/session"
)

// MarketData is the slice of the REST client the proxy endpoints use.
// *api.Client satisfies it; tests substitute their own.
type MarketData interface {
	GetGainers(ctx context.Context) (*api.SnapshotResponse, error)
	GetLosers(ctx context.Context) (*api.SnapshotResponse, error)
	GetAggregates(ctx context.Context, symbol string, opts api.GetAggregatesOptions) (*api.AggsResponse, error)
	GetTickerDetails(ctx context.Context, symbol string) (*api.TickerDetailsResponse, error)
	GetNews(ctx context.Context, symbol string, limit int) (*api.NewsResponse, error)
}

// Config holds the listener settings.
type Config struct {
	Port int

	// RequestTimeout bounds each upstream REST call made on behalf of a
	// proxy request.
	RequestTimeout time.Duration

	// FeedKeyConfigured is reported by the health endpoint.
	FeedKeyConfigured bool

	// Sessions configures each accepted WebSocket connection.
	Sessions session.Config
}

// Server serves the WebSocket relay endpoint and the REST proxy.
type Server struct {
	cfg    Config
	logger *slog.Logger

	relay  *relay.Relay
	market MarketData
	cache  cache.Store

	// db is the archive pool; nil when archiving is disabled. Health
	// checks ping it when present.
	db *pgxpool.Pool

	httpSrv *http.Server
}

// New creates a Server. db may be nil.
func New(cfg Config, rel *relay.Relay, market MarketData, store cache.Store, db *pgxpool.Pool, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		relay:  rel,
		market: market,
		cache:  store,
		db:     db,
	}
	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.routes(),
	}
	return s
}

// ListenAndServe blocks serving HTTP until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleHome).Methods("GET")
	r.HandleFunc("/ws", s.handleWS)
	r.HandleFunc("/api/health", s.handleHealth).Methods("GET")

	r.HandleFunc("/api/gainers", s.handleGainers).Methods("GET")
	r.HandleFunc("/api/losers", s.handleLosers).Methods("GET")
	r.HandleFunc("/api/historical/{symbol}", s.handleHistorical).Methods("GET")
	r.HandleFunc("/api/float/{symbol}", s.handleFloat).Methods("GET")
	r.HandleFunc("/api/news/{symbol}", s.handleNews).Methods("GET")
	r.HandleFunc("/api/volume/{symbol}", s.handleVolume).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	return r
}
