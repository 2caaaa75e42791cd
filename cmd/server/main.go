package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/roastcalc/internal/config"
	"github.com/Simplici0/roastcalc/internal/db"
	"github.com/Simplici0/roastcalc/internal/logger"
	"github.com/Simplici0/roastcalc/internal/marketprice"
	"github.com/Simplici0/roastcalc/internal/migrations"
	"github.com/Simplici0/roastcalc/internal/session"
)

const (
	sessionIdleTimeout = 24 * time.Hour
	sweepInterval      = 10 * time.Minute
)

type server struct {
	store    *session.Store
	sessions *sessionManager
	market   *marketprice.Client
	workers  int
}

func main() {
	cfg := config.Load()
	logger.Configure(cfg.LogLevel, cfg.LogFormat)
	log := logger.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.OpenMemory(cfg.Session.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	store := session.NewStore(database)
	sessions, err := newSessionManager(store, cfg.Session.HashKey, cfg.Session.BlockKey, !cfg.IsDev())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure session cookies")
	}

	srv := &server{
		store:    store,
		sessions: sessions,
		market:   newMarketClient(ctx, cfg),
		workers:  cfg.PortfolioWorkers,
	}

	go srv.sweepIdleSessions(ctx)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().Str("addr", httpServer.Addr).Str("env", cfg.Env).Bool("market_price", srv.market.Enabled()).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logger.RequestLogger(logger.Log))
	r.Use(logger.Recoverer(logger.Log))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/simulate", s.handleSimulate)
		r.Get("/fees/schedule", s.handleFeeSchedule)
		r.Get("/market-price", s.handleMarketPrice)

		r.Group(func(r chi.Router) {
			r.Use(s.sessions.middleware)

			r.Delete("/session", s.handleResetSession)

			r.Get("/settings", s.handleSettings)
			r.Put("/settings/global", s.handleSaveGlobal)
			r.Put("/settings/fees", s.handleSaveFees)

			r.Get("/beans", s.handleBeans)
			r.Put("/beans/active", s.handleSetActiveBean)
			r.Put("/beans/{id}", s.handleSaveBean)
			r.Patch("/beans/{id}", s.handleEditBean)

			r.Get("/results", s.handleResults)
			r.Get("/export.xlsx", s.handleExport)
			r.Get("/discount", s.handleDiscount)

			r.Get("/blend", s.handleBlend)
			r.Put("/blend", s.handleSaveBlend)
			r.Get("/blend/results", s.handleBlendResults)
			r.Post("/blend/ingredients", s.handleAddIngredient)
			r.Put("/blend/ingredients/{id}", s.handleUpdateIngredient)
			r.Delete("/blend/ingredients/{id}", s.handleRemoveIngredient)
		})
	})

	return r
}

// newMarketClient returns a disabled client unless a search endpoint is set.
// Redis is used for caching when configured and reachable; otherwise results
// are cached in memory.
func newMarketClient(ctx context.Context, cfg config.Config) *marketprice.Client {
	if !cfg.SearchEnabled() {
		return marketprice.NewClient(marketprice.Options{})
	}

	var cache marketprice.Cache
	if cfg.Cache.RedisURL != "" {
		c, err := marketprice.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.CacheTTL())
		if err != nil {
			logger.Log.Warn().Err(err).Msg("redis unavailable, caching market prices in memory")
		} else {
			cache = c
		}
	}
	if cache == nil {
		cache = marketprice.NewMemoryCache(cfg.CacheTTL())
	}

	return marketprice.NewClient(marketprice.Options{
		BaseURL:    cfg.Search.APIURL,
		Timeout:    cfg.Search.Timeout,
		MaxRetries: cfg.Search.MaxRetries,
		Cache:      cache,
	})
}

func (s *server) sweepIdleSessions(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := s.store.DeleteIdle(ctx, now.Add(-sessionIdleTimeout))
			if err != nil {
				logger.Log.Error().Err(err).Msg("failed to delete idle sessions")
				continue
			}
			if n > 0 {
				logger.Log.Info().Int64("sessions", n).Msg("deleted idle sessions")
			}
		}
	}
}
