package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"sac-pickem-go/config"
	"sac-pickem-go/database"
	"sac-pickem-go/handlers"
	"sac-pickem-go/logging"
	"sac-pickem-go/middleware"
	"sac-pickem-go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Output:      os.Stdout,
		Prefix:      cfg.Logging.Prefix,
		EnableColor: cfg.Logging.EnableColor,
	})
	cfg.LogConfiguration()

	rules, err := config.LoadRules(cfg.App.RulesFile)
	if err != nil {
		logging.Fatalf("Failed to load pool rules: %v", err)
	}

	db, err := database.NewMongoConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		Timeout:  cfg.Database.Timeout,
	})
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	// Repositories
	pickRepo := database.NewMongoPickRepository(db)
	weekRepo := database.NewMongoWeekRepository(db)
	scoreRepo := database.NewMongoScoreRepository(db)
	resultRepo := database.NewMongoResultRepository(db)

	// Feed clients; the pool works without them, scores just go stale
	var oddsFeed *services.OddsAPIService
	var updater *services.BackgroundUpdater
	if cfg.IsFeedConfigured() {
		oddsFeed = services.NewOddsAPIService(cfg.Feed.OddsAPIKey)
		if cfg.App.UpdaterEnabled {
			updater = services.NewBackgroundUpdater(oddsFeed, scoreRepo, cfg.Feed.PollInterval, cfg.Feed.ScoreDays)
			updater.Start()
			defer updater.Stop()
		}
	} else {
		logging.Warn("No odds API key configured, score cache will not refresh")
	}
	espnService := services.NewESPNService()

	// Services
	payoutService := services.NewPayoutService(rules)
	ladderService := services.NewLadderService(rules)
	stealService := services.NewStealService(ladderService)
	usageService := services.NewBonusUsageService()
	standingsService := services.NewStandingsService(rules, weekRepo, pickRepo, scoreRepo, resultRepo, payoutService)
	pickService := services.NewPickService(rules, pickRepo, weekRepo, usageService, stealService, ladderService, standingsService, espnService)

	// Handlers
	pickHandler := handlers.NewPickHandler(pickService)
	weekHandler := handlers.NewWeekHandler(weekRepo, weekRepo, standingsService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	linesHandler := newLinesHandler(oddsFeed)
	healthHandler := newHealthHandler(db, oddsFeed)

	router := mux.NewRouter()
	router.Use(middleware.RequestLogging)
	router.Use(middleware.SecurityHeaders)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/weeks/current", weekHandler.Current).Methods("GET")
	api.HandleFunc("/weeks/{number}", weekHandler.Save).Methods("PUT")
	api.HandleFunc("/weeks/{number}/status", weekHandler.SetStatus).Methods("POST")
	api.HandleFunc("/weeks/{number}/summary", weekHandler.Summary).Methods("GET")
	api.HandleFunc("/weeks/{number}/picks", pickHandler.Board).Methods("GET")
	api.HandleFunc("/picks/claim", pickHandler.Claim).Methods("POST")
	api.HandleFunc("/picks", pickHandler.Erase).Methods("DELETE")
	api.HandleFunc("/players/{id}/picks", pickHandler.History).Methods("GET")
	api.HandleFunc("/lines/{league}", linesHandler.Lines).Methods("GET")
	api.HandleFunc("/standings", standingsHandler.Standings).Methods("GET")
	api.HandleFunc("/scorecard", standingsHandler.Scorecard).Methods("GET")
	api.HandleFunc("/health", healthHandler.Health).Methods("GET")

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logging.Infof("Server starting on %s", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logging.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Errorf("Shutdown error: %v", err)
	}
}

func newLinesHandler(feed *services.OddsAPIService) *handlers.LinesHandler {
	if feed == nil {
		return handlers.NewLinesHandler(nil)
	}
	return handlers.NewLinesHandler(feed)
}

// newHealthHandler keeps the nil-feed case out of the handler package:
// a nil *OddsAPIService must become a nil interface.
func newHealthHandler(db *database.MongoDB, feed *services.OddsAPIService) *handlers.HealthHandler {
	if feed == nil {
		return handlers.NewHealthHandler(db, nil)
	}
	return handlers.NewHealthHandler(db, feed)
}
