package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"tunescore/cache"
	"tunescore/config"
	"tunescore/core/music"
	"tunescore/logger"
	"tunescore/store"
)

// Start initializes and starts the HTTP server. It blocks until the process
// receives an interrupt, then shuts the server down gracefully and runs the
// final store flush.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   true,
	})

	st := store.NewStore(cfg.DataDir)
	if err := st.Load(); err != nil {
		logger.Fatal("failed to load store", logger.ErrorField(err))
	}

	var client music.Client
	if cfg.MusicAPIURL != "" {
		client = music.NewHTTPClient(cfg.MusicAPIURL, cfg.MusicAPIToken, cfg.MusicAPITimeout)
		logger.Info("music API client configured", logger.String("baseURL", cfg.MusicAPIURL))
	} else {
		logger.Warn("MUSIC_API_URL not set, remote features disabled")
	}

	history := cache.NewHistoryCache(client, cfg.HistoryTTL, nil)
	albumYears := cache.NewAlbumYearCache(client)

	st.StartFlushLoop(cfg.FlushInterval)

	apiHandler := NewAPIHandler(st, client, history, albumYears)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Rating endpoints
	router.HandleFunc("/api/ratings", apiHandler.GetRatingsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/ratings", apiHandler.CreateRatingHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/ratings/{id}", apiHandler.UpdateRatingHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/ratings/{id}", apiHandler.DeleteRatingHandler).Methods(http.MethodDelete)

	// Unrated (skipped) endpoints
	router.HandleFunc("/api/unrated", apiHandler.GetUnratedHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/unrated", apiHandler.AddUnratedHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/unrated/all", apiHandler.DeleteAllUnratedHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/unrated/{id}", apiHandler.DeleteUnratedHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/unrated/{id}/rate", apiHandler.PromoteUnratedHandler).Methods(http.MethodPost)

	// Settings and analytics
	router.HandleFunc("/api/settings", apiHandler.GetSettingsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/settings", apiHandler.UpdateSettingsHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/analytics", apiHandler.AnalyticsHandler).Methods(http.MethodGet)

	// Remote music-service endpoints
	router.HandleFunc("/api/status", apiHandler.StatusHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/now-playing", apiHandler.NowPlayingHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/search", apiHandler.SearchHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/find-versions", apiHandler.FindVersionsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/album-tracks", apiHandler.AlbumTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/enrich/{albumId}", apiHandler.EnrichAlbumHandler).Methods(http.MethodGet)

	// Exports
	router.HandleFunc("/api/export/csv", apiHandler.ExportCSVHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/export/json", apiHandler.ExportJSONHandler).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			logger.String("addr", cfg.ServerAddr),
			logger.String("dataDir", cfg.DataDir))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", logger.ErrorField(err))
	}

	// Final durability point: whatever mutated since the last periodic flush
	// goes to disk before exit.
	if err := st.Flush(); err != nil {
		logger.Error("final flush failed", logger.ErrorField(err))
	}

	logger.Info("server stopped")
}
