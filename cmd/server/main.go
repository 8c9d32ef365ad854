package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/liveboard/liveboard/internal/auth"
	"github.com/liveboard/liveboard/internal/bridge"
	"github.com/liveboard/liveboard/internal/config"
	"github.com/liveboard/liveboard/internal/engine"
	"github.com/liveboard/liveboard/internal/export"
	mw "github.com/liveboard/liveboard/internal/middleware"
	"github.com/liveboard/liveboard/internal/store"
	"github.com/liveboard/liveboard/internal/theme"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		slog.Warn("load presets, using defaults", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := store.Open(ctx, cfg.StoreKind, cfg.StorePath, cfg.DatabaseURL)
	if err != nil {
		slog.Error("open store", "kind", cfg.StoreKind, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	eng := engine.New(store.LoadScene(ctx, st), engine.Options{
		Debug:     cfg.Debug,
		BlurGrace: cfg.BlurGrace,
	})
	if cfg.Sample && eng.Scene().IsEmpty() {
		eng.LoadSample()
	}

	autosaver := store.NewAutosaver(st, cfg.AutosaveDebounce)
	hub := bridge.NewHub(eng, bridge.Options{
		Theme:    theme.Parse(cfg.Theme),
		Settings: presets.Defaults,
		Palette:  presets.Palette,
		Saver:    autosaver,
	})
	hubCtx, stopHub := context.WithCancel(ctx)
	go hub.Run(hubCtx)

	authService := auth.NewService(cfg.SessionSecret, auth.DefaultTTL)
	authHandler := auth.NewHandler(authService)
	exportHandler := export.NewHandler(hub)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/auth/session", authHandler.CreateSession).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.Middleware)

	api.HandleFunc("/scene", hub.GetScene).Methods("GET")
	api.HandleFunc("/scene", hub.PutScene).Methods("PUT")
	api.HandleFunc("/render", hub.GetRender).Methods("GET")
	api.HandleFunc("/export/pdf", exportHandler.ExportPDF).Methods("GET")
	api.HandleFunc("/stickies/{id}/html", exportHandler.StickyHTML).Methods("GET")

	// WebSocket endpoint, token passed as ?token=
	r.Handle("/ws", authService.Middleware(hub.ServeWS(cfg.Origins())))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)

		// Stop the hub before the final save so no change lands after it.
		stopHub()
		slog.Info("saving board...")
		if err := autosaver.Close(shutdownCtx); err != nil {
			slog.Error("final save", "error", err)
		}
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.StoreKind)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
}
