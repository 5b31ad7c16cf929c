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

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inkboard/inkboard/internal/collab"
	"github.com/inkboard/inkboard/internal/config"
	"github.com/inkboard/inkboard/internal/document"
	"github.com/inkboard/inkboard/internal/engine"
	"github.com/inkboard/inkboard/internal/export"
	mw "github.com/inkboard/inkboard/internal/middleware"
	"github.com/inkboard/inkboard/internal/typeid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	engine.SetLogger(slog.Default())

	hub := collab.NewHub()
	go hub.Run()

	exportHandler := export.NewHandler(hub, cfg.ExportScale)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.CORSOrigins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Frame export for live sessions
	r.HandleFunc("/sessions/{sessionId}/frame.png", exportHandler.ExportPNG).Methods("GET")
	r.HandleFunc("/sessions/{sessionId}/frame.pdf", exportHandler.ExportPDF).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/session", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, cfg)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// handleWebSocket gives the connection its own session. ?sample=1 seeds the
// document with the sample strokes.
func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, cfg *config.Config) {
	var seed []*document.Stroke
	if r.URL.Query().Get("sample") == "1" {
		seed = document.NewSampleStrokes()
	}

	session, err := collab.NewSession(typeid.NewSessionID(), cfg.EngineOptions(), seed)
	if err != nil {
		slog.Error("create session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: cfg.Origins(),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go session.Run(ctx)

	client := collab.NewClient(hub, conn, session, uuid.New().String())
	hub.Register(client)

	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
