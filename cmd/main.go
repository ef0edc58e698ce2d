package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"anonchat/backend/internal/api/handler"
	"anonchat/backend/internal/chathub"
	"anonchat/backend/internal/config"
	"anonchat/backend/internal/upload"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		// A missing .env is fine; the environment may carry everything.
		fmt.Fprintln(os.Stderr, "Warning: no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger := newLogger(cfg.LogLevel)

	// Chat core: directory, log, bus, matchmaker, presence. All state
	// is in-memory and resets with the process.
	directory := chathub.NewRoomDirectory()
	messageLog := chathub.NewMessageLog()
	bus := chathub.NewBus(messageLog, cfg.SubscriberBuffer, logger)
	matchmaker := chathub.NewMatchmaker(directory, cfg.MatchWait, logger)
	presence := chathub.NewPresence(bus, cfg.TypingExpiry)

	uploads, err := upload.NewStore(cfg.UploadDir, logger)
	if err != nil {
		return fmt.Errorf("upload store: %w", err)
	}

	h := handler.NewHandler(matchmaker, bus, messageLog, presence, uploads, logger, cfg.StreamKeepalive)

	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	r.POST("/message", h.PostMessage)
	r.GET("/messages", h.Messages)
	r.POST("/join", h.Join)
	r.POST("/leave", h.Leave)
	r.POST("/typing", h.Typing)
	r.GET("/typing-status/:room", h.TypingStatus)
	r.POST("/match", h.Match)
	r.GET("/topics", h.Topics)
	r.GET("/status", h.Status)
	r.POST("/leave-queue", h.LeaveQueue)
	r.POST("/upload", h.Upload)
	r.GET("/stream/:room", h.Stream)
	r.GET("/ws/:room", h.ServeWebSocket)

	r.StaticFile("/", cfg.StaticDir+"/index.html")
	r.Static("/static", cfg.StaticDir)
	r.Static("/uploads", cfg.UploadDir)

	// No WriteTimeout: SSE and WebSocket streams stay open indefinitely.
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	logger.Info("server listening", "addr", cfg.ListenAddr)
	return server.ListenAndServe()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
