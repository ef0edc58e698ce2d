package handler

import (
	"log/slog"
	"time"

	"anonchat/backend/internal/chathub"
	"anonchat/backend/internal/upload"
)

// Handler wires the HTTP surface to the chat core. It owns no state of
// its own; everything lives in the injected components.
type Handler struct {
	Matchmaker *chathub.Matchmaker
	Bus        *chathub.Bus
	Log        *chathub.MessageLog
	Presence   *chathub.Presence
	Uploads    *upload.Store
	Logger     *slog.Logger

	// Keepalive is the stream idle interval before a keepalive marker.
	Keepalive time.Duration
}

func NewHandler(
	matchmaker *chathub.Matchmaker,
	bus *chathub.Bus,
	log *chathub.MessageLog,
	presence *chathub.Presence,
	uploads *upload.Store,
	logger *slog.Logger,
	keepalive time.Duration,
) *Handler {
	return &Handler{
		Matchmaker: matchmaker,
		Bus:        bus,
		Log:        log,
		Presence:   presence,
		Uploads:    uploads,
		Logger:     logger,
		Keepalive:  keepalive,
	}
}
