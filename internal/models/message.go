package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind distinguishes user chat messages from system events
// (join/leave notices) on the wire.
type MessageKind string

const (
	KindChat   MessageKind = "message"
	KindSystem MessageKind = "system"
)

// DefaultAuthor is the display name used when a sender gives none.
const DefaultAuthor = "Anonymous"

// Message is a single chat or system event inside one room.
// Messages are immutable once appended to the log.
type Message struct {
	// ID is the unique identifier for the message (UUID).
	ID string `json:"id"`
	// Ts is the creation time as unix seconds with fractional part.
	Ts float64 `json:"ts"`
	// Author is the sender's display name.
	Author string `json:"author"`
	// Text is the message body. System events carry human-readable text too.
	Text string `json:"text"`
	// RoomID identifies the room the message belongs to.
	RoomID string `json:"room"`
	// Media is an optional opaque URL to an uploaded attachment.
	Media string `json:"media,omitempty"`
	// Kind is either KindChat or KindSystem.
	Kind MessageKind `json:"type"`
}

// NewChatMessage builds a chat message with a fresh ID and timestamp.
// An empty author falls back to DefaultAuthor.
func NewChatMessage(room, author, text, media string) Message {
	if author == "" {
		author = DefaultAuthor
	}
	return Message{
		ID:     uuid.NewString(),
		Ts:     now(),
		Author: author,
		Text:   text,
		RoomID: room,
		Media:  media,
		Kind:   KindChat,
	}
}

// NewSystemMessage builds a system event for a room, attributed to the
// user the event is about.
func NewSystemMessage(room, author, text string) Message {
	return Message{
		ID:     uuid.NewString(),
		Ts:     now(),
		Author: author,
		Text:   text,
		RoomID: room,
		Kind:   KindSystem,
	}
}

func now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
