package chathub

import (
	"sync"

	"github.com/samber/lo"

	"anonchat/backend/internal/models"
)

// MessageLog is the append-only sequence of every message posted across
// all rooms, chat and system events alike. Entries are never removed or
// edited; the log owns them exclusively.
type MessageLog struct {
	mu      sync.RWMutex
	entries []models.Message
}

func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// Append adds a message to the tail of the log and returns its 1-based
// log position. The position doubles as a high-water mark: a
// subscriber whose history snapshot was taken at position p has already
// seen every entry with position <= p.
func (l *MessageLog) Append(msg models.Message) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, msg)
	return len(l.entries)
}

// History returns a point-in-time snapshot of the messages for one room
// in append order. Each call re-scans the log.
func (l *MessageLog) History(roomID string) []models.Message {
	history, _ := l.snapshot(roomID)
	return history
}

// snapshot returns the room history together with the log position the
// snapshot was taken at.
func (l *MessageLog) snapshot(roomID string) ([]models.Message, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	history := lo.Filter(l.entries, func(m models.Message, _ int) bool {
		return m.RoomID == roomID
	})
	return history, len(l.entries)
}

// All returns a snapshot of the entire log across rooms.
func (l *MessageLog) All() []models.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	all := make([]models.Message, len(l.entries))
	copy(all, l.entries)
	return all
}
