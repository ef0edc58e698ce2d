package chathub

import "sync"

// RoomDirectory maps room IDs to their resolved topic. Entries are
// written once by the Matchmaker at room creation and never mutated;
// rooms simply become unreferenced when both parties disconnect.
type RoomDirectory struct {
	mu     sync.RWMutex
	topics map[string]string
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{topics: make(map[string]string)}
}

// RecordTopic stores the topic for a freshly minted room. Room IDs are
// globally unique, so a second call for the same room cannot happen.
func (d *RoomDirectory) RecordTopic(roomID, topic string) {
	d.mu.Lock()
	d.topics[roomID] = topic
	d.mu.Unlock()
}

// Topic returns the topic recorded for a room, or the empty string when
// the room is unknown.
func (d *RoomDirectory) Topic(roomID string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.topics[roomID]
}
