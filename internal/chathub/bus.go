package chathub

import (
	"log/slog"
	"sync"

	"anonchat/backend/internal/models"
)

// Bus is the room broadcast bus: publishing appends a message to the
// log and fans it out to every live subscriber of the room. Fan-out is
// best-effort; a subscriber whose buffer is full simply misses that
// message and the publisher never blocks on it.
type Bus struct {
	log    *MessageLog
	buffer int
	logger *slog.Logger

	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

func NewBus(log *MessageLog, buffer int, logger *slog.Logger) *Bus {
	return &Bus{
		log:    log,
		buffer: buffer,
		logger: logger,
		subs:   make(map[string]map[*Subscription]struct{}),
	}
}

// Publish appends the message to the log, then pushes it to the current
// subscribers of its room. All subscribers of one room observe messages
// in log append order.
func (b *Bus) Publish(msg models.Message) {
	pos := b.log.Append(msg)

	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[msg.RoomID] {
		if pos <= sub.cutoff {
			// Already part of that subscriber's history burst.
			continue
		}
		select {
		case sub.ch <- msg:
		default:
			b.logger.Debug("subscriber buffer full, dropping message",
				"room", msg.RoomID, "id", msg.ID)
		}
	}
}

// Subscribe attaches a fresh subscriber to a room. The returned handle
// carries the room history as of the attach point plus a live channel
// for everything published afterwards; a message never shows up on
// both. Callers must Close the handle on every exit path.
func (b *Bus) Subscribe(roomID string) *Subscription {
	history, pos := b.log.snapshot(roomID)
	sub := &Subscription{
		roomID:  roomID,
		bus:     b,
		history: history,
		cutoff:  pos,
		ch:      make(chan models.Message, b.buffer),
	}
	b.mu.Lock()
	set, ok := b.subs[roomID]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.subs[roomID] = set
	}
	set[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Subscribers reports how many live subscriptions a room currently has.
func (b *Bus) Subscribers(roomID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[roomID])
}

// Subscription is one live output channel bound to a room, owned by the
// connection that created it.
type Subscription struct {
	roomID  string
	bus     *Bus
	history []models.Message
	cutoff  int
	ch      chan models.Message
	once    sync.Once
}

// History is the room's message history captured when the subscription
// was created, in append order.
func (s *Subscription) History() []models.Message { return s.history }

// Messages yields every message published to the room after the history
// snapshot, in append order. The channel is closed when the
// subscription is closed, so receivers can use it as the end signal.
func (s *Subscription) Messages() <-chan models.Message { return s.ch }

// Close deregisters the subscription from the bus and closes its live
// channel. Safe to call more than once; only the first call does
// anything. Closing the channel is safe here: deregistration happens
// under the bus lock, so no publisher can still reach it.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		set := s.bus.subs[s.roomID]
		delete(set, s)
		if len(set) == 0 {
			delete(s.bus.subs, s.roomID)
		}
		close(s.ch)
	})
}
