package chathub

import (
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"anonchat/backend/internal/models"
)

// Presence tracks the active display names and transient typing state
// of each room. Join and leave publish system messages through the bus;
// the bookkeeping itself is plain keyed-map state under its own locks.
type Presence struct {
	bus          *Bus
	typingExpiry time.Duration

	mu     sync.Mutex
	active map[string]map[string]struct{}

	typingMu sync.Mutex
	typing   map[string]map[string]time.Time
}

func NewPresence(bus *Bus, typingExpiry time.Duration) *Presence {
	return &Presence{
		bus:          bus,
		typingExpiry: typingExpiry,
		active:       make(map[string]map[string]struct{}),
		typing:       make(map[string]map[string]time.Time),
	}
}

// Join adds a user to a room's active set and announces it with a
// system message. A bare "Anonymous" gets a per-room unique AnonymousN
// name; the assigned name is returned. Joining a room the user is
// already in changes nothing.
func (p *Presence) Join(roomID, author string) string {
	p.mu.Lock()
	names, ok := p.active[roomID]
	if !ok {
		names = make(map[string]struct{})
		p.active[roomID] = names
	}

	if author == models.DefaultAuthor {
		counter := 1
		for {
			candidate := fmt.Sprintf("%s%d", models.DefaultAuthor, counter)
			if _, taken := names[candidate]; !taken {
				author = candidate
				break
			}
			counter++
		}
	}

	_, already := names[author]
	if !already {
		names[author] = struct{}{}
	}
	p.mu.Unlock()

	if !already {
		p.bus.Publish(models.NewSystemMessage(roomID, author, author+" joined the chat"))
	}
	return author
}

// Leave removes a user from a room's active set and announces it. The
// room's entry is dropped once nobody is left.
func (p *Presence) Leave(roomID, author string) {
	p.mu.Lock()
	names, ok := p.active[roomID]
	if ok {
		delete(names, author)
		if len(names) == 0 {
			delete(p.active, roomID)
		}
	}
	p.mu.Unlock()

	if ok {
		p.bus.Publish(models.NewSystemMessage(roomID, author, author+" left the chat"))
	}
}

// Touch records that a user is typing right now.
func (p *Presence) Touch(roomID, author string) {
	p.typingMu.Lock()
	defer p.typingMu.Unlock()
	room, ok := p.typing[roomID]
	if !ok {
		room = make(map[string]time.Time)
		p.typing[roomID] = room
	}
	room[author] = time.Now()
}

// Typing returns who typed within the expiry window and prunes everyone
// else.
func (p *Presence) Typing(roomID string) []string {
	p.typingMu.Lock()
	defer p.typingMu.Unlock()
	deadline := time.Now().Add(-p.typingExpiry)
	fresh := lo.PickBy(p.typing[roomID], func(_ string, ts time.Time) bool {
		return ts.After(deadline)
	})
	p.typing[roomID] = fresh
	return lo.Keys(fresh)
}
