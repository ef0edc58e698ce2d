package chathub

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"anonchat/backend/internal/models"
)

// waiter is one parked seeker. The room channel has capacity one and
// receives at most one room ID in its lifetime; a waiter sits in at
// most one bucket at any time.
type waiter struct {
	room chan string
}

// Matchmaker pairs seekers into two-party rooms by topic affinity.
//
// Waiting seekers are kept in per-topic FIFO buckets, with the empty
// key holding topic-flexible seekers. All bucket mutation happens under
// one table-wide lock held only for pop/push/scan; the blocking wait
// itself never holds it, so a parked seeker cannot stall other matches.
type Matchmaker struct {
	directory *RoomDirectory
	wait      time.Duration
	log       *slog.Logger

	mu      sync.Mutex
	waiting map[string][]*waiter
}

func NewMatchmaker(directory *RoomDirectory, wait time.Duration, log *slog.Logger) *Matchmaker {
	return &Matchmaker{
		directory: directory,
		wait:      wait,
		log:       log,
		waiting:   make(map[string][]*waiter),
	}
}

// Match pairs the caller with another seeker and reports the resolved
// room. When no complementary seeker is waiting, the caller parks for
// up to the configured wait budget; the second return is false when the
// budget elapses first. Timing out is a normal outcome, not an error.
//
// Seekers from the topic-flexible bucket are always drained first, so
// people who stated a preference wait as little as possible. A topic
// outside the registry is allowed and simply opens an ad-hoc bucket.
func (m *Matchmaker) Match(ctx context.Context, topic string) (models.MatchResult, bool) {
	m.mu.Lock()
	if topic != models.TopicAny {
		// Prefer a topic-flexible waiter, then someone asking for the
		// same topic.
		if res, ok := m.pairLocked(models.TopicAny, topic); ok {
			m.mu.Unlock()
			return res, true
		}
		if res, ok := m.pairLocked(topic, topic); ok {
			m.mu.Unlock()
			return res, true
		}
	} else {
		// Two flexible seekers get a topic drawn uniformly from the
		// registry, decided here at pairing time.
		if res, ok := m.pairLocked(models.TopicAny, randomTopic()); ok {
			m.mu.Unlock()
			return res, true
		}
		for _, t := range models.Topics {
			if res, ok := m.pairLocked(t, t); ok {
				m.mu.Unlock()
				return res, true
			}
		}
	}

	w := &waiter{room: make(chan string, 1)}
	m.waiting[topic] = append(m.waiting[topic], w)
	m.mu.Unlock()

	timer := time.NewTimer(m.wait)
	defer timer.Stop()

	select {
	case roomID := <-w.room:
		return models.MatchResult{RoomID: roomID, Topic: m.directory.Topic(roomID)}, true
	case <-timer.C:
	case <-ctx.Done():
	}

	// The waiter may have been popped by a concurrent match in the
	// meantime; absence from the bucket is a normal no-op then, and
	// that pairing is simply lost for this caller.
	m.remove(topic, w)
	return models.MatchResult{}, false
}

// pairLocked pops the oldest waiter from the given bucket, mints a room
// with the given topic and signals the waiter. The signal is a
// non-blocking send-and-forget: a waiter that already gave up just
// never takes the value. Callers must hold m.mu.
func (m *Matchmaker) pairLocked(bucket, topic string) (models.MatchResult, bool) {
	queue := m.waiting[bucket]
	if len(queue) == 0 {
		return models.MatchResult{}, false
	}
	w := queue[0]
	m.waiting[bucket] = queue[1:]
	if len(m.waiting[bucket]) == 0 {
		delete(m.waiting, bucket)
	}

	roomID := uuid.NewString()
	m.directory.RecordTopic(roomID, topic)
	select {
	case w.room <- roomID:
	default:
	}
	m.log.Debug("paired seekers", "room", roomID, "topic", topic, "bucket", bucket)
	return models.MatchResult{RoomID: roomID, Topic: topic}, true
}

// remove takes a timed-out waiter out of the bucket it was parked in.
// Tolerates the waiter being gone already.
func (m *Matchmaker) remove(bucket string, w *waiter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	queue := m.waiting[bucket]
	for i, candidate := range queue {
		if candidate == w {
			m.waiting[bucket] = append(queue[:i], queue[i+1:]...)
			break
		}
	}
	if len(m.waiting[bucket]) == 0 {
		delete(m.waiting, bucket)
	}
}

// Prune clears a bucket of seekers still waiting for a room. Clients
// call this when they abandon a search without waiting for the timeout.
// The abandoned Match calls run out their wait budget and report no
// match; their own removal then finds the bucket already emptied, which
// remove tolerates. A waiter signalled in the same instant keeps its
// room.
func (m *Matchmaker) Prune(bucket string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := lo.Filter(m.waiting[bucket], func(w *waiter, _ int) bool {
		return len(w.room) > 0
	})
	if len(kept) == 0 {
		delete(m.waiting, bucket)
		return
	}
	m.waiting[bucket] = kept
}

// QueueCounts reports how many seekers are waiting per registry topic,
// plus the overall total across those topics.
func (m *Matchmaker) QueueCounts() (map[string]int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int, len(models.Topics))
	total := 0
	for _, t := range models.Topics {
		counts[t] = len(m.waiting[t])
		total += counts[t]
	}
	return counts, total
}

func randomTopic() string {
	return models.Topics[rand.IntN(len(models.Topics))]
}
