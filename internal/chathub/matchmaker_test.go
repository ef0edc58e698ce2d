package chathub

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonchat/backend/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMatchmaker(wait time.Duration) *Matchmaker {
	return NewMatchmaker(NewRoomDirectory(), wait, discardLogger())
}

// waitForParked polls until n seekers sit in the given bucket, so tests
// do not race against the goroutine that is about to park.
func waitForParked(t *testing.T, m *Matchmaker, bucket string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		parked := len(m.waiting[bucket])
		m.mu.Unlock()
		if parked == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("bucket %q never reached %d parked seekers", bucket, n)
}

// TestMatchAnyBucketPriority verifies that a specific-topic seeker is
// paired with a waiting topic-flexible seeker first, and that the room
// gets the requested topic.
func TestMatchAnyBucketPriority(t *testing.T) {
	m := newTestMatchmaker(2 * time.Second)

	flexible := make(chan models.MatchResult, 1)
	go func() {
		res, ok := m.Match(context.Background(), models.TopicAny)
		if ok {
			flexible <- res
		}
		close(flexible)
	}()
	waitForParked(t, m, models.TopicAny, 1)

	res, ok := m.Match(context.Background(), "Anxiety")
	require.True(t, ok, "specific seeker should match instantly")
	assert.Equal(t, "Anxiety", res.Topic)

	other, received := <-flexible
	require.True(t, received, "flexible seeker should have been signalled")
	assert.Equal(t, res.RoomID, other.RoomID, "both parties share the room")
	assert.Equal(t, "Anxiety", other.Topic)
}

// TestMatchSameTopicFallback pairs two seekers of the same topic when
// no flexible seeker is waiting.
func TestMatchSameTopicFallback(t *testing.T) {
	m := newTestMatchmaker(2 * time.Second)

	first := make(chan models.MatchResult, 1)
	go func() {
		res, ok := m.Match(context.Background(), "Anxiety")
		if ok {
			first <- res
		}
		close(first)
	}()
	waitForParked(t, m, "Anxiety", 1)

	res, ok := m.Match(context.Background(), "Anxiety")
	require.True(t, ok)
	assert.Equal(t, "Anxiety", res.Topic)

	other, received := <-first
	require.True(t, received)
	assert.Equal(t, res.RoomID, other.RoomID)
}

// TestMatchTimeout parks a lone seeker, lets the wait budget elapse and
// checks the waiter is gone from every bucket afterwards.
func TestMatchTimeout(t *testing.T) {
	m := newTestMatchmaker(50 * time.Millisecond)

	start := time.Now()
	_, ok := m.Match(context.Background(), "Anxiety")
	assert.False(t, ok, "timeout is reported as not matched")
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.waiting, "no bucket may keep the timed-out waiter")
}

// TestMatchContextCancel treats caller cancellation like a timeout.
func TestMatchContextCancel(t *testing.T) {
	m := newTestMatchmaker(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() {
		_, ok := m.Match(ctx, "Loneliness")
		done <- ok
	}()
	waitForParked(t, m, "Loneliness", 1)
	cancel()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("cancelled seeker never returned")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.waiting)
}

// TestMatchRandomTopicForFlexiblePair checks that two flexible seekers
// are assigned some topic from the registry.
func TestMatchRandomTopicForFlexiblePair(t *testing.T) {
	m := newTestMatchmaker(2 * time.Second)

	first := make(chan models.MatchResult, 1)
	go func() {
		res, ok := m.Match(context.Background(), models.TopicAny)
		if ok {
			first <- res
		}
		close(first)
	}()
	waitForParked(t, m, models.TopicAny, 1)

	res, ok := m.Match(context.Background(), models.TopicAny)
	require.True(t, ok)
	assert.Contains(t, models.Topics, res.Topic)

	other, received := <-first
	require.True(t, received)
	assert.Equal(t, res.RoomID, other.RoomID)
	assert.Equal(t, res.Topic, other.Topic)
}

// TestFlexibleSeekerScansRegistryOrder verifies the fixed enumeration
// order when a flexible seeker picks among specific-topic waiters.
func TestFlexibleSeekerScansRegistryOrder(t *testing.T) {
	m := newTestMatchmaker(2 * time.Second)

	// "Depression" comes after "Anxiety" in the registry.
	depression := make(chan models.MatchResult, 1)
	go func() {
		res, ok := m.Match(context.Background(), "Depression")
		if ok {
			depression <- res
		}
		close(depression)
	}()
	waitForParked(t, m, "Depression", 1)

	anxiety := make(chan models.MatchResult, 1)
	go func() {
		res, ok := m.Match(context.Background(), "Anxiety")
		if ok {
			anxiety <- res
		}
		close(anxiety)
	}()
	waitForParked(t, m, "Anxiety", 1)

	res, ok := m.Match(context.Background(), models.TopicAny)
	require.True(t, ok)
	assert.Equal(t, "Anxiety", res.Topic, "first non-empty bucket in registry order wins")

	other := <-anxiety
	assert.Equal(t, res.RoomID, other.RoomID)

	// The Depression seeker is still parked.
	m.mu.Lock()
	assert.Len(t, m.waiting["Depression"], 1)
	m.mu.Unlock()
}

// TestMatchAdHocTopic allows topics outside the registry; they simply
// open their own bucket.
func TestMatchAdHocTopic(t *testing.T) {
	m := newTestMatchmaker(2 * time.Second)

	first := make(chan models.MatchResult, 1)
	go func() {
		res, ok := m.Match(context.Background(), "Chess")
		if ok {
			first <- res
		}
		close(first)
	}()
	waitForParked(t, m, "Chess", 1)

	res, ok := m.Match(context.Background(), "Chess")
	require.True(t, ok)
	assert.Equal(t, "Chess", res.Topic)
	assert.Equal(t, res.RoomID, (<-first).RoomID)
}

// TestNoThirdPartyPerRoom drives many same-topic seekers concurrently
// and checks every room ends up with exactly two parties and nobody is
// matched twice.
func TestNoThirdPartyPerRoom(t *testing.T) {
	m := newTestMatchmaker(3 * time.Second)

	const seekers = 20
	results := make(chan models.MatchResult, seekers)
	var wg sync.WaitGroup
	for i := 0; i < seekers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res, ok := m.Match(context.Background(), "Mindfulness"); ok {
				results <- res
			}
		}()
	}
	wg.Wait()
	close(results)

	occupancy := make(map[string]int)
	for res := range results {
		occupancy[res.RoomID]++
	}
	require.Len(t, occupancy, seekers/2, "every seeker pairs exactly once")
	for roomID, n := range occupancy {
		assert.Equal(t, 2, n, "room %s must hold exactly two parties", roomID)
	}
}

// TestQueueCounts reports per-topic waiting numbers for the registry.
func TestQueueCounts(t *testing.T) {
	m := newTestMatchmaker(2 * time.Second)

	go m.Match(context.Background(), "Anxiety")
	go m.Match(context.Background(), "Anxiety")
	go m.Match(context.Background(), "Motivation")
	waitForParked(t, m, "Anxiety", 2)
	waitForParked(t, m, "Motivation", 1)

	counts, total := m.QueueCounts()
	assert.Equal(t, 2, counts["Anxiety"])
	assert.Equal(t, 1, counts["Motivation"])
	assert.Equal(t, 0, counts["Depression"])
	assert.Equal(t, 3, total)
}

// TestPrune clears a genuinely parked seeker from its bucket, so an
// abandoning client leaves no ghost waiter behind; the abandoned Match
// call itself runs out its budget and reports no match.
func TestPrune(t *testing.T) {
	m := newTestMatchmaker(200 * time.Millisecond)

	done := make(chan bool, 1)
	go func() {
		_, ok := m.Match(context.Background(), "Anxiety")
		done <- ok
	}()
	waitForParked(t, m, "Anxiety", 1)

	m.Prune("Anxiety")

	m.mu.Lock()
	assert.Empty(t, m.waiting["Anxiety"], "bucket is emptied right away")
	m.mu.Unlock()

	select {
	case ok := <-done:
		assert.False(t, ok, "abandoned seeker reports no match")
	case <-time.After(time.Second):
		t.Fatal("abandoned seeker never returned")
	}

	// A later same-topic seeker must not pair with the pruned one.
	m.mu.Lock()
	assert.Empty(t, m.waiting)
	m.mu.Unlock()
}

// TestPruneKeepsSignalledWaiter leaves a waiter that already holds a
// room untouched, so a pairing racing the prune is not lost.
func TestPruneKeepsSignalledWaiter(t *testing.T) {
	m := newTestMatchmaker(time.Second)

	signalled := &waiter{room: make(chan string, 1)}
	signalled.room <- "room-1"
	m.mu.Lock()
	m.waiting["Anxiety"] = []*waiter{signalled}
	m.mu.Unlock()

	m.Prune("Anxiety")

	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.waiting["Anxiety"], 1)
	assert.Same(t, signalled, m.waiting["Anxiety"][0])
}
