// Package notification provides the notification manager for broadcasting
// state snapshots to subscribers.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19radio/internal/app/radio"
)

// sendTimeout bounds a single send to one subscriber.
const sendTimeout = 500 * time.Millisecond

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(snapshot radio.Snapshot) error
}

// subscription represents a subscriber's subscription.
type subscription struct {
	id     string
	stream Stream
}

// Manager manages subscriptions and broadcasts snapshots to them.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription

	sequenceMu sync.Mutex
	sequenceNo uint64
	last       *radio.Snapshot
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
// The latest snapshot, if any, is sent to the new stream first.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	id := uuid.New().String()
	m.subscriptions[id] = &subscription{
		id:     id,
		stream: stream,
	}
	m.mu.Unlock()

	if last, ok := m.Last(); ok {
		if err := stream.Send(last); err != nil {
			zlog.Debug().Msgf("failed to send initial snapshot: subscription=%s error=%v", id, err)
		}
	}
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, subscriptionID)
}

// Last returns the most recently broadcast snapshot.
func (m *Manager) Last() (radio.Snapshot, bool) {
	m.sequenceMu.Lock()
	defer m.sequenceMu.Unlock()
	if m.last == nil {
		return radio.Snapshot{}, false
	}
	return *m.last, true
}

// Broadcast stamps the snapshot with the next sequence number and sends it to
// all subscribers. Each send runs in its own goroutine with a timeout;
// subscribers whose send fails are dropped.
func (m *Manager) Broadcast(snapshot radio.Snapshot) radio.Snapshot {
	m.sequenceMu.Lock()
	m.sequenceNo++
	snapshot.Sequence = m.sequenceNo
	last := snapshot
	m.last = &last
	m.sequenceMu.Unlock()

	m.mu.RLock()
	// Copy subscriptions to avoid holding lock during sends
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- s.stream.Send(snapshot)
			}()

			select {
			case err := <-done:
				if err != nil {
					zlog.Debug().Msgf("dropping subscriber after send failure: subscription=%s error=%v", s.id, err)
					m.Unsubscribe(s.id)
				}
			case <-ctx.Done():
				// Slow subscriber, skip this snapshot
			}
		}(sub)
	}

	wg.Wait()
	return snapshot
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription)
}
