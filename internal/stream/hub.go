// Package stream fans committed match changes out to live subscribers.
// It is transport-agnostic: the hub deals in match snapshots and channels,
// the websocket handler deals in connections.
package stream

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/tapeball/cricket-scoring-service/internal/model"
)

// subscriberBuf bounds the per-subscriber queue. A consumer that falls this
// far behind starts losing intermediate snapshots; it always gets the most
// recent one eventually, which is all a live view needs.
const subscriberBuf = 16

// Hub routes match snapshots to the subscribers of that match.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan *model.Match]struct{}
	log  zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[string]map[chan *model.Match]struct{}),
		log:  logger.With().Str("module", "stream").Logger(),
	}
}

// Subscribe registers a listener for one match. The returned cancel func is
// idempotent and must be called when the consumer goes away.
func (h *Hub) Subscribe(matchID string) (<-chan *model.Match, func()) {
	ch := make(chan *model.Match, subscriberBuf)

	h.mu.Lock()
	set, ok := h.subs[matchID]
	if !ok {
		set = make(map[chan *model.Match]struct{})
		h.subs[matchID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[matchID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, matchID)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber of the match. The document
// is cloned once; subscribers must treat it as read-only. Slow subscribers
// get the stale head of their queue replaced rather than blocking the
// scoring path.
func (h *Hub) Publish(matchID string, m *model.Match) {
	snapshot := m.Clone()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[matchID] {
		select {
		case ch <- snapshot:
		default:
			// queue full: drop one stale snapshot and retry once
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
				h.log.Warn().Str("match_id", matchID).Msg("dropping snapshot for slow subscriber")
			}
		}
	}
}
