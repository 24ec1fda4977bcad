package activity

import (
	"sync"
)

// subscriberBuffer is how many entries a slow subscriber may fall behind before it misses some.
const subscriberBuffer = 16

// Hub fans entries out to live subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Entry]struct{}
}

var DefaultHub = NewHub()

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Entry]struct{})}
}

// Subscribe returns a channel of new entries and a func that closes it.
func (h *Hub) Subscribe() (<-chan Entry, func()) {
	ch := make(chan Entry, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) HasSubscribers() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs) > 0
}

// Publish never blocks; a subscriber whose buffer is full skips e.
func (h *Hub) Publish(e Entry) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
