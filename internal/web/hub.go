package web

import (
	"sync"
)

// hub fans a change signal out to subscribed streams. Slow subscribers miss signals
// instead of blocking the sender; one pending signal is enough to trigger a re-render.
type hub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newHub() *hub {
	return &hub{subs: map[chan struct{}]struct{}{}}
}

func (h *hub) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

func (h *hub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

// broadcaster keeps one hub per key while the key has subscribers. Keys are "user:<id>"
// so every open tab of a user re-renders after that user's mutations.
type broadcaster struct {
	mu   sync.Mutex
	hubs map[string]*hub
}

func newBroadcaster() *broadcaster {
	return &broadcaster{hubs: map[string]*hub{}}
}

func userKey(userID string) string { return "user:" + userID }

// subscribe joins the hub for key. The hub is dropped when its last subscriber cancels.
func (b *broadcaster) subscribe(key string) (ch chan struct{}, cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.hubs[key]
	if !ok {
		h = newHub()
		b.hubs[key] = h
	}
	ch, leave := h.subscribe()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			leave()
			h.mu.Lock()
			empty := len(h.subs) == 0
			h.mu.Unlock()
			if empty && b.hubs[key] == h {
				delete(b.hubs, key)
			}
		})
	}
}

func (b *broadcaster) notify(keys ...string) {
	for _, k := range keys {
		b.mu.Lock()
		h := b.hubs[k]
		b.mu.Unlock()
		if h != nil {
			h.broadcast()
		}
	}
}

func (b *broadcaster) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.hubs)
}
