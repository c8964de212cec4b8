package app

import (
	"sync"

	"blitz-quiz-service/internal/domain"
)

// EventSink receives session events. Emit must not block and must not call back into the controller.
type EventSink interface {
	Emit(event domain.Event)
}

// SoundPlayer triggers audio cues. Implementations are fire-and-forget.
type SoundPlayer interface {
	Play(sound domain.Sound)
}

// NopSoundPlayer discards every cue.
type NopSoundPlayer struct{}

func (NopSoundPlayer) Play(domain.Sound) {}

type nopSink struct{}

func (nopSink) Emit(domain.Event) {}

// Broadcaster fans session events out to subscriber channels.
// It also implements SoundPlayer by forwarding cues as events.
type Broadcaster struct {
	mu          sync.Mutex
	buffer      int
	closed      bool
	subscribers map[chan domain.Event]struct{}
}

func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = 64
	}
	return &Broadcaster{
		buffer:      buffer,
		subscribers: make(map[chan domain.Event]struct{}),
	}
}

// Emit delivers event to every subscriber, dropping the oldest queued event of a full subscriber.
func (b *Broadcaster) Emit(event domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

func (b *Broadcaster) Play(sound domain.Sound) {
	b.Emit(domain.SoundCue{Cue: sound})
}

// Subscribe returns a channel of events and a cancel function that must be called to release it.
func (b *Broadcaster) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, b.buffer)

	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subscribers[ch] = struct{}{}
	}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Close ends every subscription.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
}
