package app_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"blitz-quiz-service/internal/app"
	"blitz-quiz-service/internal/domain"
)

// fakeScheduler runs timers on a virtual clock advanced by the test.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	s        *fakeScheduler
	seq      int
	due      time.Duration
	interval time.Duration
	fn       func()
	stopped  bool
}

func (t *fakeTimer) Stop() {
	t.s.mu.Lock()
	t.stopped = true
	t.s.mu.Unlock()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{}
}

func (s *fakeScheduler) Every(interval time.Duration, fn func()) app.Timer {
	return s.add(interval, interval, fn)
}

func (s *fakeScheduler) After(delay time.Duration, fn func()) app.Timer {
	return s.add(delay, 0, fn)
}

func (s *fakeScheduler) add(delay, interval time.Duration, fn func()) *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &fakeTimer{s: s, seq: s.seq, due: s.now + delay, interval: interval, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in order. Callbacks run without the scheduler lock.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	for {
		next := s.nextDueLocked(target)
		if next == nil {
			break
		}
		s.now = next.due
		if next.interval > 0 {
			next.due += next.interval
		} else {
			next.stopped = true
		}
		s.mu.Unlock()
		next.fn()
		s.mu.Lock()
	}
	s.now = target
	s.mu.Unlock()
}

func (s *fakeScheduler) nextDueLocked(target time.Duration) *fakeTimer {
	var next *fakeTimer
	for _, t := range s.timers {
		if t.stopped || t.due > target {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

// Active returns the number of timers that can still fire.
func (s *fakeScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingSink) Emit(event domain.Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recordingSink) Play(sound domain.Sound) {
	r.Emit(domain.SoundCue{Cue: sound})
}

func (r *recordingSink) all() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func (r *recordingSink) ofType(kind string) []domain.Event {
	var out []domain.Event
	for _, ev := range r.all() {
		if ev.EventType() == kind {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recordingSink) lastQuestion() domain.QuestionDisplayed {
	qs := r.ofType("questionDisplayed")
	if len(qs) == 0 {
		return domain.QuestionDisplayed{}
	}
	return qs[len(qs)-1].(domain.QuestionDisplayed)
}

func (r *recordingSink) ended() (domain.SessionEnded, bool) {
	evs := r.ofType("sessionEnded")
	if len(evs) == 0 {
		return domain.SessionEnded{}, false
	}
	return evs[len(evs)-1].(domain.SessionEnded), true
}

func (r *recordingSink) sounds() []domain.Sound {
	var out []domain.Sound
	for _, ev := range r.ofType("sound") {
		out = append(out, ev.(domain.SoundCue).Cue)
	}
	return out
}

type memoryBest struct {
	mu     sync.Mutex
	scores map[string]int
	saves  int
}

func newMemoryBest() *memoryBest {
	return &memoryBest{scores: make(map[string]int)}
}

func (m *memoryBest) BestScore(_ context.Context, installID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scores[installID], nil
}

func (m *memoryBest) SaveBestScore(_ context.Context, installID string, score int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if score > m.scores[installID] {
		m.scores[installID] = score
	}
	return m.scores[installID], nil
}

// unreadableBest keeps scores but fails every read.
type unreadableBest struct {
	*memoryBest
}

func (u unreadableBest) BestScore(context.Context, string) (int, error) {
	return 0, errors.New("best score backend unavailable")
}

func twoQuestionBank() []domain.Question {
	return []domain.Question{
		{Prompt: "Q1", Options: []string{"A", "B"}, Answer: "A"},
		{Prompt: "Q2", Options: []string{"C", "D"}, Answer: "C"},
	}
}

func answerOf(bank []domain.Question, prompt string) string {
	for _, q := range bank {
		if q.Prompt == prompt {
			return q.Answer
		}
	}
	return ""
}

func wrongOf(bank []domain.Question, prompt string) string {
	for _, q := range bank {
		if q.Prompt != prompt {
			continue
		}
		for _, opt := range q.Options {
			if opt != q.Answer {
				return opt
			}
		}
	}
	return ""
}

func sortedCopy(items []string) []string {
	out := append([]string(nil), items...)
	sort.Strings(out)
	return out
}
