package app

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"blitz-quiz-service/internal/domain"
	"github.com/samber/lo"
)

const noQuestionsMessage = "No questions were found. Check that the question bank is loaded."

// BestScoreStore persists the best score of a client installation.
// SaveBestScore must never lower a stored value and returns the value stored after the write.
type BestScoreStore interface {
	BestScore(ctx context.Context, installID string) (int, error)
	SaveBestScore(ctx context.Context, installID string, score int) (int, error)
}

// Options are the game constants. Zero fields fall back to DefaultOptions.
type Options struct {
	TimePerQuestion  int
	PointsPerCorrect int
	CoinsPerCorrect  int
	RevealDelay      time.Duration
	TickInterval     time.Duration
	StoreTimeout     time.Duration
}

func DefaultOptions() Options {
	return Options{
		TimePerQuestion:  15,
		PointsPerCorrect: 10,
		CoinsPerCorrect:  5,
		RevealDelay:      900 * time.Millisecond,
		TickInterval:     time.Second,
		StoreTimeout:     2 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TimePerQuestion <= 0 {
		o.TimePerQuestion = d.TimePerQuestion
	}
	if o.PointsPerCorrect <= 0 {
		o.PointsPerCorrect = d.PointsPerCorrect
	}
	if o.CoinsPerCorrect <= 0 {
		o.CoinsPerCorrect = d.CoinsPerCorrect
	}
	if o.RevealDelay <= 0 {
		o.RevealDelay = d.RevealDelay
	}
	if o.TickInterval <= 0 {
		o.TickInterval = d.TickInterval
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = d.StoreTimeout
	}
	return o
}

// ControllerConfig wires a Controller to its collaborators. Nil collaborators are replaced by no-ops,
// except Scheduler which defaults to wall-clock timers.
type ControllerConfig struct {
	InstallID string
	Options   Options
	Scheduler Scheduler
	Events    EventSink
	Sounds    SoundPlayer
	Best      BestScoreStore
	Rand      *rand.Rand
}

// Controller is the state machine of a single quiz session.
type Controller struct {
	installID string
	opts      Options
	scheduler Scheduler
	events    EventSink
	sounds    SoundPlayer
	best      BestScoreStore
	rnd       *rand.Rand

	mu       sync.Mutex
	phase    domain.Phase
	pool     []domain.Question
	index    int
	stats    domain.Stats
	timeLeft int
	locked   bool
	current  *domain.QuestionDisplayed
	// epoch changes whenever a question is shown or the session is reset;
	// callbacks scheduled for an older epoch are ignored.
	epoch   uint64
	tick    Timer
	advance Timer
}

func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		installID: cfg.InstallID,
		opts:      cfg.Options.withDefaults(),
		scheduler: cfg.Scheduler,
		events:    cfg.Events,
		sounds:    cfg.Sounds,
		best:      cfg.Best,
		rnd:       cfg.Rand,
		phase:     domain.PhaseIdle,
	}
	if c.scheduler == nil {
		c.scheduler = NewScheduler()
	}
	if c.events == nil {
		c.events = nopSink{}
	}
	if c.sounds == nil {
		c.sounds = NopSoundPlayer{}
	}
	if c.rnd == nil {
		c.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// Start resets the session and shows the first question of a freshly shuffled pool.
// An unusable bank emits NoQuestionsAvailable and returns an error wrapping domain.ErrNoQuestionsAvailable.
func (c *Controller) Start(questions []domain.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(questions)
}

// PlayAgain restarts a session that has ended, failed to start or never started.
func (c *Controller) PlayAgain(questions []domain.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == domain.PhaseQuestion || c.phase == domain.PhaseReveal {
		return domain.ErrSessionInProgress
	}
	return c.startLocked(questions)
}

// SelectAnswer evaluates option against the displayed question. It reports false without touching
// state when input is locked or no question is displayed. Text that is not one of the displayed
// options is rejected with domain.ErrOptionNotFound rather than evaluated as a wrong answer.
func (c *Controller) SelectAnswer(option string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != domain.PhaseQuestion || c.locked {
		return false, nil
	}
	if !lo.Contains(c.current.Options, option) {
		return false, domain.ErrOptionNotFound
	}

	c.play(domain.SoundClick)
	c.locked = true
	c.stopTickLocked()
	c.phase = domain.PhaseReveal

	answer := c.pool[c.index].Answer
	if option == answer {
		c.stats.Correct++
		c.stats.Score += c.opts.PointsPerCorrect
		c.stats.Coins += c.opts.CoinsPerCorrect
		c.events.Emit(domain.AnswerEvaluated{Correct: true, Selected: option, CorrectAnswer: answer})
		c.play(domain.SoundCorrect)
	} else {
		c.stats.Wrong++
		c.events.Emit(domain.AnswerEvaluated{Correct: false, Selected: option, CorrectAnswer: answer})
		c.play(domain.SoundWrong)
	}
	c.events.Emit(domain.StatsChanged{Stats: c.stats})
	c.scheduleAdvanceLocked()
	return true, nil
}

// Skip forfeits the displayed question; it counts as wrong, exactly like a time-out.
func (c *Controller) Skip() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != domain.PhaseQuestion || c.locked {
		return false
	}
	c.play(domain.SoundClick)
	c.stopTickLocked()
	c.expireLocked()
	return true
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := domain.Snapshot{
		Phase:    c.phase,
		Index:    c.index,
		Total:    len(c.pool),
		TimeLeft: c.timeLeft,
		Locked:   c.locked,
		Stats:    c.stats,
	}
	if c.current != nil {
		q := *c.current
		q.Options = append([]string(nil), c.current.Options...)
		q.TimeLeft = c.timeLeft
		snap.Question = &q
	}
	return snap
}

// Close cancels pending timers. A closed controller accepts no input until Start.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimersLocked()
	c.epoch++
	c.locked = true
	if c.phase != domain.PhaseEnded {
		c.phase = domain.PhaseIdle
	}
}

func (c *Controller) startLocked(questions []domain.Question) error {
	c.stopTimersLocked()
	c.epoch++
	c.stats = domain.Stats{}
	c.index = 0
	c.current = nil

	if err := domain.ValidateBank(questions); err != nil {
		c.phase = domain.PhaseUnavailable
		c.pool = nil
		c.locked = true
		c.events.Emit(domain.NoQuestionsAvailable{Message: noQuestionsMessage})
		return err
	}

	c.pool = shuffled(c.rnd, questions)
	c.showQuestionLocked()
	return nil
}

func (c *Controller) showQuestionLocked() {
	c.stopTickLocked()
	c.epoch++
	c.locked = false
	c.timeLeft = c.opts.TimePerQuestion

	if c.index >= len(c.pool) {
		c.endSessionLocked()
		return
	}

	q := c.pool[c.index]
	c.current = &domain.QuestionDisplayed{
		Index:    c.index + 1,
		Total:    len(c.pool),
		Text:     q.Prompt,
		Options:  shuffled(c.rnd, q.Options),
		TimeLeft: c.timeLeft,
	}
	c.phase = domain.PhaseQuestion
	c.events.Emit(*c.current)
	c.events.Emit(domain.StatsChanged{Stats: c.stats})

	epoch := c.epoch
	c.tick = c.scheduler.Every(c.opts.TickInterval, func() { c.onTick(epoch) })
}

func (c *Controller) onTick(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch || c.phase != domain.PhaseQuestion || c.locked {
		return
	}
	c.timeLeft--
	c.events.Emit(domain.TimeTicked{TimeLeft: c.timeLeft})
	if c.timeLeft <= 0 {
		c.stopTickLocked()
		c.expireLocked()
	}
}

// expireLocked records the displayed question as unanswered.
func (c *Controller) expireLocked() {
	c.locked = true
	c.phase = domain.PhaseReveal
	c.stats.Wrong++
	c.events.Emit(domain.AnswerEvaluated{Correct: false, CorrectAnswer: c.pool[c.index].Answer})
	c.events.Emit(domain.StatsChanged{Stats: c.stats})
	c.play(domain.SoundWrong)
	c.scheduleAdvanceLocked()
}

func (c *Controller) scheduleAdvanceLocked() {
	if c.advance != nil {
		c.advance.Stop()
	}
	epoch := c.epoch
	c.advance = c.scheduler.After(c.opts.RevealDelay, func() { c.onAdvance(epoch) })
}

func (c *Controller) onAdvance(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch || c.phase != domain.PhaseReveal {
		return
	}
	c.advance = nil
	c.index++
	c.showQuestionLocked()
}

func (c *Controller) endSessionLocked() {
	c.stopTickLocked()
	c.phase = domain.PhaseEnded
	c.locked = true
	c.current = nil

	best, isNew := c.recordBestLocked()
	c.events.Emit(domain.SessionEnded{Stats: c.stats, BestScore: best, IsNewBest: isNew})
}

// recordBestLocked returns the best-score figure to report and whether this session set it.
// A session only claims a new best when the previous value was read and the store kept its score.
func (c *Controller) recordBestLocked() (int, bool) {
	score := c.stats.Score
	if c.best == nil {
		return score, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.StoreTimeout)
	defer cancel()

	prev, readErr := c.best.BestScore(ctx, c.installID)
	if readErr != nil {
		log.Printf("read best score for %s: %v", c.installID, readErr)
		prev = 0
	} else if score <= prev {
		return prev, false
	}

	stored, err := c.best.SaveBestScore(ctx, c.installID, score)
	if err != nil {
		log.Printf("save best score for %s: %v", c.installID, err)
		return max(prev, score), readErr == nil
	}
	best := max(stored, score)
	return best, readErr == nil && best == score
}

func (c *Controller) stopTickLocked() {
	if c.tick != nil {
		c.tick.Stop()
		c.tick = nil
	}
}

func (c *Controller) stopTimersLocked() {
	c.stopTickLocked()
	if c.advance != nil {
		c.advance.Stop()
		c.advance = nil
	}
}

// play is best-effort: a misbehaving player never affects the session.
func (c *Controller) play(sound domain.Sound) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("sound %s failed: %v", sound, r)
		}
	}()
	c.sounds.Play(sound)
}

// shuffled returns a Fisher-Yates permutation of a copy of items.
func shuffled[T any](rnd *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
