package app

import (
	"context"
	"fmt"
	"log"

	"blitz-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// QuizService hosts independent single-player sessions.
type QuizService struct {
	sessions     SessionRepository
	banks        BankRepository
	best         BestScoreStore
	opts         Options
	newScheduler func() Scheduler
}

func NewQuizService(store SessionRepository, banks BankRepository, best BestScoreStore, opts Options) *QuizService {
	return NewQuizServiceWithScheduler(store, banks, best, opts, NewScheduler)
}

// NewQuizServiceWithScheduler lets tests drive session timers deterministically.
func NewQuizServiceWithScheduler(store SessionRepository, banks BankRepository, best BestScoreStore, opts Options, newScheduler func() Scheduler) *QuizService {
	return &QuizService{
		sessions:     store,
		banks:        banks,
		best:         best,
		opts:         opts,
		newScheduler: newScheduler,
	}
}

// Open creates an idle session for a client installation. Call Start to ask the first question.
func (s *QuizService) Open(_ context.Context, installID, bankID string) *Session {
	if bankID == "" {
		bankID = domain.DefaultBankID
	}
	events := NewBroadcaster(64)
	session := &Session{
		id:        uuid.NewString(),
		installID: installID,
		bankID:    bankID,
		events:    events,
	}
	session.controller = NewController(ControllerConfig{
		InstallID: installID,
		Options:   s.opts,
		Scheduler: s.newScheduler(),
		Events:    events,
		Sounds:    events,
		Best:      s.best,
	})
	s.sessions.Save(session)
	return session
}

// Start (re)starts a session with its bank. A bank that cannot be loaded is reported like an empty one.
func (s *QuizService) Start(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	questions, err := s.loadQuestions(ctx, session.bankID)
	if err != nil {
		_ = session.controller.Start(nil)
		return fmt.Errorf("%w: %v", domain.ErrNoQuestionsAvailable, err)
	}
	return session.controller.Start(questions)
}

// PlayAgain restarts a session once its summary has been shown.
func (s *QuizService) PlayAgain(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	questions, err := s.loadQuestions(ctx, session.bankID)
	if err != nil {
		if perr := session.controller.PlayAgain(nil); perr == domain.ErrSessionInProgress {
			return perr
		}
		return fmt.Errorf("%w: %v", domain.ErrNoQuestionsAvailable, err)
	}
	return session.controller.PlayAgain(questions)
}

// SelectAnswer reports whether the selection was accepted; stale input is not an error.
func (s *QuizService) SelectAnswer(_ context.Context, sessionID, option string) (bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	return session.controller.SelectAnswer(option)
}

func (s *QuizService) Skip(_ context.Context, sessionID string) (bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	return session.controller.Skip(), nil
}

// Subscribe returns a channel that receives session events.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.Event, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.events.Subscribe()
	return ch, cancel, nil
}

func (s *QuizService) State(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	snap := session.controller.Snapshot()
	snap.SessionID = sessionID
	return snap, nil
}

// BestScore returns the stored best score of an installation.
func (s *QuizService) BestScore(ctx context.Context, installID string) (int, error) {
	if s.best == nil {
		return 0, nil
	}
	return s.best.BestScore(ctx, installID)
}

// Close stops a session's timers, ends its subscriptions and forgets it.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.controller.Close()
	session.events.Close()
	s.sessions.Delete(sessionID)
}

func (s *QuizService) loadQuestions(ctx context.Context, bankID string) ([]domain.Question, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		log.Printf("load bank %s: %v", bankID, err)
		return nil, err
	}
	return bank.Questions, nil
}

// Session binds a controller to its event stream.
type Session struct {
	id         string
	installID  string
	bankID     string
	controller *Controller
	events     *Broadcaster
}

func (s *Session) ID() string        { return s.id }
func (s *Session) InstallID() string { return s.installID }
