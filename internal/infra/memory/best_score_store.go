package memory

import (
	"context"
	"sync"
)

// BestScoreStore keeps best scores per installation in process memory.
type BestScoreStore struct {
	mu     sync.RWMutex
	scores map[string]int
}

func NewBestScoreStore() *BestScoreStore {
	return &BestScoreStore{scores: make(map[string]int)}
}

func (s *BestScoreStore) BestScore(_ context.Context, installID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores[installID], nil
}

func (s *BestScoreStore) SaveBestScore(_ context.Context, installID string, score int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if score > s.scores[installID] {
		s.scores[installID] = score
	}
	return s.scores[installID], nil
}
