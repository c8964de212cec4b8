package memory

import (
	"context"
	"testing"
	"time"

	"blitz-quiz-service/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	service := app.NewQuizService(store, NewBankRepository(NewStaticBankLoader(nil), time.Minute), NewBestScoreStore(), app.DefaultOptions())

	session := service.Open(context.Background(), "install-1", "")
	if _, ok := store.Get(session.ID()); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete(session.ID())
	if _, ok := store.Get(session.ID()); ok {
		t.Fatalf("expected session removed")
	}
}
