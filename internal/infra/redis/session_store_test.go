package redis

import (
	"context"
	"testing"
	"time"

	"blitz-quiz-service/internal/app"
	"blitz-quiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	service := app.NewQuizService(store, memory.NewBankRepository(memory.NewStaticBankLoader(nil), time.Minute), memory.NewBestScoreStore(), app.DefaultOptions())

	session := service.Open(context.Background(), "install-1", "")
	key := "quiz:session:" + session.ID()
	if got, err := mr.Get(key); err != nil || got != "install-1" {
		t.Fatalf("expected redis marker for install-1, got %q (%v)", got, err)
	}

	service.Close(context.Background(), session.ID())
	if mr.Exists(key) {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get(session.ID()); ok {
		t.Fatalf("expected session removed")
	}
}
