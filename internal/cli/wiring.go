package cli

import (
	"context"
	"time"

	"blitz-quiz-service/internal/app"
	"blitz-quiz-service/internal/config"
	"blitz-quiz-service/internal/domain"
	"blitz-quiz-service/internal/infra/file"
	"blitz-quiz-service/internal/infra/memory"
	pgstore "blitz-quiz-service/internal/infra/postgres"
	redisstore "blitz-quiz-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// backends holds the storage chosen by config; close releases connections.
type backends struct {
	banks    app.BankRepository
	sessions app.SessionRepository
	best     app.BestScoreStore
	close    func()
}

// buildBackends prefers Postgres for durable data, Redis for shared caches, and memory otherwise.
func buildBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	closers := []func(){}
	b := &backends{close: func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			b.close()
			return nil, err
		}
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.close()
			return nil, err
		}
		closers = append(closers, pool.Close)
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(sampleBanks())
	switch {
	case pool != nil:
		loader = pgstore.NewBankLoader(pool)
	case cfg.Bank.Dir != "":
		loader = file.NewBankLoader(cfg.Bank.Dir)
	}

	bankTTL := config.Duration(cfg.Bank.TTL, 10*time.Minute)
	if redisClient != nil {
		b.banks = redisstore.NewBankRepository(redisClient, loader, bankTTL)
		b.sessions = redisstore.NewSessionStore(redisClient, config.Duration(cfg.Redis.TTL, 30*time.Minute))
	} else {
		b.banks = memory.NewBankRepository(loader, bankTTL)
		b.sessions = memory.NewSessionStore()
	}

	switch {
	case pool != nil:
		b.best = pgstore.NewBestScoreStore(pool)
	case redisClient != nil:
		b.best = redisstore.NewBestScoreStore(redisClient, cfg.Best.Key)
	default:
		b.best = memory.NewBestScoreStore()
	}
	return b, nil
}

func bankID(cfg config.Config) string {
	if cfg.Bank.ID != "" {
		return cfg.Bank.ID
	}
	return domain.DefaultBankID
}

// sampleBanks is the built-in bank used when neither Postgres nor a bank directory is configured.
func sampleBanks() map[string]domain.Bank {
	return map[string]domain.Bank{
		domain.DefaultBankID: {
			ID: domain.DefaultBankID,
			Questions: []domain.Question{
				{Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5"}, Answer: "4"},
				{Prompt: "Which planet is known as the Red Planet?", Options: []string{"Venus", "Mars", "Jupiter"}, Answer: "Mars"},
				{Prompt: "What is the largest ocean on Earth?", Options: []string{"Atlantic", "Indian", "Pacific"}, Answer: "Pacific"},
			},
		},
	}
}
