package postgres

import (
	"context"
	"fmt"
	"time"

	"blitz-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

type bankRow struct {
	bun.BaseModel `bun:"table:question_banks"`

	ID        string      `bun:"id,pk"`
	Data      domain.Bank `bun:"data,type:jsonb"`
	UpdatedAt time.Time   `bun:"updated_at"`
}

// BankWriter imports question banks.
type BankWriter struct {
	db *bun.DB
}

func NewBankWriter(db *bun.DB) *BankWriter {
	return &BankWriter{db: db}
}

// SaveBank validates bank and upserts it under bank.ID.
func (w *BankWriter) SaveBank(ctx context.Context, bank domain.Bank) error {
	if bank.ID == "" {
		return fmt.Errorf("save bank: missing id")
	}
	if err := domain.ValidateBank(bank.Questions); err != nil {
		return fmt.Errorf("save bank %s: %w", bank.ID, err)
	}
	row := bankRow{ID: bank.ID, Data: bank, UpdatedAt: time.Now()}
	_, err := w.db.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save bank %s: %w", bank.ID, err)
	}
	return nil
}
