package cli

import (
	"fmt"
	"log"

	"blitz-quiz-service/internal/config"
	"blitz-quiz-service/internal/infra/file"
	"blitz-quiz-service/internal/infra/postgres"
	"github.com/spf13/cobra"
)

// NewSeedCmd imports a question file into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var bankID string
	cmd := &cobra.Command{
		Use:   "seed <questions.yaml>",
		Short: "Import a question bank file into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			bank, err := file.ReadBank(args[0])
			if err != nil {
				return err
			}
			if bankID != "" {
				bank.ID = bankID
			}
			if bank.ID == "" {
				bank.ID = cfg.Bank.ID
			}

			ctx := cmd.Context()
			if err := runMigrationsWithConfig(ctx, cfg); err != nil {
				return err
			}
			db := postgres.OpenBun(cfg.Postgres.URL)
			defer db.Close()
			if err := postgres.NewBankWriter(db).SaveBank(ctx, bank); err != nil {
				return err
			}
			log.Printf("seeded bank %s with %d questions", bank.ID, len(bank.Questions))
			return nil
		},
	}
	cmd.Flags().StringVar(&bankID, "bank", "", "bank id to store under (defaults to the file's id, then bank.id)")
	return cmd
}
