package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"blitz-quiz-service/internal/app"
	"blitz-quiz-service/internal/config"
	"blitz-quiz-service/internal/domain"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs a quiz session in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var installID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			b, err := buildBackends(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.close()

			service := app.NewQuizService(b.sessions, b.banks, b.best, cfg.GameOptions())
			return play(cmd.Context(), service, installID, bankID(cfg), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&installID, "install", "terminal", "installation id the best score is kept under")
	return cmd
}

func play(ctx context.Context, service *app.QuizService, installID, bankID string, in io.Reader, out io.Writer) error {
	session := service.Open(ctx, installID, bankID)
	defer service.Close(ctx, session.ID())

	events, cancel, err := service.Subscribe(ctx, session.ID())
	if err != nil {
		return err
	}
	defer cancel()

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for event := range events {
			render(out, event)
		}
	}()

	fmt.Fprintln(out, "Answer with the option number, s to skip, r to play again, q to quit.")
	if err := service.Start(ctx, session.ID()); err != nil {
		// let the explanatory message reach the terminal before returning
		service.Close(ctx, session.ID())
		<-printed
		return err
	}

	lines := bufio.NewScanner(in)
	for lines.Scan() {
		input := strings.TrimSpace(lines.Text())
		switch input {
		case "":
			continue
		case "q":
			service.Close(ctx, session.ID())
			<-printed
			return nil
		case "s":
			_, _ = service.Skip(ctx, session.ID())
		case "r":
			if err := service.PlayAgain(ctx, session.ID()); err != nil {
				fmt.Fprintf(out, "  %v\n", err)
			}
		default:
			n, err := strconv.Atoi(input)
			if err != nil {
				fmt.Fprintln(out, "  enter an option number, s, r or q")
				continue
			}
			snap, err := service.State(ctx, session.ID())
			if err != nil {
				return err
			}
			if snap.Question == nil || n < 1 || n > len(snap.Question.Options) {
				continue
			}
			_, _ = service.SelectAnswer(ctx, session.ID(), snap.Question.Options[n-1])
		}
	}
	return lines.Err()
}

func render(out io.Writer, event domain.Event) {
	switch ev := event.(type) {
	case domain.QuestionDisplayed:
		fmt.Fprintf(out, "\n[%d/%d] %s  (%ds)\n", ev.Index, ev.Total, ev.Text, ev.TimeLeft)
		for i, opt := range ev.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}
	case domain.TimeTicked:
		if ev.TimeLeft <= 5 && ev.TimeLeft > 0 {
			fmt.Fprintf(out, "  %ds left\n", ev.TimeLeft)
		}
	case domain.AnswerEvaluated:
		switch {
		case ev.Correct:
			fmt.Fprintf(out, "  correct: %s\n", ev.Selected)
		case ev.Selected == "":
			fmt.Fprintf(out, "  time's up, answer was %s\n", ev.CorrectAnswer)
		default:
			fmt.Fprintf(out, "  wrong: %s, answer was %s\n", ev.Selected, ev.CorrectAnswer)
		}
	case domain.StatsChanged:
		fmt.Fprintf(out, "  score %d | correct %d | wrong %d | coins %d\n", ev.Score, ev.Correct, ev.Wrong, ev.Coins)
	case domain.SessionEnded:
		best := strconv.Itoa(ev.BestScore)
		if ev.IsNewBest {
			best += " (New!)"
		}
		fmt.Fprintf(out, "\nDone. correct %d, wrong %d, score %d, coins %d, best %s\n", ev.Correct, ev.Wrong, ev.Score, ev.Coins, best)
		fmt.Fprintln(out, "r to play again, q to quit.")
	case domain.NoQuestionsAvailable:
		fmt.Fprintf(out, "%s\n", ev.Message)
	}
}
