package domain

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ValidateBank checks that questions can drive a session. Every failure wraps ErrNoQuestionsAvailable.
func ValidateBank(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: bank is empty", ErrNoQuestionsAvailable)
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return fmt.Errorf("%w: question %d has no prompt", ErrNoQuestionsAvailable, i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d has %d options, need at least 2", ErrNoQuestionsAvailable, i+1, len(q.Options))
		}
		if dups := lo.FindDuplicates(q.Options); len(dups) > 0 {
			return fmt.Errorf("%w: question %d repeats option %q", ErrNoQuestionsAvailable, i+1, dups[0])
		}
		if !lo.Contains(q.Options, q.Answer) {
			return fmt.Errorf("%w: question %d answer %q is not an option", ErrNoQuestionsAvailable, i+1, q.Answer)
		}
	}
	return nil
}
