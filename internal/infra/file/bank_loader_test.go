package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"blitz-quiz-service/internal/domain"
)

func TestLoadBankFormats(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "trivia.yaml", `
id: trivia
questions:
  - question: What is 2 + 2?
    options: ["3", "4", "5"]
    answer: "4"
`)
	write(t, dir, "plain.json", `[{"question": "Capital of France?", "options": ["Paris", "Rome"], "answer": "Paris"}]`)

	loader := NewBankLoader(dir)

	bank, err := loader.LoadBank(context.Background(), "trivia")
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if bank.ID != "trivia" || len(bank.Questions) != 1 || bank.Questions[0].Answer != "4" {
		t.Fatalf("unexpected bank %+v", bank)
	}

	bank, err = loader.LoadBank(context.Background(), "plain")
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if bank.ID != "plain" || len(bank.Questions[0].Options) != 2 {
		t.Fatalf("unexpected bank %+v", bank)
	}
	if err := domain.ValidateBank(bank.Questions); err != nil {
		t.Fatalf("expected valid bank: %v", err)
	}
}

func TestLoadBankMissing(t *testing.T) {
	loader := NewBankLoader(t.TempDir())
	for _, id := range []string{"nope", "../etc/passwd", ""} {
		if _, err := loader.LoadBank(context.Background(), id); err != domain.ErrBankNotFound {
			t.Fatalf("%q: expected ErrBankNotFound, got %v", id, err)
		}
	}
}

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
