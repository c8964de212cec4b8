package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blitz-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

var extensions = []string{".yaml", ".yml", ".json"}

// BankLoader reads banks from <dir>/<bankID>.{yaml,yml,json}.
type BankLoader struct {
	dir string
}

func NewBankLoader(dir string) *BankLoader {
	return &BankLoader{dir: dir}
}

func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bankID == "" || strings.ContainsAny(bankID, `/\`) || strings.Contains(bankID, "..") {
		return domain.Bank{}, domain.ErrBankNotFound
	}
	for _, ext := range extensions {
		path := filepath.Join(l.dir, bankID+ext)
		bank, err := ReadBank(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Bank{}, err
		}
		if bank.ID == "" {
			bank.ID = bankID
		}
		return bank, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}

// ReadBank parses a question file. The document is either a bank object
// ({id, questions}) or a bare list of questions. JSON is accepted as YAML.
func ReadBank(path string) (domain.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Bank{}, err
	}

	var bank domain.Bank
	if err := yaml.Unmarshal(data, &bank); err == nil && len(bank.Questions) > 0 {
		return bank, nil
	}

	var questions []domain.Question
	if err := yaml.Unmarshal(data, &questions); err != nil {
		return domain.Bank{}, fmt.Errorf("parse bank %s: %w", path, err)
	}
	return domain.Bank{Questions: questions}, nil
}
