package domain

import "errors"

var (
	// ErrNoQuestionsAvailable is returned when the question bank is missing, empty or malformed.
	ErrNoQuestionsAvailable = errors.New("no questions available")
	// ErrSessionNotFound is returned when a quiz session has not been opened.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionInProgress is returned by PlayAgain while questions are still being asked.
	ErrSessionInProgress = errors.New("quiz session still in progress")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrOptionNotFound indicates a submitted option is not one of the displayed options.
	ErrOptionNotFound = errors.New("option not found")
)
