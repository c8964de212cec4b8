package domain

// Event is anything the session reports to its presentation layer.
type Event interface {
	EventType() string
}

// QuestionDisplayed is emitted whenever a new question is shown. Index is 1-based.
type QuestionDisplayed struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	TimeLeft int      `json:"timeLeft"`
}

// TimeTicked is emitted once per countdown tick.
type TimeTicked struct {
	TimeLeft int `json:"timeLeft"`
}

// AnswerEvaluated reports the outcome of a selection, skip or time-out.
// Selected is empty when no option was chosen.
type AnswerEvaluated struct {
	Correct       bool   `json:"correct"`
	Selected      string `json:"selected,omitempty"`
	CorrectAnswer string `json:"correctAnswer"`
}

// StatsChanged carries the running counters.
type StatsChanged struct {
	Stats
}

// SessionEnded is the end-of-session summary.
type SessionEnded struct {
	Stats
	BestScore int  `json:"bestScore"`
	IsNewBest bool `json:"isNewBest"`
}

// NoQuestionsAvailable replaces the first question when the bank cannot be used.
type NoQuestionsAvailable struct {
	Message string `json:"message"`
}

// SoundCue asks the presentation layer to play a sound.
type SoundCue struct {
	Cue Sound `json:"cue"`
}

func (QuestionDisplayed) EventType() string    { return "questionDisplayed" }
func (TimeTicked) EventType() string           { return "timeTicked" }
func (AnswerEvaluated) EventType() string      { return "answerEvaluated" }
func (StatsChanged) EventType() string         { return "statsChanged" }
func (SessionEnded) EventType() string         { return "sessionEnded" }
func (NoQuestionsAvailable) EventType() string { return "noQuestionsAvailable" }
func (SoundCue) EventType() string             { return "sound" }
