package domain

// Question is a single multiple-choice record of the question bank.
// Answer must equal one of Options.
type Question struct {
	Prompt  string   `json:"question" yaml:"question"`
	Options []string `json:"options" yaml:"options"`
	Answer  string   `json:"answer" yaml:"answer"`
}

// Bank is an ordered, externally supplied list of questions.
type Bank struct {
	ID        string     `json:"id" yaml:"id"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Stats are the running counters of a session.
type Stats struct {
	Score   int `json:"score"`
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
	Coins   int `json:"coins"`
}

// Phase is the controller's position in the question lifecycle.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseQuestion    Phase = "question"
	PhaseReveal      Phase = "reveal"
	PhaseEnded       Phase = "ended"
	PhaseUnavailable Phase = "unavailable"
)

// Sound identifies a best-effort audio cue.
type Sound string

const (
	SoundClick   Sound = "click"
	SoundCorrect Sound = "correct"
	SoundWrong   Sound = "wrong"
)

// Snapshot is a point-in-time view of a session, used to resync reconnecting clients.
type Snapshot struct {
	SessionID string             `json:"sessionId"`
	Phase     Phase              `json:"phase"`
	Index     int                `json:"index"`
	Total     int                `json:"total"`
	TimeLeft  int                `json:"timeLeft"`
	Locked    bool               `json:"locked"`
	Stats     Stats              `json:"stats"`
	Question  *QuestionDisplayed `json:"question,omitempty"`
}

// DefaultBankID names the bank used when a client does not ask for one.
const DefaultBankID = "default"
