package model

// SessionState enumerates quiz session states.
type SessionState string

const (
	SessionStateNotStarted SessionState = "NOT_STARTED"
	SessionStateInProgress SessionState = "IN_PROGRESS"
	SessionStateCompleted  SessionState = "COMPLETED"
)

// SkippedSentinel is recorded as the selected option when a question is
// skipped instead of answered.
const SkippedSentinel = "Skipped"

// AnswerRecord captures one answered or skipped question, in index order.
type AnswerRecord struct {
	QuestionText   string `json:"question"`
	SelectedOption string `json:"selected"`
	CorrectOption  string `json:"correct"`
	IsCorrect      bool   `json:"is_correct"`
}

// StartQuizRequest is the payload for starting a quiz session.
type StartQuizRequest struct {
	Category string `json:"category" binding:"required,min=1,max=64"`
	Shuffle  bool   `json:"shuffle"`
}

// SubmitAnswerRequest is the payload for answering the current question.
// OptionIndex is a pointer so that index 0 still passes required binding.
type SubmitAnswerRequest struct {
	OptionIndex *int `json:"option_index" binding:"required,min=0"`
}

// QuestionView is the client-facing projection of the current question.
// The correct index is deliberately not exposed.
type QuestionView struct {
	Number     int      `json:"number"`
	Total      int      `json:"total"`
	Text       string   `json:"question"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
	Points     int      `json:"points"`
	Category   string   `json:"category"`
	Score      int      `json:"score"`
}

// AnswerOutcome reports the result of a single answer/skip transition.
type AnswerOutcome struct {
	Correct       bool   `json:"correct"`
	CorrectOption string `json:"correct_option"`
	Awarded       int    `json:"awarded"`
	Score         int    `json:"score"`
	Completed     bool   `json:"completed"`
}

// QuizResult summarizes a completed session.
type QuizResult struct {
	PlayerName     string         `json:"player_name"`
	Category       string         `json:"category"`
	Score          int            `json:"score"`
	CorrectAnswers int            `json:"correct_answers"`
	TotalQuestions int            `json:"total_questions"`
	Percentage     float64        `json:"percentage"`
	Answers        []AnswerRecord `json:"answers"`
	ScoreSaved     bool           `json:"score_saved"`
}
