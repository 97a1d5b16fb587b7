package model

// Difficulty grades a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DefaultPoints is awarded for a correct answer when the source does not
// specify a point value.
const DefaultPoints = 10

// Question represents a single multiple-choice quiz question.
// Questions are immutable once loaded; sessions reference them by category.
type Question struct {
	Text         string     `json:"question"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correct"`
	Difficulty   Difficulty `json:"difficulty"`
	Points       int        `json:"points"`
}

// Valid reports whether a loaded question satisfies the repository
// invariants: at least two options and an in-range correct index.
func (q Question) Valid() bool {
	return len(q.Options) >= 2 && q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options)
}

// CategorySummary describes one category for the browsing surface.
type CategorySummary struct {
	Name            string         `json:"name"`
	QuestionCount   int            `json:"question_count"`
	Difficulties    map[string]int `json:"difficulties"`
	SampleQuestions []string       `json:"sample_questions"`
}

// CategoryListing is a category name with its question count.
type CategoryListing struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}
