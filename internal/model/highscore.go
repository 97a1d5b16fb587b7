package model

// HighscoreTimestampLayout is the fixed wire format for entry timestamps.
const HighscoreTimestampLayout = "2006-01-02 15:04:05"

// HighscoreEntry is one persisted record of a completed quiz attempt.
// Entries are immutable once written.
type HighscoreEntry struct {
	PlayerName     string  `json:"player_name"`
	Category       string  `json:"category"`
	Score          int     `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	Percentage     float64 `json:"percentage"`
	Timestamp      string  `json:"date"`
}

// RankedEntry is a highscore entry annotated with its leaderboard rank.
// Ranks 1-3 carry a medal marker for top-3 highlighting.
type RankedEntry struct {
	Rank int `json:"rank"`
	HighscoreEntry
	TopThree bool `json:"top_three"`
}

// LeaderboardStats aggregates the whole highscore list.
type LeaderboardStats struct {
	TotalScores   int     `json:"total_scores"`
	UniquePlayers int     `json:"unique_players"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  int     `json:"highest_score"`
}

// CategoryStats aggregates scores for one category.
type CategoryStats struct {
	Category     string  `json:"category"`
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
	HighestScore int     `json:"highest_score"`
}

// PersonalBest is the per-player leaderboard slice.
type PersonalBest struct {
	PlayerName   string           `json:"player_name"`
	Best         *HighscoreEntry  `json:"best,omitempty"`
	Attempts     int              `json:"attempts"`
	AverageScore float64          `json:"average_score"`
	Recent       []HighscoreEntry `json:"recent"`
}
