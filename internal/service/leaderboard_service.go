package service

import (
	"math"
	"sort"

	"github.com/quizmaster/quizmaster-backend/internal/model"
	"github.com/quizmaster/quizmaster-backend/internal/repository"
)

const (
	// DefaultLeaderboardLimit is used when no display count is requested.
	DefaultLeaderboardLimit = 10
	// MaxLeaderboardLimit caps the requested display count.
	MaxLeaderboardLimit = repository.MaxHighscores

	// AllCategories is the filter value that disables category filtering.
	AllCategories = "all"

	topThreeCount    = 3
	recentEntryCount = 5
)

// LeaderboardService is a read-only aggregation layer over the highscore
// store. It never mutates.
type LeaderboardService struct {
	highscores *repository.HighscoreRepository
}

// NewLeaderboardService creates a LeaderboardService.
func NewLeaderboardService(highscores *repository.HighscoreRepository) *LeaderboardService {
	return &LeaderboardService{highscores: highscores}
}

// Leaderboard returns ranked entries, optionally filtered by category and
// truncated to limit. The store is already sorted by score descending.
func (s *LeaderboardService) Leaderboard(category string, limit int) []model.RankedEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	entries := s.filter(category)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	ranked := make([]model.RankedEntry, 0, len(entries))
	for i, entry := range entries {
		ranked = append(ranked, model.RankedEntry{
			Rank:           i + 1,
			HighscoreEntry: entry,
			TopThree:       i < topThreeCount,
		})
	}
	return ranked
}

// Stats aggregates the whole highscore list.
func (s *LeaderboardService) Stats() model.LeaderboardStats {
	entries := s.highscores.LoadAll()

	stats := model.LeaderboardStats{TotalScores: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	players := make(map[string]struct{})
	sum := 0
	for _, entry := range entries {
		players[entry.PlayerName] = struct{}{}
		sum += entry.Score
		if entry.Score > stats.HighestScore {
			stats.HighestScore = entry.Score
		}
	}
	stats.UniquePlayers = len(players)
	stats.AverageScore = round1(float64(sum) / float64(len(entries)))
	return stats
}

// CategoryStats aggregates attempts, average and max per category, sorted
// by category name.
func (s *LeaderboardService) CategoryStats() []model.CategoryStats {
	entries := s.highscores.LoadAll()

	byCategory := make(map[string]*model.CategoryStats)
	sums := make(map[string]int)
	for _, entry := range entries {
		cs, ok := byCategory[entry.Category]
		if !ok {
			cs = &model.CategoryStats{Category: entry.Category}
			byCategory[entry.Category] = cs
		}
		cs.Attempts++
		sums[entry.Category] += entry.Score
		if entry.Score > cs.HighestScore {
			cs.HighestScore = entry.Score
		}
	}

	stats := make([]model.CategoryStats, 0, len(byCategory))
	for category, cs := range byCategory {
		cs.AverageScore = round1(float64(sums[category]) / float64(cs.Attempts))
		stats = append(stats, *cs)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Category < stats[j].Category
	})
	return stats
}

// PersonalBest returns the player's best entry, attempt stats and their
// most recent entries. Recency follows the timestamp format, which sorts
// lexicographically.
func (s *LeaderboardService) PersonalBest(playerName string) model.PersonalBest {
	var mine []model.HighscoreEntry
	for _, entry := range s.highscores.LoadAll() {
		if entry.PlayerName == playerName {
			mine = append(mine, entry)
		}
	}

	best := model.PersonalBest{PlayerName: playerName, Attempts: len(mine)}
	if len(mine) == 0 {
		best.Recent = []model.HighscoreEntry{}
		return best
	}

	sum := 0
	top := mine[0]
	for _, entry := range mine {
		sum += entry.Score
		if entry.Score > top.Score {
			top = entry
		}
	}
	best.Best = &top
	best.AverageScore = round1(float64(sum) / float64(len(mine)))

	recent := make([]model.HighscoreEntry, len(mine))
	copy(recent, mine)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp > recent[j].Timestamp
	})
	if len(recent) > recentEntryCount {
		recent = recent[:recentEntryCount]
	}
	best.Recent = recent
	return best
}

func (s *LeaderboardService) filter(category string) []model.HighscoreEntry {
	entries := s.highscores.LoadAll()
	if category == "" || category == AllCategories {
		return entries
	}

	filtered := make([]model.HighscoreEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Category == category {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
