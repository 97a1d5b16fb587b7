package service

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quizmaster/quizmaster-backend/internal/model"
	"github.com/quizmaster/quizmaster-backend/internal/repository"
)

func newTestLeaderboard(t *testing.T, entries []model.HighscoreEntry) *LeaderboardService {
	t.Helper()

	path := filepath.Join(t.TempDir(), "highscores.json")
	repo := repository.NewHighscoreRepository(path, zerolog.Nop())
	for _, e := range entries {
		if err := repo.Append(e); err != nil {
			t.Fatalf("seed append failed: %v", err)
		}
	}
	return NewLeaderboardService(repo)
}

func score(player, category string, points int, timestamp string) model.HighscoreEntry {
	return model.HighscoreEntry{
		PlayerName:     player,
		Category:       category,
		Score:          points,
		CorrectAnswers: points / 10,
		TotalQuestions: 10,
		Percentage:     float64(points),
		Timestamp:      timestamp,
	}
}

func TestLeaderboardRankingAndTopThree(t *testing.T) {
	service := newTestLeaderboard(t, []model.HighscoreEntry{
		score("a", "History", 50, "2026-03-01 10:00:00"),
		score("b", "History", 40, "2026-03-02 10:00:00"),
		score("c", "Science", 30, "2026-03-03 10:00:00"),
		score("d", "History", 20, "2026-03-04 10:00:00"),
	})

	ranked := service.Leaderboard(AllCategories, DefaultLeaderboardLimit)
	if len(ranked) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(ranked))
	}
	for i, entry := range ranked {
		if entry.Rank != i+1 {
			t.Fatalf("entry %d has rank %d", i, entry.Rank)
		}
		if entry.TopThree != (i < 3) {
			t.Fatalf("entry %d top-three flag wrong", i)
		}
	}
	if ranked[0].PlayerName != "a" || ranked[3].PlayerName != "d" {
		t.Fatalf("unexpected ordering: %+v", ranked)
	}
}

func TestLeaderboardCategoryFilter(t *testing.T) {
	service := newTestLeaderboard(t, []model.HighscoreEntry{
		score("a", "History", 50, "2026-03-01 10:00:00"),
		score("b", "Science", 40, "2026-03-02 10:00:00"),
		score("c", "History", 30, "2026-03-03 10:00:00"),
	})

	ranked := service.Leaderboard("History", DefaultLeaderboardLimit)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 History entries, got %d", len(ranked))
	}
	// Ranks restart within the filtered view.
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 {
		t.Fatalf("filtered ranks wrong: %+v", ranked)
	}
	if ranked[0].PlayerName != "a" || ranked[1].PlayerName != "c" {
		t.Fatalf("unexpected filtered entries: %+v", ranked)
	}

	if got := service.Leaderboard("Philosophy", DefaultLeaderboardLimit); len(got) != 0 {
		t.Fatalf("expected empty board for unknown category, got %v", got)
	}
}

func TestLeaderboardLimit(t *testing.T) {
	var entries []model.HighscoreEntry
	for i := 0; i < 15; i++ {
		entries = append(entries, score("p", "History", i*10, "2026-03-01 10:00:00"))
	}
	service := newTestLeaderboard(t, entries)

	if got := service.Leaderboard(AllCategories, 5); len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(got))
	}
	// Zero and negative fall back to the default.
	if got := service.Leaderboard(AllCategories, 0); len(got) != DefaultLeaderboardLimit {
		t.Fatalf("expected default limit, got %d", len(got))
	}
	// Oversized requests are capped, not errors.
	if got := service.Leaderboard(AllCategories, 100000); len(got) != 15 {
		t.Fatalf("expected all 15 entries, got %d", len(got))
	}
}

func TestStats(t *testing.T) {
	service := newTestLeaderboard(t, nil)
	if stats := service.Stats(); stats.TotalScores != 0 || stats.UniquePlayers != 0 {
		t.Fatalf("expected zero stats for empty store, got %+v", stats)
	}

	service = newTestLeaderboard(t, []model.HighscoreEntry{
		score("a", "History", 50, "2026-03-01 10:00:00"),
		score("a", "Science", 20, "2026-03-02 10:00:00"),
		score("b", "History", 30, "2026-03-03 10:00:00"),
	})

	stats := service.Stats()
	if stats.TotalScores != 3 || stats.UniquePlayers != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.HighestScore != 50 {
		t.Fatalf("expected highest 50, got %d", stats.HighestScore)
	}
	if stats.AverageScore != 33.3 {
		t.Fatalf("expected average 33.3, got %v", stats.AverageScore)
	}
}

func TestCategoryStats(t *testing.T) {
	service := newTestLeaderboard(t, []model.HighscoreEntry{
		score("a", "Science", 20, "2026-03-01 10:00:00"),
		score("b", "History", 50, "2026-03-02 10:00:00"),
		score("c", "History", 25, "2026-03-03 10:00:00"),
	})

	stats := service.CategoryStats()
	if len(stats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats))
	}
	// Sorted by category name.
	if stats[0].Category != "History" || stats[1].Category != "Science" {
		t.Fatalf("unexpected order: %+v", stats)
	}
	if stats[0].Attempts != 2 || stats[0].HighestScore != 50 || stats[0].AverageScore != 37.5 {
		t.Fatalf("unexpected History stats: %+v", stats[0])
	}
	if stats[1].Attempts != 1 || stats[1].AverageScore != 20.0 {
		t.Fatalf("unexpected Science stats: %+v", stats[1])
	}
}

func TestPersonalBest(t *testing.T) {
	service := newTestLeaderboard(t, []model.HighscoreEntry{
		score("alice", "History", 30, "2026-03-01 10:00:00"),
		score("alice", "History", 50, "2026-03-02 10:00:00"),
		score("alice", "Science", 10, "2026-03-03 10:00:00"),
		score("alice", "History", 20, "2026-03-04 10:00:00"),
		score("alice", "Science", 40, "2026-03-05 10:00:00"),
		score("alice", "History", 25, "2026-03-06 10:00:00"),
		score("bob", "History", 99, "2026-03-07 10:00:00"),
	})

	best := service.PersonalBest("alice")
	if best.Attempts != 6 {
		t.Fatalf("expected 6 attempts, got %d", best.Attempts)
	}
	if best.Best == nil || best.Best.Score != 50 {
		t.Fatalf("unexpected best entry: %+v", best.Best)
	}
	if best.AverageScore != 29.2 {
		t.Fatalf("expected average 29.2, got %v", best.AverageScore)
	}
	if len(best.Recent) != 5 {
		t.Fatalf("expected 5 recent entries, got %d", len(best.Recent))
	}
	// Most recent first.
	if best.Recent[0].Timestamp != "2026-03-06 10:00:00" {
		t.Fatalf("unexpected most recent: %+v", best.Recent[0])
	}
	if best.Recent[4].Timestamp != "2026-03-02 10:00:00" {
		t.Fatalf("unexpected oldest kept: %+v", best.Recent[4])
	}
}

func TestPersonalBestUnknownPlayer(t *testing.T) {
	service := newTestLeaderboard(t, []model.HighscoreEntry{
		score("bob", "History", 99, "2026-03-07 10:00:00"),
	})

	best := service.PersonalBest("nobody")
	if best.Attempts != 0 || best.Best != nil {
		t.Fatalf("expected empty personal view, got %+v", best)
	}
	if best.Recent == nil || len(best.Recent) != 0 {
		t.Fatalf("expected empty non-nil recents, got %v", best.Recent)
	}
}
