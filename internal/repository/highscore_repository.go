package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/quizmaster/quizmaster-backend/internal/model"
)

// MaxHighscores caps the persisted highscore list.
const MaxHighscores = 50

// HighscoreRepository persists highscore entries to a JSON array on disk.
// Every append rewrites the whole file; the list is small by construction.
// A mutex serializes the read-modify-write cycle so two players finishing
// at the same time cannot lose each other's scores.
type HighscoreRepository struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

// NewHighscoreRepository creates a HighscoreRepository backed by path.
func NewHighscoreRepository(path string, log zerolog.Logger) *HighscoreRepository {
	return &HighscoreRepository{path: path, log: log}
}

// LoadAll returns all persisted entries, sorted by score descending.
// An absent or corrupt file yields an empty list, never an error.
func (r *HighscoreRepository) LoadAll() []model.HighscoreEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

// Append adds one entry, re-sorts by score descending (stable, so earlier
// entries win ties), truncates to MaxHighscores and rewrites the file.
func (r *HighscoreRepository) Append(entry model.HighscoreEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := append(r.loadLocked(), entry)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > MaxHighscores {
		entries = entries[:MaxHighscores]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal highscores: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write highscores file %s: %w", r.path, err)
	}
	return nil
}

func (r *HighscoreRepository) loadLocked() []model.HighscoreEntry {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn().Err(err).Msg("Highscores file unreadable, starting empty")
		}
		return []model.HighscoreEntry{}
	}

	var entries []model.HighscoreEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.log.Warn().Err(err).Msg("Highscores file corrupt, starting empty")
		return []model.HighscoreEntry{}
	}
	return entries
}
