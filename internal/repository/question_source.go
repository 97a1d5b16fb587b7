package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/quizmaster/quizmaster-backend/internal/model"
)

// QuestionSource loads the category → question-list mapping from a backing
// store (JSON file or Postgres question bank).
type QuestionSource interface {
	Load(ctx context.Context) (map[string][]model.Question, error)
}

// questionDocument mirrors the canonical question source schema:
// {"categories": {"<name>": [ {question, options, correct, ...} ]}}
type questionDocument struct {
	Categories map[string][]model.Question `json:"categories"`
}

// FileQuestionSource reads questions from a JSON document on disk.
type FileQuestionSource struct {
	path string
}

// NewFileQuestionSource creates a FileQuestionSource for the given path.
func NewFileQuestionSource(path string) *FileQuestionSource {
	return &FileQuestionSource{path: path}
}

// Load parses the question document. An absent or malformed file is an
// error to the caller; there is no partial-parse recovery.
func (s *FileQuestionSource) Load(_ context.Context) (map[string][]model.Question, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read questions file %s: %w", s.path, err)
	}

	var doc questionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse questions file %s: %w", s.path, err)
	}

	return NormalizeCategories(doc.Categories), nil
}

// NormalizeCategories applies the load-time invariants: default point
// values, rejection of malformed questions, and removal of categories left
// without any question.
func NormalizeCategories(raw map[string][]model.Question) map[string][]model.Question {
	categories := make(map[string][]model.Question, len(raw))
	for name, questions := range raw {
		kept := make([]model.Question, 0, len(questions))
		for _, q := range questions {
			if !q.Valid() {
				continue
			}
			if q.Points <= 0 {
				q.Points = model.DefaultPoints
			}
			kept = append(kept, q)
		}
		if len(kept) > 0 {
			categories[name] = kept
		}
	}
	return categories
}
