package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/quizmaster/quizmaster-backend/internal/model"
)

// sampleQuestionCount limits how many question prompts the category
// browsing surface previews.
const sampleQuestionCount = 3

// QuestionRepository serves the category map from a QuestionSource behind a
// TTL cache, so repeated page loads do not reread the backing store. A
// source failure degrades to an empty category set; it is logged, never
// fatal.
type QuestionRepository struct {
	source QuestionSource
	ttl    time.Duration
	clock  func() time.Time
	log    zerolog.Logger
	sf     singleflight.Group

	mu        sync.RWMutex
	cache     map[string][]model.Question
	expiresAt time.Time
}

// NewQuestionRepository creates a QuestionRepository over the given source.
func NewQuestionRepository(source QuestionSource, ttl time.Duration, log zerolog.Logger) *QuestionRepository {
	return &QuestionRepository{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		log:    log,
	}
}

// categories returns the cached map, reloading through singleflight when
// the TTL elapsed. Every error path yields an empty, non-nil map.
func (r *QuestionRepository) categories(ctx context.Context) map[string][]model.Question {
	now := r.clock()

	r.mu.RLock()
	if r.cache != nil && r.expiresAt.After(now) {
		cached := r.cache
		r.mu.RUnlock()
		return cached
	}
	r.mu.RUnlock()

	result, _, _ := r.sf.Do("categories", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.cache != nil && r.expiresAt.After(now) {
			cached := r.cache
			r.mu.RUnlock()
			return cached, nil
		}
		r.mu.RUnlock()

		loaded, err := r.source.Load(ctx)
		if err != nil {
			r.log.Warn().Err(err).Msg("Question source unavailable, serving empty category set")
			loaded = map[string][]model.Question{}
		}

		r.mu.Lock()
		r.cache = loaded
		r.expiresAt = now.Add(r.ttl)
		r.mu.Unlock()
		return loaded, nil
	})

	return result.(map[string][]model.Question)
}

// Categories lists all category names with question counts, sorted by name.
func (r *QuestionRepository) Categories(ctx context.Context) []model.CategoryListing {
	cats := r.categories(ctx)

	listings := make([]model.CategoryListing, 0, len(cats))
	for name, questions := range cats {
		listings = append(listings, model.CategoryListing{
			Name:          name,
			QuestionCount: len(questions),
		})
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Name < listings[j].Name
	})
	return listings
}

// Questions returns the ordered question list for a category.
// The boolean reports whether the category exists.
func (r *QuestionRepository) Questions(ctx context.Context, category string) ([]model.Question, bool) {
	questions, ok := r.categories(ctx)[category]
	return questions, ok
}

// Summary describes one category: question count, difficulty breakdown and
// a few sample prompts.
func (r *QuestionRepository) Summary(ctx context.Context, category string) (*model.CategorySummary, bool) {
	questions, ok := r.categories(ctx)[category]
	if !ok {
		return nil, false
	}

	difficulties := make(map[string]int)
	for _, q := range questions {
		difficulties[string(q.Difficulty)]++
	}

	samples := make([]string, 0, sampleQuestionCount)
	for _, q := range questions[:min(sampleQuestionCount, len(questions))] {
		samples = append(samples, q.Text)
	}

	return &model.CategorySummary{
		Name:            category,
		QuestionCount:   len(questions),
		Difficulties:    difficulties,
		SampleQuestions: samples,
	}, true
}
