package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizmaster/quizmaster-backend/internal/model"
)

// PostgresQuestionSource loads the question bank from Postgres. Options are
// stored as a JSONB array per question; rows are grouped into the same
// category map the file source produces.
type PostgresQuestionSource struct {
	pool *pgxpool.Pool
}

// NewPostgresQuestionSource creates a PostgresQuestionSource.
func NewPostgresQuestionSource(pool *pgxpool.Pool) *PostgresQuestionSource {
	return &PostgresQuestionSource{pool: pool}
}

// Load retrieves all questions grouped by category, ordered within each
// category by order_num.
func (s *PostgresQuestionSource) Load(ctx context.Context) (map[string][]model.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT category, question_text, options, correct_index, difficulty, points
		 FROM questions
		 ORDER BY category, order_num`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	raw := make(map[string][]model.Question)
	for rows.Next() {
		var (
			category string
			q        model.Question
			options  []byte
		)
		if err := rows.Scan(&category, &q.Text, &options, &q.CorrectIndex, &q.Difficulty, &q.Points); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, err
		}
		raw[category] = append(raw[category], q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return NormalizeCategories(raw), nil
}

// InsertQuestion adds one question to the bank. Used by the seeding CLI.
func (s *PostgresQuestionSource) InsertQuestion(ctx context.Context, category string, q model.Question, orderNum int) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO questions (category, question_text, options, correct_index, difficulty, points, order_num)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		category, q.Text, options, q.CorrectIndex, q.Difficulty, q.Points, orderNum,
	)
	return err
}
