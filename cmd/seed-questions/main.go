package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/quizmaster/quizmaster-backend/internal/config"
	"github.com/quizmaster/quizmaster-backend/internal/database"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/repository"
)

func main() {
	var questionsFile string
	flag.StringVar(&questionsFile, "file", "", "Question file to import (defaults to QUESTIONS_FILE)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if questionsFile == "" {
		questionsFile = cfg.QuestionsFile
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	fileSource := repository.NewFileQuestionSource(questionsFile)
	categories, err := fileSource.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("file", questionsFile).Msg("Failed to read question file")
	}
	if len(categories) == 0 {
		log.Fatal().Str("file", questionsFile).Msg("Question file contains no usable questions")
	}

	fmt.Printf("=== Seeding questions from %s ===\n", questionsFile)

	pgSource := repository.NewPostgresQuestionSource(pool)

	total := 0
	for category, questions := range categories {
		for i, q := range questions {
			if err := pgSource.InsertQuestion(ctx, category, q, i); err != nil {
				log.Fatal().Err(err).
					Str("category", category).
					Str("question", q.Text).
					Msg("Failed to insert question")
			}
			total++
		}
		fmt.Printf("Seeded %d questions into category '%s'\n", len(questions), category)
	}

	fmt.Printf("\nDone. %d questions across %d categories.\n", total, len(categories))
}
