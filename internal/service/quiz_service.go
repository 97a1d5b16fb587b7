package service

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizmaster/quizmaster-backend/internal/model"
	"github.com/quizmaster/quizmaster-backend/internal/repository"
)

// Quiz transition errors. Each corresponds to a guard in the session state
// machine; a rejected transition never mutates state.
var (
	ErrEmptyPlayerName     = errors.New("player name must not be empty")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrNoActiveQuiz        = errors.New("no quiz in progress")
	ErrQuizAlreadyFinished = errors.New("quiz already finished")
	ErrQuizNotFinished     = errors.New("quiz not finished")
	ErrAnswerAlreadyGiven  = errors.New("answer already given for this question")
	ErrInvalidOption       = errors.New("selected option out of range")
)

// quizSession tracks one player's progress through one quiz attempt.
// All mutation happens under the owning service's lock.
type quizSession struct {
	playerName string
	category   string
	questions  []model.Question
	state      model.SessionState
	index      int
	score      int
	correct    int
	answered   []bool
	answers    []model.AnswerRecord
	result     *model.QuizResult
}

// QuizService owns the active quiz sessions, one per player. It consumes
// questions from the repository and writes one highscore entry per
// completed session.
type QuizService struct {
	questions  *repository.QuestionRepository
	highscores *repository.HighscoreRepository
	log        zerolog.Logger
	now        func() time.Time
	rnd        *rand.Rand

	mu       sync.Mutex
	sessions map[string]*quizSession
}

// NewQuizService creates a QuizService.
func NewQuizService(questions *repository.QuestionRepository, highscores *repository.HighscoreRepository, log zerolog.Logger) *QuizService {
	return &QuizService{
		questions:  questions,
		highscores: highscores,
		log:        log,
		now:        time.Now,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sessions:   make(map[string]*quizSession),
	}
}

// Start creates a fresh session for the player in the given category,
// replacing any previous one. The question order is shuffled once, before
// the first question is shown, when shuffle is set.
func (s *QuizService) Start(ctx context.Context, playerName, category string, shuffle bool) (*model.QuestionView, error) {
	if strings.TrimSpace(playerName) == "" {
		return nil, ErrEmptyPlayerName
	}

	source, ok := s.questions.Questions(ctx, category)
	if !ok || len(source) == 0 {
		return nil, ErrCategoryNotFound
	}

	questions := make([]model.Question, len(source))
	copy(questions, source)

	s.mu.Lock()
	defer s.mu.Unlock()

	if shuffle {
		s.rnd.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	session := &quizSession{
		playerName: playerName,
		category:   category,
		questions:  questions,
		state:      model.SessionStateInProgress,
		answered:   make([]bool, len(questions)),
		answers:    make([]model.AnswerRecord, 0, len(questions)),
	}
	s.sessions[playerName] = session

	view := session.currentView()
	return &view, nil
}

// Current returns the question the player is facing.
func (s *QuizService) Current(playerName string) (*model.QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.inProgress(playerName)
	if err != nil {
		return nil, err
	}

	view := session.currentView()
	return &view, nil
}

// Answer applies the submit-answer transition for the current question.
func (s *QuizService) Answer(ctx context.Context, playerName string, optionIdx int) (*model.AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.inProgress(playerName)
	if err != nil {
		return nil, err
	}
	if session.answered[session.index] {
		return nil, ErrAnswerAlreadyGiven
	}

	question := session.questions[session.index]
	if optionIdx < 0 || optionIdx >= len(question.Options) {
		return nil, ErrInvalidOption
	}

	correct := optionIdx == question.CorrectIndex
	awarded := 0
	if correct {
		awarded = question.Points
	}

	session.record(model.AnswerRecord{
		QuestionText:   question.Text,
		SelectedOption: question.Options[optionIdx],
		CorrectOption:  question.Options[question.CorrectIndex],
		IsCorrect:      correct,
	}, awarded)

	return s.outcome(session, question, correct, awarded), nil
}

// Skip applies the skip transition: the sentinel is recorded, nothing is
// awarded, the session advances.
func (s *QuizService) Skip(ctx context.Context, playerName string) (*model.AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.inProgress(playerName)
	if err != nil {
		return nil, err
	}

	question := session.questions[session.index]
	session.record(model.AnswerRecord{
		QuestionText:   question.Text,
		SelectedOption: model.SkippedSentinel,
		CorrectOption:  question.Options[question.CorrectIndex],
		IsCorrect:      false,
	}, 0)

	return s.outcome(session, question, false, 0), nil
}

// Result returns the final result of a completed session.
func (s *QuizService) Result(playerName string) (*model.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[playerName]
	if !ok || session.state == model.SessionStateNotStarted {
		return nil, ErrNoActiveQuiz
	}
	if session.state != model.SessionStateCompleted {
		return nil, ErrQuizNotFinished
	}
	return session.result, nil
}

// Restart resets a completed session back to NotStarted, keeping the
// player's name and category so a new start is one call away.
func (s *QuizService) Restart(playerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[playerName]
	if !ok {
		return ErrNoActiveQuiz
	}
	if session.state != model.SessionStateCompleted {
		return ErrQuizNotFinished
	}

	session.state = model.SessionStateNotStarted
	session.index = 0
	session.score = 0
	session.correct = 0
	session.answered = make([]bool, len(session.questions))
	session.answers = session.answers[:0]
	session.result = nil
	return nil
}

// Exit discards the player's session entirely.
func (s *QuizService) Exit(playerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[playerName]; !ok {
		return ErrNoActiveQuiz
	}
	delete(s.sessions, playerName)
	return nil
}

// inProgress fetches the player's session if one is accepting transitions.
func (s *QuizService) inProgress(playerName string) (*quizSession, error) {
	session, ok := s.sessions[playerName]
	if !ok || session.state == model.SessionStateNotStarted {
		return nil, ErrNoActiveQuiz
	}
	if session.state == model.SessionStateCompleted {
		return nil, ErrQuizAlreadyFinished
	}
	return session, nil
}

// outcome builds the transition result and, when the session just
// completed, persists the highscore entry exactly once.
func (s *QuizService) outcome(session *quizSession, question model.Question, correct bool, awarded int) *model.AnswerOutcome {
	out := &model.AnswerOutcome{
		Correct:       correct,
		CorrectOption: question.Options[question.CorrectIndex],
		Awarded:       awarded,
		Score:         session.score,
		Completed:     session.state == model.SessionStateCompleted,
	}
	if out.Completed {
		s.finalize(session)
	}
	return out
}

// finalize computes the result and appends the highscore entry. A persist
// failure is logged and surfaced through ScoreSaved, never fatal.
func (s *QuizService) finalize(session *quizSession) {
	total := len(session.questions)
	percentage := roundPercentage(session.correct, total)

	entry := model.HighscoreEntry{
		PlayerName:     session.playerName,
		Category:       session.category,
		Score:          session.score,
		CorrectAnswers: session.correct,
		TotalQuestions: total,
		Percentage:     percentage,
		Timestamp:      s.now().Format(model.HighscoreTimestampLayout),
	}

	saved := true
	if err := s.highscores.Append(entry); err != nil {
		saved = false
		s.log.Error().Err(err).
			Str("player", session.playerName).
			Str("category", session.category).
			Msg("Failed to persist highscore entry")
	}

	session.result = &model.QuizResult{
		PlayerName:     session.playerName,
		Category:       session.category,
		Score:          session.score,
		CorrectAnswers: session.correct,
		TotalQuestions: total,
		Percentage:     percentage,
		Answers:        session.answers,
		ScoreSaved:     saved,
	}
}

// record appends the answer record, applies the award and advances,
// flipping to Completed after the last question.
func (q *quizSession) record(rec model.AnswerRecord, awarded int) {
	q.answers = append(q.answers, rec)
	q.answered[q.index] = true
	if rec.IsCorrect {
		q.correct++
	}
	q.score += awarded
	q.index++
	if q.index == len(q.questions) {
		q.state = model.SessionStateCompleted
	}
}

func (q *quizSession) currentView() model.QuestionView {
	question := q.questions[q.index]
	return model.QuestionView{
		Number:     q.index + 1,
		Total:      len(q.questions),
		Text:       question.Text,
		Options:    question.Options,
		Difficulty: string(question.Difficulty),
		Points:     question.Points,
		Category:   q.category,
		Score:      q.score,
	}
}

// roundPercentage computes correct/total as a percentage rounded to one
// decimal place. total is never zero for a started session.
func roundPercentage(correct, total int) float64 {
	return math.Round(float64(correct)/float64(total)*1000) / 10
}
