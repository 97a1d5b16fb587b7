package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizmaster/quizmaster-backend/internal/config"
	"github.com/quizmaster/quizmaster-backend/internal/handler"
	"github.com/quizmaster/quizmaster-backend/internal/repository"
	"github.com/quizmaster/quizmaster-backend/internal/router"
	"github.com/quizmaster/quizmaster-backend/internal/service"
	"github.com/quizmaster/quizmaster-backend/internal/validator"
)

const questionDoc = `{
	"categories": {
		"History": [
			{"question": "Q1", "options": ["a", "b", "c"], "correct": 0, "difficulty": "easy", "points": 10},
			{"question": "Q2", "options": ["a", "b", "c"], "correct": 1, "difficulty": "medium", "points": 10}
		]
	}
}`

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	validator.Setup()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	dir := t.TempDir()
	questionsPath := filepath.Join(dir, "questions.json")
	if err := os.WriteFile(questionsPath, []byte(questionDoc), 0o644); err != nil {
		t.Fatalf("write questions file: %v", err)
	}

	cfg := &config.Config{
		GinMode:    gin.TestMode,
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}

	log := zerolog.Nop()
	questionRepo := repository.NewQuestionRepository(repository.NewFileQuestionSource(questionsPath), time.Minute, log)
	highscoreRepo := repository.NewHighscoreRepository(filepath.Join(dir, "highscores.json"), log)
	userRepo := repository.NewUserRepository(filepath.Join(dir, "users.txt"), log)

	authService := service.NewAuthService(cfg, rdb, userRepo)
	quizService := service.NewQuizService(questionRepo, highscoreRepo, log)
	leaderboardService := service.NewLeaderboardService(highscoreRepo)

	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Category:    handler.NewCategoryHandler(questionRepo),
		Quiz:        handler.NewQuizHandler(quizService),
		Leaderboard: handler.NewLeaderboardHandler(leaderboardService),
	}

	return router.SetupRouter(authService, handlers, cfg)
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return envelope.Data
}

func loginAs(t *testing.T, engine *gin.Engine, username string) string {
	t.Helper()

	creds := map[string]string{"username": username, "password": "secret123"}
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", creds); w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}
	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", creds)
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}
	token, _ := decodeData(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("no token in login response: %s", w.Body.String())
	}
	return token
}

func TestHealth(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health returned %d", w.Code)
	}
}

func TestCategoriesPublic(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/categories", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("categories returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, engine, http.MethodGet, "/api/v1/categories/History", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("category detail returned %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, engine, http.MethodGet, "/api/v1/categories/Philosophy", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown category returned %d", w.Code)
	}
}

func TestQuizRequiresAuth(t *testing.T) {
	engine := newTestServer(t)

	body := map[string]interface{}{"category": "History"}
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/quiz/start", "", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated start returned %d", w.Code)
	}
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/quiz/start", "garbage", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token start returned %d", w.Code)
	}
}

func TestQuizFlow(t *testing.T) {
	engine := newTestServer(t)
	token := loginAs(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/api/v1/quiz/start", token, map[string]interface{}{"category": "History"})
	if w.Code != http.StatusOK {
		t.Fatalf("start returned %d: %s", w.Code, w.Body.String())
	}

	// Answer both questions correctly.
	for _, idx := range []int{0, 1} {
		w = doJSON(t, engine, http.MethodPost, "/api/v1/quiz/answer", token, map[string]interface{}{"option_index": idx})
		if w.Code != http.StatusOK {
			t.Fatalf("answer %d returned %d: %s", idx, w.Code, w.Body.String())
		}
	}

	w = doJSON(t, engine, http.MethodGet, "/api/v1/quiz/result", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("result returned %d: %s", w.Code, w.Body.String())
	}
	result, _ := decodeData(t, w)["result"].(map[string]interface{})
	if result["score"].(float64) != 20 {
		t.Fatalf("expected score 20, got %v", result["score"])
	}
	if result["percentage"].(float64) != 100.0 {
		t.Fatalf("expected 100%%, got %v", result["percentage"])
	}

	// The completed score shows up on the public board.
	w = doJSON(t, engine, http.MethodGet, "/api/v1/highscores?category=History", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("highscores returned %d: %s", w.Code, w.Body.String())
	}
	scores, _ := decodeData(t, w)["highscores"].([]interface{})
	if len(scores) != 1 {
		t.Fatalf("expected one highscore, got %d", len(scores))
	}

	// Personal view requires auth and sees the same attempt.
	w = doJSON(t, engine, http.MethodGet, "/api/v1/highscores/personal", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("personal returned %d: %s", w.Code, w.Body.String())
	}
}

func TestQuizGuardStatusCodes(t *testing.T) {
	engine := newTestServer(t)
	token := loginAs(t, engine, "alice")

	// No session yet.
	if w := doJSON(t, engine, http.MethodGet, "/api/v1/quiz/current", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("current without session returned %d", w.Code)
	}
	if w := doJSON(t, engine, http.MethodGet, "/api/v1/quiz/result", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("result without session returned %d", w.Code)
	}

	doJSON(t, engine, http.MethodPost, "/api/v1/quiz/start", token, map[string]interface{}{"category": "History"})

	// Out-of-range option.
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/quiz/answer", token, map[string]interface{}{"option_index": 99}); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid option returned %d", w.Code)
	}
	// Result before completion.
	if w := doJSON(t, engine, http.MethodGet, "/api/v1/quiz/result", token, nil); w.Code != http.StatusConflict {
		t.Fatalf("early result returned %d", w.Code)
	}
	// Missing payload field.
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/quiz/answer", token, map[string]interface{}{}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing option returned %d", w.Code)
	}

	// Finish, then mutate: finished sessions reject transitions.
	doJSON(t, engine, http.MethodPost, "/api/v1/quiz/skip", token, nil)
	doJSON(t, engine, http.MethodPost, "/api/v1/quiz/skip", token, nil)
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/quiz/answer", token, map[string]interface{}{"option_index": 0}); w.Code != http.StatusConflict {
		t.Fatalf("answer after completion returned %d", w.Code)
	}

	// Restart then exit.
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/quiz/restart", token, nil); w.Code != http.StatusOK {
		t.Fatalf("restart returned %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/quiz/exit", token, nil); w.Code != http.StatusOK {
		t.Fatalf("exit returned %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/quiz/exit", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second exit returned %d", w.Code)
	}
}

func TestSingleSessionEnforced(t *testing.T) {
	engine := newTestServer(t)

	creds := map[string]string{"username": "alice", "password": "secret123"}
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", creds); w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", creds); w.Code != http.StatusOK {
		t.Fatalf("first login returned %d", w.Code)
	}
	if w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", creds); w.Code != http.StatusConflict {
		t.Fatalf("second login returned %d", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	engine := newTestServer(t)

	cases := []map[string]string{
		{"username": "ab", "password": "secret123"},      // username too short
		{"username": "alice", "password": "123"},         // password too short
		{"username": "bad name!", "password": "secret1"}, // not alphanumeric
		{},
	}
	for i, body := range cases {
		if w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", body); w.Code != http.StatusBadRequest {
			t.Fatalf("case %d returned %d: %s", i, w.Code, w.Body.String())
		}
	}

	if w := doJSON(t, engine, http.MethodGet, fmt.Sprintf("/api/v1/highscores?limit=%s", "nope"), "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit returned %d", w.Code)
	}
}
