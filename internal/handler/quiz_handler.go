package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizmaster/quizmaster-backend/internal/middleware"
	"github.com/quizmaster/quizmaster-backend/internal/model"
	"github.com/quizmaster/quizmaster-backend/internal/response"
	"github.com/quizmaster/quizmaster-backend/internal/service"
	"github.com/quizmaster/quizmaster-backend/internal/validator"
)

// QuizHandler drives a player's quiz session. Every endpoint operates
// on the session belonging to the authenticated player.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Start godoc
// POST /api/v1/quiz/start
// Begins a new quiz in the requested category. Any previous session
// for the player is discarded.
func (h *QuizHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.Start(c.Request.Context(), claims.Username, req.Category, req.Shuffle)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrCategoryNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"question": view,
	})
}

// Current godoc
// GET /api/v1/quiz/current
// Returns the question the player is currently facing.
func (h *QuizHandler) Current(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, err := h.quizService.Current(claims.Username)
	if err != nil {
		h.failProgress(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"question": view,
	})
}

// Answer godoc
// POST /api/v1/quiz/answer
// Submits an answer for the current question and advances the session.
func (h *QuizHandler) Answer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	outcome, err := h.quizService.Answer(c.Request.Context(), claims.Username, *req.OptionIndex)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOption):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidOption)
		case errors.Is(err, service.ErrAnswerAlreadyGiven):
			response.Fail(c, http.StatusConflict, response.ErrAnswerAlreadyGiven)
		default:
			h.failProgress(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"outcome": outcome,
	})
}

// Skip godoc
// POST /api/v1/quiz/skip
// Skips the current question. No points are awarded and the session
// advances as if an incorrect answer had been given.
func (h *QuizHandler) Skip(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	outcome, err := h.quizService.Skip(c.Request.Context(), claims.Username)
	if err != nil {
		h.failProgress(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"outcome": outcome,
	})
}

// Result godoc
// GET /api/v1/quiz/result
// Returns the full result of a completed quiz, including the per
// question answer breakdown.
func (h *QuizHandler) Result(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, err := h.quizService.Result(claims.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveQuiz):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveQuiz)
		case errors.Is(err, service.ErrQuizNotFinished):
			response.Fail(c, http.StatusConflict, response.ErrQuizNotFinished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"result": result,
	})
}

// Restart godoc
// POST /api/v1/quiz/restart
// Resets a completed quiz back to its initial state. The player can
// then start a fresh attempt in the same category.
func (h *QuizHandler) Restart(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.quizService.Restart(claims.Username); err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveQuiz):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveQuiz)
		case errors.Is(err, service.ErrQuizNotFinished):
			response.Fail(c, http.StatusConflict, response.ErrQuizNotFinished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Exit godoc
// POST /api/v1/quiz/exit
// Discards the player's quiz session entirely.
func (h *QuizHandler) Exit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.quizService.Exit(claims.Username); err != nil {
		if errors.Is(err, service.ErrNoActiveQuiz) {
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveQuiz)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// failProgress maps the shared in-progress guard errors.
func (h *QuizHandler) failProgress(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveQuiz):
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveQuiz)
	case errors.Is(err, service.ErrQuizAlreadyFinished):
		response.Fail(c, http.StatusConflict, response.ErrQuizFinished)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
