package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizmaster/quizmaster-backend/internal/middleware"
	"github.com/quizmaster/quizmaster-backend/internal/response"
	"github.com/quizmaster/quizmaster-backend/internal/service"
)

// LeaderboardHandler exposes the highscore views.
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// List godoc
// GET /api/v1/highscores?category=&limit=
// Returns ranked highscores, optionally filtered by category. The top
// three entries are flagged for medal display.
func (h *LeaderboardHandler) List(c *gin.Context) {
	category := c.DefaultQuery("category", service.AllCategories)

	limit := service.DefaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		limit = parsed
	}

	entries := h.leaderboardService.Leaderboard(category, limit)

	response.Success(c, http.StatusOK, gin.H{
		"highscores": entries,
	})
}

// Stats godoc
// GET /api/v1/highscores/stats
// Returns aggregate statistics across all recorded scores plus a
// per-category breakdown.
func (h *LeaderboardHandler) Stats(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"overall":    h.leaderboardService.Stats(),
		"categories": h.leaderboardService.CategoryStats(),
	})
}

// PersonalBest godoc
// GET /api/v1/highscores/personal
// Returns the authenticated player's best score, attempt count,
// average and most recent results.
func (h *LeaderboardHandler) PersonalBest(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"personal": h.leaderboardService.PersonalBest(claims.Username),
	})
}
