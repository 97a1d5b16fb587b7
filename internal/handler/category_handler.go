package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizmaster/quizmaster-backend/internal/repository"
	"github.com/quizmaster/quizmaster-backend/internal/response"
)

// CategoryHandler exposes the question catalog.
type CategoryHandler struct {
	questions *repository.QuestionRepository
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(questions *repository.QuestionRepository) *CategoryHandler {
	return &CategoryHandler{questions: questions}
}

// List godoc
// GET /api/v1/categories
// Returns every available category with its question count.
func (h *CategoryHandler) List(c *gin.Context) {
	categories := h.questions.Categories(c.Request.Context())

	response.Success(c, http.StatusOK, gin.H{
		"categories": categories,
	})
}

// Detail godoc
// GET /api/v1/categories/:name
// Returns a summary of a single category, including difficulty
// distribution and a few sample question texts.
func (h *CategoryHandler) Detail(c *gin.Context) {
	summary, ok := h.questions.Summary(c.Request.Context(), c.Param("name"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrCategoryNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"category": summary,
	})
}
