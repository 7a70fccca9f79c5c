package handler

import (
	"net/http"
	"strconv"

	"codequest-server/internal/models"

	"github.com/gin-gonic/gin"
)

type generateQuizRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty"`
}

func (h *Handler) generateQuiz(c *gin.Context) {
	if _, ok := h.currentUser(c); !ok {
		return
	}

	var req generateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	quiz, err := h.arena.GenerateQuiz(c.Request.Context(), req.Topic, req.Difficulty)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

type validateAnswerRequest struct {
	Question    models.Question `json:"question" binding:"required"`
	AnswerIndex *int            `json:"answer_index" binding:"required"`
}

func (h *Handler) validateAnswer(c *gin.Context) {
	if _, ok := h.currentUser(c); !ok {
		return
	}

	var req validateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question and answer_index are required"})
		return
	}

	review := h.arena.ValidateAnswer(req.Question, *req.AnswerIndex)
	c.JSON(http.StatusOK, review)
}

type submitResultRequest struct {
	Topic        string `json:"topic" binding:"required"`
	CorrectCount *int   `json:"correct_count" binding:"required"`
	TotalCount   *int   `json:"total_count" binding:"required"`
}

func (h *Handler) submitResult(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req submitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic, correct_count and total_count are required"})
		return
	}

	outcome, err := h.progression.SubmitResult(c.Request.Context(), userID, req.Topic, *req.CorrectCount, *req.TotalCount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *Handler) listMasteries(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	masteries, err := h.progression.Masteries(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"masteries": masteries})
}

func (h *Handler) profile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	profile, err := h.progression.Profile(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) leaderboard(c *gin.Context) {
	if _, ok := h.currentUser(c); !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	entries, err := h.progression.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
