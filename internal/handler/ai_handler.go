package handler

import (
	"net/http"
	"strconv"

	"codequest-server/internal/models"

	"github.com/gin-gonic/gin"
)

type askRequest struct {
	Subject  string `json:"subject"`
	Question string `json:"question" binding:"required"`
}

func (h *Handler) askTutor(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	interaction, err := h.tutor.Ask(c.Request.Context(), userID, req.Subject, req.Question)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, interaction)
}

func (h *Handler) tutorHistory(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	history, err := h.tutor.History(c.Request.Context(), userID, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interactions": history})
}

type analyzeRequest struct {
	Topic string `json:"topic" binding:"required"`
	Depth string `json:"depth"`
}

func (h *Handler) analyzeTopic(c *gin.Context) {
	if _, ok := h.currentUser(c); !ok {
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}

	depth := models.Depth(req.Depth)
	if req.Depth == "" {
		depth = models.DepthInitial
	}

	analysis, cached, err := h.analysis.AnalyzeTopic(c.Request.Context(), req.Topic, depth)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analysis": analysis,
		"cached":   cached,
	})
}
