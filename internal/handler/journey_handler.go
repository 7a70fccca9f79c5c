package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) journeyMap(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	m, err := h.journey.Map(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type startLevelRequest struct {
	LevelID string `json:"level_id" binding:"required"`
}

func (h *Handler) startLevel(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req startLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level_id is required"})
		return
	}

	start, err := h.journey.StartLevel(c.Request.Context(), userID, req.LevelID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, start)
}

type completeLevelRequest struct {
	LevelID string `json:"level_id" binding:"required"`
	Passed  *bool  `json:"passed" binding:"required"`
}

func (h *Handler) completeLevel(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req completeLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level_id and passed are required"})
		return
	}

	outcome, err := h.journey.CompleteLevel(c.Request.Context(), userID, req.LevelID, *req.Passed)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}
