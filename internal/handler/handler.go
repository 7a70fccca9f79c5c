// Package handler is the thin HTTP layer over the services: request
// binding, auth extraction and error-to-status mapping. No domain logic
// lives here.
package handler

import (
	"errors"
	"net/http"

	"codequest-server/internal/ai"
	"codequest-server/internal/middleware"
	"codequest-server/internal/models"
	"codequest-server/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

// Handler wires the services into gin routes.
type Handler struct {
	analysis    *service.AnalysisService
	arena       *service.ArenaService
	progression *service.ProgressionService
	journey     *service.JourneyService
	tutor       *service.TutorService
	logger      *zap.Logger
}

// New creates a Handler.
func New(
	analysis *service.AnalysisService,
	arena *service.ArenaService,
	progression *service.ProgressionService,
	journey *service.JourneyService,
	tutor *service.TutorService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		analysis:    analysis,
		arena:       arena,
		progression: progression,
		journey:     journey,
		tutor:       tutor,
		logger:      logger.Named("Handler"),
	}
}

// Router builds the gin engine with CORS, metrics and all routes.
func (h *Handler) Router(jwtSecret string, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	prom := ginprometheus.NewPrometheus("codequest")
	prom.Use(router)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", middleware.Auth(jwtSecret, h.logger))
	{
		aiGroup := api.Group("/ai")
		{
			aiGroup.POST("/ask", h.askTutor)
			aiGroup.POST("/analyze", h.analyzeTopic)
			aiGroup.GET("/history", h.tutorHistory)
		}

		arenaGroup := api.Group("/arena")
		{
			arenaGroup.POST("/generate", h.generateQuiz)
			arenaGroup.POST("/answer", h.validateAnswer)
			arenaGroup.POST("/submit", h.submitResult)
			arenaGroup.GET("/mastery", h.listMasteries)
			arenaGroup.GET("/profile", h.profile)
			arenaGroup.GET("/leaderboard", h.leaderboard)
		}

		journeyGroup := api.Group("/journey")
		{
			journeyGroup.GET("/map", h.journeyMap)
			journeyGroup.POST("/start", h.startLevel)
			journeyGroup.POST("/complete", h.completeLevel)
		}
	}

	return router
}

// currentUser pulls the authenticated user id or aborts with 401.
func (h *Handler) currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

// respondError maps service errors onto HTTP statuses. Raw AI output and
// internal error details never reach the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidTopic), errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrLevelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAINotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI backend is not configured"})
	case errors.Is(err, models.ErrMalformedAIResponse), errors.Is(err, ai.ErrGenerationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed, please retry"})
	default:
		h.logger.Error("Unhandled service error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
