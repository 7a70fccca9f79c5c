package service

import (
	"context"
	"fmt"
	"strings"

	"codequest-server/internal/ai"
	"codequest-server/internal/models"
	"codequest-server/internal/repository"
	"codequest-server/internal/schemas"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TutorService answers free-form questions in a Socratic style and keeps
// the exchange history per user.
type TutorService struct {
	interactions repository.TutorInteractionRepository
	aiClient     ai.Client
	logger       *zap.Logger
}

// NewTutorService creates a new TutorService.
func NewTutorService(interactions repository.TutorInteractionRepository, aiClient ai.Client, logger *zap.Logger) *TutorService {
	return &TutorService{
		interactions: interactions,
		aiClient:     aiClient,
		logger:       logger.Named("TutorService"),
	}
}

// Ask sends the question to the tutor and persists the exchange. A failed
// history write does not lose the answer; the user still gets it.
func (s *TutorService) Ask(ctx context.Context, userID uuid.UUID, subject, question string) (*models.TutorInteraction, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", models.ErrInvalidInput)
	}

	userInput := question
	if subject = strings.TrimSpace(subject); subject != "" {
		userInput = fmt.Sprintf("Subject: %s\n\n%s", subject, question)
	}

	answer, err := s.aiClient.GenerateText(ctx, schemas.TutorSystemPrompt, userInput, schemas.TutorTemperature)
	if err != nil {
		return nil, err
	}

	interaction := &models.TutorInteraction{
		UserID:   userID,
		Subject:  subject,
		Question: question,
		Answer:   answer,
	}
	if err := s.interactions.Create(ctx, interaction); err != nil {
		s.logger.Warn("Failed to persist tutor interaction", zap.Stringer("userID", userID), zap.Error(err))
	}
	return interaction, nil
}

// History returns the user's most recent exchanges, newest first.
func (s *TutorService) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.TutorInteraction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.interactions.ListByUser(ctx, userID, limit)
}
