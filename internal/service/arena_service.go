package service

import (
	"context"
	"encoding/json"
	"fmt"

	"codequest-server/internal/ai"
	"codequest-server/internal/models"
	"codequest-server/internal/schemas"
	"codequest-server/internal/topic"

	"go.uber.org/zap"
)

// ArenaService generates quizzes for free-form topics and validates
// submitted answers. Quiz content is ephemeral; only outcomes are persisted
// (by ProgressionService).
type ArenaService struct {
	aiClient ai.Client
	logger   *zap.Logger
}

// NewArenaService creates a new ArenaService.
func NewArenaService(aiClient ai.Client, logger *zap.Logger) *ArenaService {
	return &ArenaService{
		aiClient: aiClient,
		logger:   logger.Named("ArenaService"),
	}
}

// GenerateQuiz produces a quiz for the topic at the given difficulty. The
// topic is validated before anything reaches a prompt; the model response
// goes through the JSON repair pipeline and a shape check before it is
// returned. Raw model output is never forwarded to the caller.
func (s *ArenaService) GenerateQuiz(ctx context.Context, rawTopic, difficulty string) (*models.Quiz, error) {
	if err := topic.ValidateQuizTopic(rawTopic); err != nil {
		return nil, err
	}
	return s.generate(ctx, topic.Normalize(rawTopic), difficulty)
}

// generate builds the quiz for an already-trusted topic. The journey
// service enters here directly: curriculum topics are compiled in and may
// contain punctuation the user-facing charset rejects.
func (s *ArenaService) generate(ctx context.Context, key, difficulty string) (*models.Quiz, error) {
	userInput := schemas.BuildQuizUserInput(key, difficulty)
	raw, err := s.aiClient.GenerateStructured(ctx, schemas.QuizSystemPrompt, userInput, schemas.QuizSchema, schemas.QuizTemperature)
	if err != nil {
		return nil, err
	}

	data, ok := ai.RepairJSON(raw)
	if !ok {
		s.logger.Warn("Quiz response unparseable after all repair strategies", zap.String("topic", key))
		return nil, models.ErrMalformedAIResponse
	}

	var quiz models.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil, models.ErrMalformedAIResponse
	}
	if len(quiz.Questions) == 0 {
		return nil, models.ErrMalformedAIResponse
	}

	s.logger.Info("Quiz generated",
		zap.String("topic", key),
		zap.String("difficulty", difficulty),
		zap.Int("questions", len(quiz.Questions)))
	return &quiz, nil
}

// ValidateAnswer scores one submitted answer against its question. The
// question came from an earlier generation and may have gaps, so every
// field falls back to a safe default instead of failing the round.
func (s *ArenaService) ValidateAnswer(question models.Question, answerIndex int) models.AnswerReview {
	correctIndex := question.CorrectIndex
	if correctIndex < 0 || correctIndex >= len(question.Options) {
		correctIndex = 0
	}

	correctText := ""
	if correctIndex < len(question.Options) {
		correctText = question.Options[correctIndex]
	}

	review := models.AnswerReview{
		IsCorrect:         answerIndex == correctIndex,
		Explanation:       question.Explanation,
		CorrectAnswerText: correctText,
	}
	if review.IsCorrect {
		review.Feedback = question.FeedbackCorrect
		if review.Feedback == "" {
			review.Feedback = "Correct!"
		}
	} else {
		review.Feedback = question.FeedbackIncorrect
		if review.Feedback == "" {
			review.Feedback = fmt.Sprintf("Not quite. The correct answer was: %s", correctText)
		}
	}
	return review
}
