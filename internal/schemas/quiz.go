package schemas

import (
	"fmt"

	"codequest-server/internal/ai"
)

// QuizTemperature leaves some room for question variety between runs.
const QuizTemperature = 0.7

// QuizQuestionCount is how many questions one arena round contains.
const QuizQuestionCount = 3

// quizDifficultyFraming maps the API-level difficulty to the framing the
// prompt uses. Anything unrecognized gets the intermediate framing.
var quizDifficultyFraming = map[string]string{
	"easy":   "beginner-friendly, testing fundamentals",
	"medium": "intermediate, testing applied understanding",
	"hard":   "advanced, testing edge cases and real failure scenarios",
}

// QuizSystemPrompt is the Game Master instruction for quiz generation.
const QuizSystemPrompt = "You are a Tech Game Master. You create short gamified quizzes for " +
	"developers. Return ONLY raw JSON matching the requested shape. Do not use markdown " +
	"code fences."

// BuildQuizUserInput renders the quiz request for a topic and difficulty.
func BuildQuizUserInput(topic, difficulty string) string {
	framing, ok := quizDifficultyFraming[difficulty]
	if !ok {
		framing = quizDifficultyFraming["medium"]
	}
	return fmt.Sprintf(
		"Generate a quiz of %d questions about: '%s'.\n"+
			"Difficulty: %s.\n\n"+
			"REQUIRED RESPONSE FORMAT (RAW JSON):\n"+
			"{\n"+
			"  \"questions\": [\n"+
			"    {\n"+
			"      \"id\": 1,\n"+
			"      \"text\": \"Technical question here\",\n"+
			"      \"options\": [\"Option A\", \"Option B\", \"Option C\", \"Option D\"],\n"+
			"      \"correct_index\": 0,\n"+
			"      \"feedback_correct\": \"Short celebratory message with tech slang\",\n"+
			"      \"feedback_incorrect\": \"Short playful message about the mistake\",\n"+
			"      \"explanation\": \"Brief technical explanation\"\n"+
			"    }\n"+
			"  ]\n"+
			"}\n\n"+
			"CRITICAL RULES:\n"+
			"1. Return ONLY valid JSON.\n"+
			"2. Each question has exactly 4 options and a 0-based correct_index.",
		QuizQuestionCount, topic, framing,
	)
}

// QuizSchema constrains structured-output backends to the quiz shape.
var QuizSchema = &ai.Schema{
	Name: "generate_quiz",
	Definition: map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"questions": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]interface{}{
						"id":                 map[string]interface{}{"type": "integer"},
						"text":               map[string]interface{}{"type": "string"},
						"options":            map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "minItems": 4, "maxItems": 4},
						"correct_index":      map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 3},
						"feedback_correct":   map[string]interface{}{"type": "string"},
						"feedback_incorrect": map[string]interface{}{"type": "string"},
						"explanation":        map[string]interface{}{"type": "string"},
					},
					"required": []string{"id", "text", "options", "correct_index", "feedback_correct", "feedback_incorrect", "explanation"},
				},
			},
		},
		"required": []string{"questions"},
	},
}

// TutorTemperature allows conversational variety in tutor answers.
const TutorTemperature = 0.7

// TutorSystemPrompt drives the chat-style pedagogical answers. The tutor
// guides instead of handing out solutions.
const TutorSystemPrompt = "You are a Socratic tutor for software developers. Never give the " +
	"direct answer. Guide the student with questions, hints and small steps so they reach the " +
	"answer themselves."
