package models

// Question is one generated quiz question. The AI is instructed to return
// exactly this shape; missing fields are tolerated with defensive defaults
// at answer-validation time.
type Question struct {
	ID                int      `json:"id"`
	Text              string   `json:"text"`
	Options           []string `json:"options"`
	CorrectIndex      int      `json:"correct_index"`
	FeedbackCorrect   string   `json:"feedback_correct"`
	FeedbackIncorrect string   `json:"feedback_incorrect"`
	Explanation       string   `json:"explanation"`
}

// Quiz is the parsed result of one generation. Ephemeral: quiz content is
// never persisted, only outcomes are.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// AnswerReview is the verdict for a single submitted answer.
type AnswerReview struct {
	IsCorrect         bool   `json:"is_correct"`
	Feedback          string `json:"feedback"`
	Explanation       string `json:"explanation"`
	CorrectAnswerText string `json:"correct_answer_text"`
}
