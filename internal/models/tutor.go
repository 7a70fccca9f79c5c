package models

import (
	"time"

	"github.com/google/uuid"
)

// TutorInteraction is one stored question/answer exchange with the tutor.
type TutorInteraction struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Subject   string    `json:"subject" db:"subject"`
	Question  string    `json:"question" db:"question"`
	Answer    string    `json:"answer" db:"answer"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
