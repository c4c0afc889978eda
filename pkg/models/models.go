package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Comment is a user comment submitted for moderation.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	ParentID  uuid.UUID `json:"parent_id,omitempty"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Published time.Time `json:"published"`
}

type TextRequest struct {
	Text string `json:"text"`
}

type TextResponse struct {
	Text string `json:"text"`
}

type MessageRequest struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type DetectResponse struct {
	Detected bool `json:"detected"`
}
