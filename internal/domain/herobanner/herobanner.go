package herobanner

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Text is one rotating tagline on the landing-page hero banner.
type Text struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsActive  bool      `json:"isActive"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

type ListTextsFilter struct {
	Search   *string
	IsActive *bool
	Limit    int
	Offset   int
}

var (
	ErrNotFound      = errors.New("hero banner text not found")
	ErrAlreadyExists = errors.New("hero banner text already exists")
)

type CreateTextRequest struct {
	Text     string `json:"text" binding:"required,min=1,max=500"`
	IsActive *bool  `json:"isActive" binding:"omitempty"`
	Order    *int   `json:"order" binding:"omitempty,min=1"`
}

type UpdateTextRequest struct {
	Text     *string `json:"text" binding:"omitempty,min=1,max=500"`
	IsActive *bool   `json:"isActive" binding:"omitempty"`
	Order    *int    `json:"order" binding:"omitempty,min=1"`
}

func NewFromCreateRequest(req CreateTextRequest) Text {
	// new taglines default to active, matching what the admin UI expects
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return Text{
		ID:        uuid.NewString(),
		Text:      req.Text,
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
}
