package aboutme

import (
	"errors"
	"time"
)

// AboutMe is a single-row document: at most one record ever exists.
type AboutMe struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

var ErrNotFound = errors.New("about me text not found")

type UpdateAboutMeRequest struct {
	Text string `json:"text" binding:"required,min=1,max=20000"`
}
