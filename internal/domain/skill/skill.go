package skill

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListSkillsFilter struct {
	Category *string
	Search   *string
	Limit    int
	Offset   int
}

var (
	ErrNotFound      = errors.New("skill not found")
	ErrAlreadyExists = errors.New("skill name already exists")
)

type CreateSkillRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Category    string `json:"category" binding:"omitempty,max=100"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	ImageURL    string `json:"image_url" binding:"omitempty,url,max=500"`
	Order       *int   `json:"order" binding:"omitempty,min=1"`
}

type UpdateSkillRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url" binding:"omitempty,url,max=500"`
	Order       *int    `json:"order" binding:"omitempty,min=1"`
}

func NewFromCreateRequest(req CreateSkillRequest) Skill {
	return Skill{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}
}
