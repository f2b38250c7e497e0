package project

import (
	"errors"
	"time"
)

type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Skills      []string  `json:"skills"`
	GithubLink  string    `json:"github_link,omitempty"`
	DemoLink    string    `json:"demo_link,omitempty"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

// with pointers if optional, it will be nil
type ListProjectsFilter struct {
	Search   *string
	Category *string
	Limit    int
	Offset   int
}

var (
	ErrNotFound      = errors.New("project not found")
	ErrAlreadyExists = errors.New("project title already exists")
)

type CreateProjectRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"omitempty,max=5000"`
	Skills      []string `json:"skills" binding:"omitempty,dive,min=1,max=100"`
	GithubLink  string   `json:"github_link" binding:"omitempty,url,max=500"`
	DemoLink    string   `json:"demo_link" binding:"omitempty,url,max=500"`
	Category    string   `json:"category" binding:"omitempty,max=100"`
	ImageURL    string   `json:"image_url" binding:"omitempty,url,max=500"`
	Order       *int     `json:"order" binding:"omitempty,min=1"`
}

// a partial payload, nil fields are left untouched.
type UpdateProjectRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string   `json:"description" binding:"omitempty,max=5000"`
	Skills      *[]string `json:"skills" binding:"omitempty,dive,min=1,max=100"`
	GithubLink  *string   `json:"github_link" binding:"omitempty,url,max=500"`
	DemoLink    *string   `json:"demo_link" binding:"omitempty,url,max=500"`
	Category    *string   `json:"category" binding:"omitempty,max=100"`
	ImageURL    *string   `json:"image_url" binding:"omitempty,url,max=500"`
	Order       *int      `json:"order" binding:"omitempty,min=1"`
}
