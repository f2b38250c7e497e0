package project

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateProjectRequest) Project {
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}

	return Project{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Skills:      skills,
		GithubLink:  req.GithubLink,
		DemoLink:    req.DemoLink,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}
}
