package blogpost

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	PublicationDate time.Time `json:"publication_date"`
	Tags            []string  `json:"tags"`
	MetaDescription string    `json:"meta_description,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
}

type ListPostsFilter struct {
	Search *string
	Tag    *string
	Limit  int
	Offset int
}

var (
	ErrNotFound      = errors.New("blog post not found")
	ErrAlreadyExists = errors.New("blog post title already exists")
)

type CreatePostRequest struct {
	Title           string     `json:"title" binding:"required,min=1,max=200"`
	Content         string     `json:"content" binding:"required,min=1"`
	PublicationDate *time.Time `json:"publication_date" binding:"omitempty"`
	Tags            []string   `json:"tags" binding:"omitempty,dive,min=1,max=50"`
	MetaDescription string     `json:"meta_description" binding:"omitempty,max=300"`
	ImageURL        string     `json:"image_url" binding:"omitempty,url,max=500"`
}

type UpdatePostRequest struct {
	Title           *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Content         *string    `json:"content" binding:"omitempty,min=1"`
	PublicationDate *time.Time `json:"publication_date" binding:"omitempty"`
	Tags            *[]string  `json:"tags" binding:"omitempty,dive,min=1,max=50"`
	MetaDescription *string    `json:"meta_description" binding:"omitempty,max=300"`
	ImageURL        *string    `json:"image_url" binding:"omitempty,url,max=500"`
}

func NewFromCreateRequest(req CreatePostRequest) Post {
	published := time.Now().UTC()
	if req.PublicationDate != nil {
		published = req.PublicationDate.UTC()
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	return Post{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Content:         req.Content,
		PublicationDate: published,
		Tags:            tags,
		MetaDescription: req.MetaDescription,
		ImageURL:        req.ImageURL,
	}
}
