package news

import (
	"time"

	"powerise-api/internal/query"
)

type Category string

const (
	CategoryEnergy         Category = "ENERGY"
	CategoryInfrastructure Category = "INFRASTRUCTURE"
	CategoryEnvironment    Category = "ENVIRONMENT"
	CategoryConsulting     Category = "CONSULTING"
	CategoryCompany        Category = "COMPANY"
	CategoryGeneral        Category = "GENERAL"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// Schema is the list contract for news. Limit defaults to 10, at most 100.
var Schema = query.Schema{
	DefaultLimit: 10,
	MaxLimit:     100,
	Categories: []string{
		string(CategoryEnergy), string(CategoryInfrastructure), string(CategoryEnvironment),
		string(CategoryConsulting), string(CategoryCompany), string(CategoryGeneral),
	},
	Statuses: []string{string(StatusDraft), string(StatusPublished), string(StatusArchived)},
}

type Author struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

type News struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content,omitempty"`
	Excerpt         string     `json:"excerpt,omitempty"`
	FeaturedImage   string     `json:"featuredImage,omitempty"`
	Category        Category   `json:"category"`
	Status          Status     `json:"status"`
	PublishedAt     *time.Time `json:"publishedAt"`
	Tags            []string   `json:"tags,omitempty"`
	MetaTitle       string     `json:"metaTitle,omitempty"`
	MetaDescription string     `json:"metaDescription,omitempty"`
	Author          Author     `json:"author"`
	AuthorID        string     `json:"authorId,omitempty"`
	Views           int64      `json:"views"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (n News) ItemCategory() string { return string(n.Category) }
func (n News) ItemStatus() string   { return string(n.Status) }

// CreateRequest is the admin create payload.
type CreateRequest struct {
	Title           string   `json:"title" binding:"required,min=1,max=200"`
	Slug            string   `json:"slug" binding:"required,min=1,max=250"`
	Content         string   `json:"content" binding:"required"`
	Excerpt         string   `json:"excerpt" binding:"omitempty,max=500"`
	FeaturedImage   string   `json:"featuredImage" binding:"omitempty,max=500"`
	Category        Category `json:"category" binding:"required,oneof=ENERGY INFRASTRUCTURE ENVIRONMENT CONSULTING COMPANY GENERAL"`
	Status          Status   `json:"status" binding:"required,oneof=DRAFT PUBLISHED ARCHIVED"`
	PublishedAt     string   `json:"publishedAt" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Tags            []string `json:"tags"`
	MetaTitle       string   `json:"metaTitle" binding:"omitempty,max=200"`
	MetaDescription string   `json:"metaDescription" binding:"omitempty,max=300"`
}
