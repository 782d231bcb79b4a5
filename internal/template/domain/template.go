package domain

import (
	"errors"
	"time"
)

var ErrTemplateNotFound = errors.New("template not found")

// Template is a reusable message. Title doubles as the subject line when
// the template drives a bulk send; both may contain {{placeholder}} tokens.
type Template struct {
	ID             string    `json:"id" toml:"id"`
	Title          string    `json:"title" toml:"title"`
	Body           string    `json:"body" toml:"body"`
	Tags           []string  `json:"tags,omitempty" toml:"tags"`
	CreatedAt      time.Time `json:"createdAt" toml:"created_at"`
	CreatedBy      string    `json:"createdBy" toml:"created_by"`
	UpdatedAt      time.Time `json:"updatedAt" toml:"updated_at"`
	LastModifiedBy string    `json:"lastModifiedBy" toml:"last_modified_by"`
}

// TemplateInput holds the editable fields of a template
type TemplateInput struct {
	Title string   `json:"title" binding:"required"`
	Body  string   `json:"body" binding:"required"`
	Tags  []string `json:"tags"`
}

// NewTemplate creates a template authored by user at now
func NewTemplate(id string, in TemplateInput, user string, now time.Time) Template {
	return Template{
		ID:             id,
		Title:          in.Title,
		Body:           in.Body,
		Tags:           in.Tags,
		CreatedAt:      now,
		CreatedBy:      user,
		UpdatedAt:      now,
		LastModifiedBy: user,
	}
}

// Edit returns t with in applied and the audit fields moved forward.
// Creation fields are kept.
func (t Template) Edit(in TemplateInput, user string, now time.Time) Template {
	t.Title = in.Title
	t.Body = in.Body
	t.Tags = in.Tags
	t.UpdatedAt = now
	t.LastModifiedBy = user
	return t
}
