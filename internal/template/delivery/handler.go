package delivery

import (
	"errors"
	"net/http"

	"eventdesk-backend/internal/assist"
	mail "eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/template/domain"
	"eventdesk-backend/internal/template/usecase"
	"eventdesk-backend/pkg/ai"

	"github.com/gin-gonic/gin"
)

// TemplateHandler serves message templates
type TemplateHandler struct {
	templateUsecase usecase.TemplateUsecase
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templateUsecase usecase.TemplateUsecase) *TemplateHandler {
	return &TemplateHandler{templateUsecase: templateUsecase}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTemplateNotFound), errors.Is(err, mail.ErrEmailNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrTitleBodyRequired), errors.Is(err, ai.ErrNoResult):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, assist.ErrAIUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetTemplates returns every template, or those matching q best first
// GET /api/templates?q=...
func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	templates := h.templateUsecase.ListTemplates(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"total":     len(templates),
	})
}

// GetTemplateByID returns one template
// GET /api/templates/:id
func (h *TemplateHandler) GetTemplateByID(c *gin.Context) {
	t, err := h.templateUsecase.GetTemplate(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// CreateTemplate saves a new template
// POST /api/templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req domain.TemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.templateUsecase.CreateTemplate(req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// UpdateTemplate replaces title, body and tags of a template
// PUT /api/templates/:id
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req domain.TemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.templateUsecase.UpdateTemplate(c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// DeleteTemplate removes a template
// DELETE /api/templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.templateUsecase.DeleteTemplate(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// RenderTemplate fills placeholders. With email_id the template is rendered
// as a reply to that email; otherwise name and email address the recipient.
// GET /api/templates/:id/render?email_id=...|name=...&email=...
func (h *TemplateHandler) RenderTemplate(c *gin.Context) {
	id := c.Param("id")

	var (
		body string
		err  error
	)
	if emailID := c.Query("email_id"); emailID != "" {
		body, err = h.templateUsecase.RenderForEmail(id, emailID)
	} else {
		var to *domain.Recipient
		if name, email := c.Query("name"), c.Query("email"); name != "" || email != "" {
			to = &domain.Recipient{Name: name, Email: email}
		}
		body, err = h.templateUsecase.Render(id, to)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"body": body})
}

// GenerateTemplate asks the AI for a new template. Nothing is saved.
// POST /api/templates/generate
func (h *TemplateHandler) GenerateTemplate(c *gin.Context) {
	var req struct {
		Instruction string `json:"instruction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.templateUsecase.GenerateDraft(c.Request.Context(), req.Instruction)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// GenerateTags asks the AI for tags describing a title and body
// POST /api/templates/tags
func (h *TemplateHandler) GenerateTags(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tags, err := h.templateUsecase.GenerateTags(c.Request.Context(), req.Title, req.Body)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
