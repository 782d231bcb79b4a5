package delivery

import (
	"encoding/json"
	"io"
	"net/http"

	"eventdesk-backend/internal/mail/usecase"

	"github.com/gin-gonic/gin"
)

// bulkForm is the multipart form shared by preview and send:
// template_id, file (the CSV) and an optional JSON mapping
func (h *MailHandler) bulkForm(c *gin.Context, run func(templateID string, csv io.Reader, mapping usecase.ColumnMapping)) {
	templateID := c.PostForm("template_id")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template_id is required"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	var mapping usecase.ColumnMapping
	if raw := c.PostForm("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mapping must be a JSON object"})
			return
		}
	}

	run(templateID, f, mapping)
}

// PreviewBulk renders every message of a bulk send without sending.
// Without a mapping, headers matching placeholder names are mapped.
// POST /api/bulk/preview
func (h *MailHandler) PreviewBulk(c *gin.Context) {
	h.bulkForm(c, func(templateID string, csv io.Reader, mapping usecase.ColumnMapping) {
		preview, err := h.bulk.Preview(templateID, csv, mapping)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, preview)
	})
}

// SendBulk sends one personalized message per CSV row
// POST /api/bulk/send
func (h *MailHandler) SendBulk(c *gin.Context) {
	h.bulkForm(c, func(templateID string, csv io.Reader, mapping usecase.ColumnMapping) {
		sent, err := h.bulk.Send(templateID, csv, mapping)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"messages": sent,
			"count":    len(sent),
		})
	})
}

// GenerateBulkDraft asks the AI for a bulk subject and body
// POST /api/bulk/generate
func (h *MailHandler) GenerateBulkDraft(c *gin.Context) {
	var req struct {
		Instruction string `json:"instruction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.drafter.GenerateBulkDraft(c.Request.Context(), req.Instruction)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}
