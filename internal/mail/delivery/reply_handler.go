package delivery

import (
	"net/http"

	"eventdesk-backend/internal/mail/domain"

	"github.com/gin-gonic/gin"
)

// GetDraft returns the saved draft, or a fresh reply scaffold
// GET /api/emails/:id/draft
func (h *MailHandler) GetDraft(c *gin.Context) {
	draft, err := h.replies.DefaultReply(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// SaveDraft stores the reply draft and moves the email into Drafting
// PUT /api/emails/:id/draft
func (h *MailHandler) SaveDraft(c *gin.Context) {
	var req domain.Draft
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, err := h.replies.SaveDraft(c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

// DiscardDraft deletes the reply draft
// DELETE /api/emails/:id/draft
func (h *MailHandler) DiscardDraft(c *gin.Context) {
	email, err := h.replies.DiscardDraft(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

// Workflow moves the reply through review
// POST /api/emails/:id/workflow/:step  (submit, send-back, approve)
func (h *MailHandler) Workflow(c *gin.Context) {
	id := c.Param("id")

	var (
		email *domain.Email
		err   error
	)
	switch c.Param("step") {
	case "submit":
		email, err = h.replies.SubmitForReview(id)
	case "send-back":
		email, err = h.replies.SendBack(id)
	case "approve":
		email, err = h.replies.Approve(id)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown workflow step"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

// SendReply sends the saved draft, or the draft in the body if one is given
// POST /api/emails/:id/reply
func (h *MailHandler) SendReply(c *gin.Context) {
	var override *domain.Draft
	if c.Request.ContentLength > 0 {
		var req domain.Draft
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		override = &req
	}

	sent, err := h.replies.SendReply(c.Param("id"), override)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sent)
}

// GenerateReply asks the AI for a reply draft. The draft is returned, not saved.
// POST /api/emails/:id/reply/generate
func (h *MailHandler) GenerateReply(c *gin.Context) {
	var req struct {
		Instruction string `json:"instruction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.drafter.GenerateReply(c.Request.Context(), c.Param("id"), req.Instruction)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}
