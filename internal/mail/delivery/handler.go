package delivery

import (
	"context"
	"errors"
	"net/http"

	"eventdesk-backend/internal/assist"
	"eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/mail/usecase"
	tmpl "eventdesk-backend/internal/template/domain"
	"eventdesk-backend/pkg/ai"
	"eventdesk-backend/pkg/csvtable"
	"eventdesk-backend/pkg/eml"
	"eventdesk-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// Analyzer runs AI triage for one email on demand
type Analyzer interface {
	AnalyzeNow(ctx context.Context, emailID string) (*domain.Email, error)
}

// Searcher runs and clears the AI inbox search
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
	Clear()
}

// Drafter writes reply and bulk drafts with the AI collaborator
type Drafter interface {
	GenerateReply(ctx context.Context, emailID, instruction string) (*domain.Draft, error)
	GenerateBulkDraft(ctx context.Context, instruction string) (*ai.BulkDraft, error)
}

// MailHandler serves the inbox, the reply workflow and bulk sends
type MailHandler struct {
	inbox    usecase.InboxUsecase
	replies  usecase.ReplyUsecase
	bulk     usecase.BulkUsecase
	analyzer Analyzer
	searcher Searcher
	drafter  Drafter
}

// NewMailHandler creates a new MailHandler
func NewMailHandler(inbox usecase.InboxUsecase, replies usecase.ReplyUsecase, bulk usecase.BulkUsecase, analyzer Analyzer, searcher Searcher, drafter Drafter) *MailHandler {
	return &MailHandler{
		inbox:    inbox,
		replies:  replies,
		bulk:     bulk,
		analyzer: analyzer,
		searcher: searcher,
		drafter:  drafter,
	}
}

func writeError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "problems": verr.Problems})
	case errors.Is(err, domain.ErrEmailNotFound),
		errors.Is(err, domain.ErrSentNotFound),
		errors.Is(err, tmpl.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotApproved):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrNoDraft),
		errors.Is(err, eml.ErrNoSender),
		errors.Is(err, csvtable.ErrTooShort),
		errors.Is(err, usecase.ErrCSVMissingEmail),
		errors.Is(err, usecase.ErrMappingIncomplete),
		errors.Is(err, usecase.ErrNoRecipients),
		errors.Is(err, ai.ErrNoResult):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, assist.ErrAIUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetInbox returns the filtered inbox
// GET /api/emails
func (h *MailHandler) GetInbox(c *gin.Context) {
	emails := h.inbox.ListInbox()
	c.JSON(http.StatusOK, gin.H{
		"emails": emails,
		"total":  len(emails),
	})
}

// GetSent returns sent emails matching the current search term
// GET /api/sent
func (h *MailHandler) GetSent(c *gin.Context) {
	sent := h.inbox.ListSent()
	c.JSON(http.StatusOK, gin.H{
		"emails": sent,
		"total":  len(sent),
	})
}

// GetEmailByID returns one inbound email
// GET /api/emails/:id
func (h *MailHandler) GetEmailByID(c *gin.Context) {
	email, err := h.inbox.GetEmail(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

// GetSentByID returns one sent email
// GET /api/sent/:id
func (h *MailHandler) GetSentByID(c *gin.Context) {
	sent, err := h.inbox.GetSentEmail(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sent)
}

// GetThread returns every inbound and sent message of a thread, oldest first
// GET /api/threads/:id
func (h *MailHandler) GetThread(c *gin.Context) {
	items := h.inbox.Thread(c.Param("id"))
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ReceiveEmail ingests an inbound email
// POST /api/emails
func (h *MailHandler) ReceiveEmail(c *gin.Context) {
	var req domain.InboundInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, err := h.inbox.Receive(req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, email)
}

// ImportEML ingests a raw RFC 5322 message, either as the request body or
// as the "file" field of a multipart form
// POST /api/emails/eml
func (h *MailHandler) ImportEML(c *gin.Context) {
	body := c.Request.Body
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()
		body = f
	}

	email, err := h.inbox.ReceiveEML(body)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, email)
}

// ExportEML downloads an inbound or sent email as .eml
// GET /api/emails/:id/eml
func (h *MailHandler) ExportEML(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.inbox.GetEmail(id); err != nil {
		if _, err := h.inbox.GetSentEmail(id); err != nil {
			writeError(c, domain.ErrEmailNotFound)
			return
		}
	}

	c.Header("Content-Type", "message/rfc822")
	c.Header("Content-Disposition", `attachment; filename="`+id+`.eml"`)
	c.Status(http.StatusOK)
	if err := h.inbox.ExportEML(id, c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// UpdateStatus sets the status of one email
// PATCH /api/emails/:id/status
func (h *MailHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status domain.EmailStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, err := h.inbox.SetStatus(c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

// BulkUpdateStatus sets the status of several emails, or of the current
// bulk selection when no ids are given
// PATCH /api/emails/status
func (h *MailHandler) BulkUpdateStatus(c *gin.Context) {
	var req struct {
		EmailIDs []string           `json:"emailIds"`
		Status   domain.EmailStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.inbox.BulkSetStatus(req.EmailIDs, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": count})
}

// Compose sends a new message that does not answer an inbound email
// POST /api/sent
func (h *MailHandler) Compose(c *gin.Context) {
	var req domain.Outgoing
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sent, err := h.inbox.Compose(req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sent)
}
