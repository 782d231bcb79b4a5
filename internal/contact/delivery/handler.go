package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"eventdesk-backend/internal/contact/domain"
	"eventdesk-backend/internal/contact/usecase"
	"eventdesk-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// ContactHandler serves the address book and mailing lists
type ContactHandler struct {
	contactUsecase usecase.ContactUsecase
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactUsecase usecase.ContactUsecase) *ContactHandler {
	return &ContactHandler{contactUsecase: contactUsecase}
}

func writeError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "problems": verr.Problems})
	case errors.Is(err, domain.ErrListNotFound), errors.Is(err, domain.ErrContactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrCSVMissingColumns),
		errors.Is(err, usecase.ErrCSVTooShort),
		errors.Is(err, usecase.ErrListNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetContacts returns every contact, or the members of one list
// GET /api/contacts?list_id=...
func (h *ContactHandler) GetContacts(c *gin.Context) {
	contacts, err := h.contactUsecase.ListContacts(c.Query("list_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"total":    len(contacts),
	})
}

// SearchContacts ranks contacts by fuzzy similarity to q
// GET /api/contacts/search?q=...&limit=10
func (h *ContactHandler) SearchContacts(c *gin.Context) {
	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	c.JSON(http.StatusOK, gin.H{"contacts": h.contactUsecase.Search(c.Query("q"), limit)})
}

// CreateContact adds a contact, optionally to a list
// POST /api/contacts?list_id=...
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req domain.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.contactUsecase.AddContact(c.Query("list_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// GetMailingLists returns every mailing list
// GET /api/lists
func (h *ContactHandler) GetMailingLists(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"lists": h.contactUsecase.ListMailingLists()})
}

// CreateMailingList creates an empty mailing list
// POST /api/lists
func (h *ContactHandler) CreateMailingList(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.contactUsecase.AddMailingList(req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, list)
}

// ImportContacts merges an uploaded CSV into a list
// POST /api/lists/:id/import  (multipart, field "file")
func (h *ContactHandler) ImportContacts(c *gin.Context) {
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

	result, err := h.contactUsecase.Import(c.Param("id"), f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
