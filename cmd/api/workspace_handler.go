package api

import (
	"net/http"
	"strconv"

	settings "eventdesk-backend/internal/settings/domain"
	"eventdesk-backend/internal/state"

	"github.com/gin-gonic/gin"
)

// GetState returns the whole workspace
// GET /api/state
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GetState())
}

// DispatchAction applies one action envelope and returns the new state.
// Unknown action types are accepted and change nothing.
// POST /api/actions
func (h *Handler) DispatchAction(c *gin.Context) {
	var env state.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := state.Decode(env)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.store.DispatchAndGet(action))
}

// SetView switches the top-level screen
// PUT /api/view
func (h *Handler) SetView(c *gin.Context) {
	var req struct {
		View    state.View         `json:"view"`
		SubView state.InboxSubView `json:"subView"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.View != "" {
		h.store.Dispatch(state.SetView{View: req.View})
	}
	if req.SubView != "" {
		h.store.Dispatch(state.SetInboxSubView{SubView: req.SubView})
	}

	s := h.store.GetState()
	c.JSON(http.StatusOK, gin.H{"view": s.View, "subView": s.InboxSubView})
}

// SetSelection sets the selected item and, when ids is present, the bulk selection
// PUT /api/selection
func (h *Handler) SetSelection(c *gin.Context) {
	var req struct {
		SelectedID *string  `json:"selectedId"`
		BulkIDs    []string `json:"bulkIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.Dispatch(state.SetSelectedItem{ID: req.SelectedID})
	if req.BulkIDs != nil {
		h.store.Dispatch(state.SetBulkSelectedIDs{IDs: req.BulkIDs})
	}

	s := h.store.GetState()
	c.JSON(http.StatusOK, gin.H{"selectedId": s.SelectedItemID, "bulkIds": s.BulkSelectedIDs})
}

// SetFilters updates any of the local inbox filters
// PUT /api/filters
func (h *Handler) SetFilters(c *gin.Context) {
	var req struct {
		Status     *string `json:"status"`
		Tag        *string `json:"tag"`
		SearchTerm *string `json:"searchTerm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != nil {
		h.store.Dispatch(state.SetFilterStatus{Status: *req.Status})
	}
	if req.Tag != nil {
		h.store.Dispatch(state.SetFilterTag{Tag: *req.Tag})
	}
	if req.SearchTerm != nil {
		h.store.Dispatch(state.SetSearchTerm{Term: *req.SearchTerm})
	}

	c.JSON(http.StatusOK, h.store.GetState().Filter)
}

// GetTags returns every AI tag in use, for the tag filter
// GET /api/tags
func (h *Handler) GetTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": h.store.GetState().Tags()})
}

// SetCurrentUser switches the acting collaborator
// PUT /api/user
func (h *Handler) SetCurrentUser(c *gin.Context) {
	var req settings.Collaborator
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := h.store.DispatchAndGet(state.SetCurrentUser{User: req})
	c.JSON(http.StatusOK, gin.H{"currentUser": s.CurrentUser, "collaborators": s.Collaborators})
}

// GetNotifications returns pending notifications, oldest first
// GET /api/notifications
func (h *Handler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.store.GetState().Notifications})
}

// DismissNotification removes one notification
// DELETE /api/notifications/:id
func (h *Handler) DismissNotification(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	h.store.Dispatch(state.RemoveNotification{ID: id})
	c.JSON(http.StatusOK, gin.H{"message": "Notification dismissed"})
}
