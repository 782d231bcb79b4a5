package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Analyze runs AI triage for one email now instead of waiting for the worker
// POST /api/emails/:id/analyze
func (h *MailHandler) Analyze(c *gin.Context) {
	email, err := h.analyzer.AnalyzeNow(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

// AISearch restricts the inbox to the emails the AI ranks relevant.
// A blank query clears the search.
// POST /api/search/ai
func (h *MailHandler) AISearch(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ids, err := h.searcher.Search(c.Request.Context(), req.Query)
	if err != nil {
		writeError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"ids":    ids,
		"emails": h.inbox.ListInbox(),
	})
}

// ClearAISearch drops the AI search and shows the whole inbox again
// DELETE /api/search/ai
func (h *MailHandler) ClearAISearch(c *gin.Context) {
	h.searcher.Clear()
	c.JSON(http.StatusOK, gin.H{"message": "AI search cleared"})
}
