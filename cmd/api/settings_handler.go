package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	settings "eventdesk-backend/internal/settings/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/ai"

	"github.com/gin-gonic/gin"
)

// RuntimeConfig holds the Ollama endpoint, which can be changed while the
// server runs. The Ollama provider reads it on every request.
type RuntimeConfig struct {
	mu            sync.RWMutex
	OllamaBaseURL string `json:"ollama_base_url"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

// NewRuntimeConfig seeds the runtime config from static config
func NewRuntimeConfig(ollamaBaseURL, ollamaModel string) *RuntimeConfig {
	return &RuntimeConfig{OllamaBaseURL: ollamaBaseURL, OllamaModel: ollamaModel}
}

// BaseURL returns the current Ollama base URL
func (r *RuntimeConfig) BaseURL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.OllamaBaseURL
}

// Model returns the current Ollama model
func (r *RuntimeConfig) Model() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.OllamaModel
}

func (r *RuntimeConfig) set(baseURL, model string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.OllamaBaseURL = baseURL
	if model != "" {
		r.OllamaModel = model
	}
}

// UpdateOllamaSettingsRequest represents the request body for updating Ollama settings
type UpdateOllamaSettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required,url"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

// GetOllamaSettings returns current Ollama configuration
// GET /api/settings/ollama
func (h *Handler) GetOllamaSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ollama_base_url": h.runtime.BaseURL(),
		"ollama_model":    h.runtime.Model(),
		"provider":        h.providerName,
	})
}

// UpdateOllamaSettings updates Ollama configuration at runtime
// PUT /api/settings/ollama
func (h *Handler) UpdateOllamaSettings(c *gin.Context) {
	var req UpdateOllamaSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.runtime.set(req.OllamaBaseURL, req.OllamaModel)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Ollama settings updated successfully",
		"ollama_base_url": h.runtime.BaseURL(),
		"ollama_model":    h.runtime.Model(),
	})
}

// TestOllamaConnection tests if the Ollama server is reachable and lists
// the models it serves
// POST /api/settings/ollama/test
func (h *Handler) TestOllamaConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	// An empty body tests the current config
	_ = c.ShouldBindJSON(&req)
	if req.OllamaBaseURL == "" {
		req.OllamaBaseURL = h.runtime.BaseURL()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	models, err := ai.NewOllamaService(req.OllamaBaseURL, h.runtime.Model()).Ping(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":       true,
		"ollama_base_url": req.OllamaBaseURL,
		"models":          models,
	})
}

// GetAppSettings returns the event profile used for replies and placeholders
// GET /api/settings
func (h *Handler) GetAppSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GetState().Settings)
}

// UpdateAppSettings applies a partial update of the event profile
// PUT /api/settings
func (h *Handler) UpdateAppSettings(c *gin.Context) {
	var patch settings.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.CommunicationStyle != nil && !patch.CommunicationStyle.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown communication style"})
		return
	}
	if patch.Empty() {
		c.JSON(http.StatusOK, h.store.GetState().Settings)
		return
	}

	next := h.store.DispatchAndGet(state.UpdateAppSettings{Patch: patch})
	h.store.Dispatch(state.AddNotification{Message: h.translator.T("settings_saved"), Kind: state.NotifySuccess})

	c.JSON(http.StatusOK, next.Settings)
}
