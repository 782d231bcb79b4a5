package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every endpoint under /api
func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// SSE endpoint: state_changed and notification events
		api.GET("/events", h.sseManager.ServeHTTP)

		// Workspace state and raw actions
		api.GET("/state", h.GetState)
		api.POST("/actions", h.DispatchAction)
		api.PUT("/view", h.SetView)
		api.PUT("/selection", h.SetSelection)
		api.PUT("/filters", h.SetFilters)
		api.GET("/tags", h.GetTags)
		api.PUT("/user", h.SetCurrentUser)
		api.GET("/notifications", h.GetNotifications)
		api.DELETE("/notifications/:id", h.DismissNotification)

		mail := h.mailHandler

		// Inbound email, triage and the reply workflow
		emails := api.Group("/emails")
		{
			emails.GET("", mail.GetInbox)
			emails.POST("", mail.ReceiveEmail)
			emails.POST("/eml", mail.ImportEML)
			emails.PATCH("/status", mail.BulkUpdateStatus)
			emails.GET("/:id", mail.GetEmailByID)
			emails.GET("/:id/eml", mail.ExportEML)
			emails.PATCH("/:id/status", mail.UpdateStatus)
			emails.POST("/:id/analyze", mail.Analyze)
			emails.GET("/:id/draft", mail.GetDraft)
			emails.PUT("/:id/draft", mail.SaveDraft)
			emails.DELETE("/:id/draft", mail.DiscardDraft)
			emails.POST("/:id/workflow/:step", mail.Workflow)
			emails.POST("/:id/reply", mail.SendReply)
			emails.POST("/:id/reply/generate", mail.GenerateReply)
		}

		sent := api.Group("/sent")
		{
			sent.GET("", mail.GetSent)
			sent.POST("", mail.Compose)
			sent.GET("/:id", mail.GetSentByID)
		}

		api.GET("/threads/:id", mail.GetThread)

		search := api.Group("/search")
		{
			search.POST("/ai", mail.AISearch)
			search.DELETE("/ai", mail.ClearAISearch)
		}

		// Personalized bulk sends from a template and a CSV
		bulk := api.Group("/bulk")
		{
			bulk.POST("/preview", mail.PreviewBulk)
			bulk.POST("/send", mail.SendBulk)
			bulk.POST("/generate", mail.GenerateBulkDraft)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", h.taskHandler.GetTasks)
			tasks.POST("", h.taskHandler.CreateTask)
			tasks.POST("/from-email/:emailId/:index", h.taskHandler.AcceptSuggestion)
			tasks.GET("/:id", h.taskHandler.GetTaskByID)
			tasks.PUT("/:id", h.taskHandler.UpdateTask)
			tasks.DELETE("/:id", h.taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", h.taskHandler.UpdateTaskStatus)
		}

		contacts := api.Group("/contacts")
		{
			contacts.GET("", h.contactHandler.GetContacts)
			contacts.POST("", h.contactHandler.CreateContact)
			contacts.GET("/search", h.contactHandler.SearchContacts)
		}

		lists := api.Group("/lists")
		{
			lists.GET("", h.contactHandler.GetMailingLists)
			lists.POST("", h.contactHandler.CreateMailingList)
			lists.POST("/:id/import", h.contactHandler.ImportContacts)
		}

		templates := api.Group("/templates")
		{
			templates.GET("", h.templateHandler.GetTemplates)
			templates.POST("", h.templateHandler.CreateTemplate)
			templates.POST("/generate", h.templateHandler.GenerateTemplate)
			templates.POST("/tags", h.templateHandler.GenerateTags)
			templates.GET("/:id", h.templateHandler.GetTemplateByID)
			templates.PUT("/:id", h.templateHandler.UpdateTemplate)
			templates.DELETE("/:id", h.templateHandler.DeleteTemplate)
			templates.GET("/:id/render", h.templateHandler.RenderTemplate)
		}

		// Event profile and runtime AI configuration
		settings := api.Group("/settings")
		{
			settings.GET("", h.GetAppSettings)
			settings.PUT("", h.UpdateAppSettings)
			settings.GET("/ollama", h.GetOllamaSettings)
			settings.PUT("/ollama", h.UpdateOllamaSettings)
			settings.POST("/ollama/test", h.TestOllamaConnection)
		}
	}
}
