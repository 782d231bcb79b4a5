package api

import (
	"context"
	"net/http"
	"time"

	"eventdesk-backend/internal/assist"
	contactDelivery "eventdesk-backend/internal/contact/delivery"
	contactUsecasePkg "eventdesk-backend/internal/contact/usecase"
	mailDelivery "eventdesk-backend/internal/mail/delivery"
	mailUsecasePkg "eventdesk-backend/internal/mail/usecase"
	"eventdesk-backend/internal/notification"
	"eventdesk-backend/internal/state"
	taskDelivery "eventdesk-backend/internal/task/delivery"
	taskUsecasePkg "eventdesk-backend/internal/task/usecase"
	templateDelivery "eventdesk-backend/internal/template/delivery"
	templateUsecasePkg "eventdesk-backend/internal/template/usecase"
	"eventdesk-backend/pkg/ai"
	"eventdesk-backend/pkg/chroma"
	"eventdesk-backend/pkg/config"
	"eventdesk-backend/pkg/i18n"
	"eventdesk-backend/pkg/sse"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler owns every HTTP handler and the background services behind them
type Handler struct {
	store        *state.Store
	translator   *i18n.Translator
	runtime      *RuntimeConfig
	providerName string
	sseManager   *sse.Manager
	config       *config.Config

	mailHandler     *mailDelivery.MailHandler
	taskHandler     *taskDelivery.TaskHandler
	contactHandler  *contactDelivery.ContactHandler
	templateHandler *templateDelivery.TemplateHandler

	analysisWorker *assist.AnalysisWorker
	notifications  *notification.Service
	stopIndexer    func()
}

// NewHandler wires usecases, the AI collaborator and the background workers
// around store. AI and Chroma failures are logged; the server still starts
// and AI features answer 503.
func NewHandler(ctx context.Context, cfg *config.Config, store *state.Store, translator *i18n.Translator, sseManager *sse.Manager) *Handler {
	runtime := NewRuntimeConfig(cfg.OllamaBaseURL, cfg.OllamaModel)

	// Ollama reads the runtime config so the settings API takes effect immediately
	gen, err := ai.NewGenerator(ctx, ai.Config{
		Provider:        ai.ProviderType(cfg.Provider),
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiModel:     cfg.GeminiModel,
		OllamaBaseURLFn: runtime.BaseURL,
		OllamaModelFn:   runtime.Model,
		Timeout:         cfg.AIConfig.Timeout,
	})
	providerName := "none"
	if err != nil {
		logrus.Warnf("[API] Failed to initialize AI provider: %v. AI features will not be available.", err)
	} else {
		providerName = gen.Name()
		logrus.Infof("[API] AI provider initialized: %s", providerName)
	}

	var collaborator ai.Collaborator = ai.NewAssistant(gen)
	stopIndexer := func() {}
	if cfg.ChromaEnabled() {
		index, err := chroma.NewIndex(ctx, chroma.Config{
			APIKey:       cfg.ChromaConfig.APIKey,
			Tenant:       cfg.Tenant,
			Database:     cfg.Database,
			GeminiAPIKey: cfg.GeminiAPIKey,
		})
		if err != nil {
			logrus.Warnf("[API] Failed to initialize Chroma: %v. AI search uses the model only.", err)
		} else {
			collaborator = ai.WithSemanticSearch(collaborator, index)
			stopIndexer = assist.NewIndexer(index).Watch(store)
			logrus.Info("[API] Chroma semantic index initialized")
		}
	} else {
		logrus.Info("[API] CHROMA_API_KEY not set. AI search uses the model only.")
	}

	inboxUc := mailUsecasePkg.NewInboxUsecase(store, translator, nil)
	replyUc := mailUsecasePkg.NewReplyUsecase(store, translator)
	bulkUc := mailUsecasePkg.NewBulkUsecase(store, translator)
	taskUc := taskUsecasePkg.NewTaskUsecase(store, translator, nil)
	contactUc := contactUsecasePkg.NewContactUsecase(store, translator, nil)
	templateUc := templateUsecasePkg.NewTemplateUsecase(store, translator, collaborator, nil)

	analysisWorker := assist.NewAnalysisWorker(store, collaborator, translator, cfg.AnalysisWorkers, cfg.RequestsPerMinute)
	analysisWorker.Start()
	if cfg.AutoAnalyze {
		analysisWorker.WatchInbox()
		logrus.Info("[API] New emails are analyzed automatically")
	}

	notifications := notification.NewService(sseManager)
	notifications.Start(store)

	return &Handler{
		store:        store,
		translator:   translator,
		runtime:      runtime,
		providerName: providerName,
		sseManager:   sseManager,
		config:       cfg,
		mailHandler: mailDelivery.NewMailHandler(
			inboxUc,
			replyUc,
			bulkUc,
			analysisWorker,
			assist.NewSearchCoordinator(store, collaborator, translator),
			assist.NewDrafting(store, collaborator, replyUc),
		),
		taskHandler:     taskDelivery.NewTaskHandler(taskUc),
		contactHandler:  contactDelivery.NewContactHandler(contactUc),
		templateHandler: templateDelivery.NewTemplateHandler(templateUc),
		analysisWorker:  analysisWorker,
		notifications:   notifications,
		stopIndexer:     stopIndexer,
	}
}

// corsMiddleware reflects the caller's origin so the SPA can use credentials
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Engine builds the gin engine with every route
func (h *Handler) Engine() *gin.Engine {
	if h.config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	SetupRoutes(r, h)
	return r
}

// requestLogger logs one line per request through logrus
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry.Warn(c.Errors.String())
			return
		}
		entry.Debug("[API] Request handled")
	}
}

// Close stops the background services started by NewHandler
func (h *Handler) Close() {
	h.analysisWorker.Stop()
	h.stopIndexer()
	h.notifications.Stop()
}
