package logger

import (
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// Options configures the process-wide logger
type Options struct {
	Level     string
	Format    string // "text" or "json"
	SentryDSN string
	Env       string
}

// Init configures logrus and, when a DSN is given, the Sentry client.
// It returns a flush function to call on shutdown.
func Init(opts Options) func() {
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(opts.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if opts.SentryDSN == "" {
		return func() {}
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.SentryDSN,
		Environment: opts.Env,
	}); err != nil {
		logrus.WithError(err).Warn("[Logger] Sentry disabled")
		return func() {}
	}
	logrus.Info("[Logger] Sentry initialized")

	return func() { sentry.Flush(2 * time.Second) }
}

// LogError logs errors with structured context to both console and Sentry
func LogError(errorType string, err error, context map[string]interface{}) {
	log := logrus.WithFields(logrus.Fields{
		"error_type": errorType,
		"error":      err.Error(),
	})
	for k, v := range context {
		log = log.WithField(k, v)
	}
	log.Error("Error occurred")

	capture(errorType, err, context)
}

// LogDegraded records a failure the application recovers from on its own,
// such as an AI collaborator that produced no usable answer
func LogDegraded(errorType string, err error, context map[string]interface{}) {
	log := logrus.WithFields(logrus.Fields{
		"error_type": errorType,
		"error":      err.Error(),
	})
	for k, v := range context {
		log = log.WithField(k, v)
	}
	log.Warn("Degraded: continuing without result")

	capture(errorType, err, context)
}

// LogEvent logs events with structured context and leaves a Sentry breadcrumb
func LogEvent(eventType string, data map[string]interface{}) {
	log := logrus.WithFields(logrus.Fields{
		"event_type": eventType,
	})
	for k, v := range data {
		log = log.WithField(k, v)
	}
	log.Debug("Event occurred")

	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "info",
		Category:  eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func capture(errorType string, err error, context map[string]interface{}) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_type", errorType)
		for k, v := range context {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}
