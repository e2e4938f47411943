package logger

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Fields represents structured log fields
type Fields map[string]interface{}

var (
	mu   sync.RWMutex
	base = zap.NewNop().Sugar()
)

// Init builds the process logger. Production mode emits JSON, anything else
// uses the human readable development encoder.
func Init(environment string) error {
	var cfg zap.Config
	switch strings.ToLower(environment) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.DisableStacktrace = true

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	SetLogger(z)
	return nil
}

// SetLogger replaces the process logger. Tests use it with zaptest/observer.
func SetLogger(z *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = z.Sugar()
}

// Sync flushes buffered entries
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithContext extracts request context for logging
func WithContext(c *gin.Context) Fields {
	return Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
}

// Info logs an informational message with structured fields
func Info(msg string, fields Fields) {
	current().Infow(msg, keysAndValues(fields)...)
	breadcrumb("info", msg, fields, sentry.LevelInfo)
}

// Error logs an error message with structured fields and sends to Sentry
func Error(msg string, err error, fields Fields) {
	kv := append(keysAndValues(fields), "error", err)
	current().Errorw(msg, kv...)

	if hub := sentry.CurrentHub(); hub.Client() != nil && err != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for key, value := range fields {
				scope.SetContext(key, map[string]interface{}{
					"value": value,
				})
			}
			tagScope(scope, fields)
			hub.CaptureException(err)
		})
	}
}

// Warn logs a warning message with structured fields
func Warn(msg string, fields Fields) {
	current().Warnw(msg, keysAndValues(fields)...)
	breadcrumb("warning", msg, fields, sentry.LevelWarning)
}

// Debug logs a debug message with structured fields
func Debug(msg string, fields Fields) {
	current().Debugw(msg, keysAndValues(fields)...)
	breadcrumb("debug", msg, fields, sentry.LevelDebug)
}

// LogAPIRequest logs API request metrics
func LogAPIRequest(c *gin.Context, duration time.Duration, statusCode int, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}

	fields["duration_ms"] = duration.Milliseconds()
	fields["status_code"] = statusCode
	fields["request_id"] = c.GetString("request_id")
	fields["method"] = c.Request.Method
	fields["path"] = c.Request.URL.Path
	fields["client_ip"] = c.ClientIP()

	current().Infow("API request completed", keysAndValues(fields)...)

	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:     "http",
		Category: "api",
		Message:  "API request",
		Data:     sanitize(fields),
		Level:    sentry.LevelInfo,
	})
}

// LogGenerationRequest logs a completed model invocation
func LogGenerationRequest(ctx context.Context, flow, model string, duration time.Duration, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}

	fields["flow"] = flow
	fields["model"] = model
	fields["duration_ms"] = duration.Milliseconds()

	Info("Generation request completed", fields)

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		span := sentry.StartSpan(ctx, "content.generate")
		span.Description = flow
		span.SetData("model", model)
		span.Finish()
	}
}

// LogToSentry sends a log message directly to Sentry as an event
func LogToSentry(level sentry.Level, msg string, fields Fields) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetLevel(level)
			for key, value := range fields {
				scope.SetContext(key, map[string]interface{}{
					"value": value,
				})
			}
			tagScope(scope, fields)
			hub.CaptureMessage(msg)
		})
	}
}

func breadcrumb(kind, msg string, fields Fields, level sentry.Level) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     kind,
			Category: "log",
			Message:  msg,
			Data:     sanitize(fields),
			Level:    level,
		})
	}
}

func tagScope(scope *sentry.Scope, fields Fields) {
	for _, key := range []string{"request_id", "model", "flow"} {
		if v, ok := fields[key].(string); ok {
			scope.SetTag(key, v)
		}
	}
}

// keysAndValues flattens fields into zap's sugared pairs in a stable order
func keysAndValues(fields Fields) []interface{} {
	clean := sanitize(fields)
	keys := make([]string, 0, len(clean))
	for k := range clean {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		kv = append(kv, k, clean[k])
	}
	return kv
}

// sanitize copies fields, masking credentials
func sanitize(fields Fields) map[string]interface{} {
	result := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if isSecretKey(k) {
			result[k] = "[REDACTED]"
			continue
		}
		result[k] = v
	}
	return result
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range []string{"api_key", "apikey", "authorization", "password", "secret", "token"} {
		if strings.Contains(key, s) && !strings.HasSuffix(key, "_tokens") {
			return true
		}
	}
	return false
}
