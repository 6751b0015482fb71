package middleware

import (
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/metrics"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// statusRecorder wraps http.ResponseWriter to remember the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// RequestLogger logs every request with its status and duration and
// records it in the request metrics under the matched route pattern.
func RequestLogger(log logger.Logger, rec metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			rec.RecordRequest(r.Method, route, sr.statusCode, duration)

			entry := log.With(map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sr.statusCode,
				"duration_ms": float64(duration.Nanoseconds()) / float64(time.Millisecond),
				"ip":          ClientIP(r),
			})
			switch {
			case sr.statusCode >= http.StatusInternalServerError:
				entry.Warn("http_request failed")
			case sr.statusCode >= http.StatusBadRequest:
				entry.Info("http_request rejected")
			default:
				entry.Debug("http_request")
			}
		})
	}
}
