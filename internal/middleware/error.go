package middleware

import (
	"encoding/json"
	"fmt"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/view"
	"net/http"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// NotFound builds the 404 AppError.
func NotFound(err error) *AppError {
	return &AppError{Error: err, Message: "Page Not Found", Code: http.StatusNotFound}
}

// Internal builds the 500 AppError.
func Internal(err error, msg string) *AppError {
	return &AppError{Error: err, Message: msg, Code: http.StatusInternalServerError}
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Error is a middleware that converts handler errors into user-friendly error pages.
func Error(log logger.Logger, v *view.View) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					RenderError(w, r, log, v, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			if err := next(w, r); err != nil {
				if err.Code >= http.StatusInternalServerError {
					log.Error(err.Error, err.Message)
				} else if err.Error != nil {
					log.Debug(fmt.Sprintf("%s: %v", err.Message, err.Error))
				}
				RenderError(w, r, log, v, err.Code, err.Message)
			}
		})
	}
}

// RenderError writes the error page with the given status.
func RenderError(w http.ResponseWriter, r *http.Request, log logger.Logger, v *view.View, code int, message string) {
	data := map[string]interface{}{
		"StatusCode": code,
		"StatusText": message,
		"Title":      message,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := v.Render(w, r, "error.html", data); err != nil {
		log.Error(err, "failed to render error page")
		fmt.Fprintf(w, "Error %d: %s", code, message)
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes {"success": false, "message": msg}.
func JSONError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]any{"success": false, "message": msg})
}
