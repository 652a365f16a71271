package respond

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hongminglow/blog-be/internal/apperr"
	"github.com/hongminglow/blog-be/internal/logging"
)

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error classifies err and writes its status and code. Internal causes are
// logged and never reach the client.
func Error(ctx context.Context, log logging.Logger, w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.KindInternal {
		log.Error(ctx, "request failed", "error", err)
	} else if appErr.Err != nil {
		log.Debug(ctx, "request rejected", "code", appErr.Code, "error", appErr.Err)
	}
	JSON(w, appErr.Status(), ErrorBody{Error: appErr.Code})
}
