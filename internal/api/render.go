package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/akorchak/yodot/internal/errors"
)

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes the error envelope. Errors that are not YodotErrors are
// wrapped as internal so their details never reach the client.
func renderError(w http.ResponseWriter, err error) {
	var yErr *errors.YodotError
	if !stderrors.As(err, &yErr) {
		yErr = errors.NewInternal(err)
	}

	renderJSON(w, yErr.Status, map[string]any{
		"error": map[string]any{
			"code":    string(yErr.Code),
			"message": yErr.Message,
			"status":  yErr.Status,
		},
	})
}
