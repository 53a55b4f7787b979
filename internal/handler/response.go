package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/nutriva/brand-site-server/internal/errors"
	"github.com/nutriva/brand-site-server/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return apperrors.InvalidInput("body", "too large")
		}
		if errors.Is(err, io.EOF) {
			return apperrors.MissingRequired("Request body")
		}
		return apperrors.InvalidInput("body", "must be a JSON object")
	}
	return nil
}
