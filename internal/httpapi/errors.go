package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"inferd/internal/apierr"
	"inferd/pkg/types"
)

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeCoreError maps a core apierr.Error onto its HTTP status per spec.md
// §7; anything that isn't an *apierr.Error is treated as Internal.
func writeCoreError(w http.ResponseWriter, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		writeJSONError(w, ae.HTTPStatus(), ae.Msg)
		return
	}
	writeJSONError(w, http.StatusInternalServerError, err.Error())
}
