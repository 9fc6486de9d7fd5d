package server

import (
	"encoding/json"
	"net/http"

	svcErr "github.com/kindredapp/kindred-backend/internal/errors"
)

// RespondOK writes a {"success": true, "message": ..., ...} body. Extra
// fields are merged at the top level of the response object.
func RespondOK(w http.ResponseWriter, message string, extra map[string]any) {
	body := map[string]any{
		"success": true,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// RespondError maps the error to its HTTP status and writes a
// {"success": false, "message": ...} body. Internal details never leak: the
// message of an untyped error is replaced by a generic one.
func RespondError(w http.ResponseWriter, err error) {
	mapped := svcErr.Map(err)
	status := svcErr.Status(mapped)

	message := mapped.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
