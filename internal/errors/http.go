package errors

import (
	"encoding/json"
	"net/http"
)

// WriteJSON renders err as an AppError JSON body with its status code.
// Errors that are not AppErrors are reported as a generic 500; their text is
// never sent to the client.
func WriteJSON(w http.ResponseWriter, err error) {
	appErr := As(err)
	if appErr == nil {
		appErr = NewInternalError("internal server error", "INTERNAL", nil)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	json.NewEncoder(w).Encode(appErr)
}
