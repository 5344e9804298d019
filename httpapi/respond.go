// Package httpapi exposes the REST surface and the realtime endpoint.
package httpapi

import (
	"encoding/json"
	"net/http"

	"pairchat/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, errors.MapToHTTPStatus(err), errorResponse{Error: err.Error()})
}
