package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/yourname/reelshelf/internal/lists"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Status: status, Message: message})
}

// decodeJSON reads the body into v and answers 400 when it cannot. The
// decoder's message names Go types, so it only goes to the debug log.
func decodeJSON(w http.ResponseWriter, r *http.Request, log zerolog.Logger, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("invalid request body")
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondServiceError maps list-rule failures to 400/404 and everything
// else to a 500 whose detail stays in the server log.
func respondServiceError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	var le *lists.Error
	if errors.As(err, &le) {
		switch le.Kind {
		case lists.KindValidation, lists.KindConflict:
			respondError(w, http.StatusBadRequest, le.Message)
		case lists.KindNotFound:
			respondError(w, http.StatusNotFound, le.Message)
		default:
			respondError(w, http.StatusBadRequest, le.Message)
		}
		return
	}
	log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// baseURL is the scheme and host the client used to reach us.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host
}
