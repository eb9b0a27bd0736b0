package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON shape htmx callers receive for failed requests.
type errorBody struct {
	Error string `json:"error"`
}

// WriteError replies with msg and code. htmx requests get a JSON body that
// client scripts can show inline; other requests get plain text.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if !IsHTMX(r.Context()) {
		http.Error(w, msg, code)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}
