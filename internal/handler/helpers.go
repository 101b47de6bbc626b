// Package handler implements the JSON API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/willowmere/hearth/internal/code"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// houseParam reads the {code} path parameter and normalizes it. Writes a 400
// and returns false when the code is malformed.
func houseParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	c := code.Normalize(r.PathValue("code"))
	if !code.Valid(c) {
		writeError(w, http.StatusBadRequest, "house code must be exactly 6 alphanumeric characters")
		return "", false
	}
	return c, true
}
