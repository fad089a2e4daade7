package internal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Every admin query is scoped to one chat, mirroring the bot's own view of
// the data. chat_id is therefore a required parameter, not a filter.
func parseChatID(r *http.Request) (int64, error) {
	s := strings.TrimSpace(r.URL.Query().Get("chat_id"))
	if s == "" {
		return 0, errors.New("chat_id is required")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("chat_id must be a non-zero integer")
	}
	return id, nil
}

// listResponse is the envelope for list endpoints.
type listResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

func sendListResponse(w http.ResponseWriter, items any, total int) {
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
