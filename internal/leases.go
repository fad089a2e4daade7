package internal

import (
	"net/http"
)

// listLeases returns a chat's leases sorted by upcoming recertification date,
// the same order the bot shows in /list.
func (s *Server) listLeases(w http.ResponseWriter, r *http.Request) {
	chatID, err := parseChatID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	leases, err := s.Store.ListLeasesByChat(r.Context(), chatID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sendListResponse(w, leases, len(leases))
}
