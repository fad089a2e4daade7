package internal

import (
	"net/http"
)

// runSweep triggers a reminder sweep for today outside the daily schedule.
// The sweep itself never fails on individual delivery errors, so an error
// here means the store was unreachable.
func (s *Server) runSweep(w http.ResponseWriter, r *http.Request) {
	if s.Sweeper == nil {
		http.Error(w, "sweeper not configured", http.StatusServiceUnavailable)
		return
	}
	if err := s.Sweeper.RunOnce(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}
