package internal

import (
	"net/http"

	"lease-recert-bot/pkg/exporter"
)

// exportLeases streams a chat's leases as an Excel workbook.
func (s *Server) exportLeases(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leases.xlsx"`)
	if err := exporter.WriteLeases(w, leases); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
