package internal

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"lease-recert-bot/internal/models"
	"lease-recert-bot/internal/store"

	"github.com/go-chi/chi/v5"
)

// listVendors returns a chat's vendors, optionally filtered by category and a
// free-text query over name, company and specialty.
func (s *Server) listVendors(w http.ResponseWriter, r *http.Request) {
	chatID, err := parseChatID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	find := &store.FindVendor{ChatID: chatID}
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		cat, ok := models.ParseCategory(raw)
		if !ok {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}
		find.Category = &cat
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		find.Query = &q
	}

	vendors, err := s.Store.ListVendors(r.Context(), find)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sendListResponse(w, vendors, len(vendors))
}

// vendorResponse is one vendor with its housing-authority detail and notes,
// when present.
type vendorResponse struct {
	Vendor *models.Vendor       `json:"vendor"`
	Detail *models.VendorDetail `json:"detail,omitempty"`
	Notes  []*models.VendorNote `json:"notes,omitempty"`
}

func (s *Server) getVendor(w http.ResponseWriter, r *http.Request) {
	chatID, err := parseChatID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid vendor id", http.StatusBadRequest)
		return
	}

	vendor, err := s.Store.GetVendor(r.Context(), id, chatID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := vendorResponse{Vendor: vendor}
	if detail, err := s.Store.GetVendorDetail(r.Context(), id, chatID); err == nil {
		resp.Detail = detail
	} else if !errors.Is(err, store.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	notes, err := s.Store.ListVendorNotes(r.Context(), id, chatID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp.Notes = notes

	writeJSON(w, http.StatusOK, resp)
}
