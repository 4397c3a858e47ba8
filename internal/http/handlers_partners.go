package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"caixa/internal/store"
)

func (s *Server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := s.partners.ListPartners(r.Context(), identity(r).UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partners)
}

func (s *Server) handleSavePartner(w http.ResponseWriter, r *http.Request) {
	var partner store.Partner
	if err := decodeBody(r, &partner); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if partner.Name == "" {
		writeError(w, http.StatusBadRequest, "partner name is required")
		return
	}
	if partner.Kind != "client" && partner.Kind != "supplier" {
		writeError(w, http.StatusBadRequest, "kind must be \"client\" or \"supplier\"")
		return
	}

	if id := r.PathValue("partnerID"); id != "" {
		partner.ID = id
	} else if partner.ID == "" {
		partner.ID = uuid.NewString()
	}
	if partner.CreatedAt.IsZero() {
		partner.CreatedAt = time.Now().UTC()
	}

	if err := s.partners.SavePartner(r.Context(), identity(r).UserID, partner); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partner)
}

func (s *Server) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	err := s.partners.DeletePartner(r.Context(), identity(r).UserID, r.PathValue("partnerID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
