package http

import (
	"net/http"

	"github.com/google/uuid"

	"caixa/internal/core"
)

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.months.ListAssets(r.Context(), identity(r).UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (s *Server) handleSaveAsset(w http.ResponseWriter, r *http.Request) {
	var asset core.Asset
	if err := decodeBody(r, &asset); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// PUT addresses an existing asset; POST mints the id.
	if id := r.PathValue("assetID"); id != "" {
		asset.ID = id
	} else if asset.ID == "" {
		asset.ID = uuid.NewString()
	}

	if err := s.months.SaveAsset(r.Context(), identity(r).UserID, asset); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	err := s.months.DeleteAsset(r.Context(), identity(r).UserID, r.PathValue("assetID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
