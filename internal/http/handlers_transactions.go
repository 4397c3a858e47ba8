package http

import (
	"net/http"

	"caixa/internal/core"
)

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var tx core.Transaction
	if err := decodeBody(r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.months.AddTransaction(r.Context(), identity(r).UserID, year, month, tx); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var tx core.Transaction
	if err := decodeBody(r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx.ID = r.PathValue("txID")

	if err := s.months.UpdateTransaction(r.Context(), identity(r).UserID, year, month, tx); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.months.DeleteTransaction(r.Context(), identity(r).UserID, year, month, r.PathValue("txID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type situationRequest struct {
	Situation core.Situation `json:"situation"`
}

func (s *Server) handleChangeSituation(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req situationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Situation.Valid() {
		writeError(w, http.StatusBadRequest, "unknown situation")
		return
	}

	err = s.months.ChangeSituation(r.Context(), identity(r).UserID, year, month, r.PathValue("txID"), req.Situation)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
