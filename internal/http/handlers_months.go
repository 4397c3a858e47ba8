package http

import (
	"net/http"

	"caixa/internal/core"
	"caixa/internal/services"
)

func (s *Server) handleGetMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.months.ResolvedView(r.Context(), identity(r).UserID, year, month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Month resolution failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

type balanceRequest struct {
	Balance core.Amount `json:"balance"`
}

func (s *Server) handlePutBalance(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req balanceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.months.SetBalance(r.Context(), identity(r).UserID, year, month, r.PathValue("assetID"), req.Balance)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type cardDetailRequest struct {
	DueDate string         `json:"dueDate"`
	Status  core.Situation `json:"status"`
}

func (s *Server) handlePutCardDetail(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req cardDetailRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail := core.CardDetail{DueDate: req.DueDate, Status: req.Status}
	err = s.months.SetCardDetail(r.Context(), identity(r).UserID, year, month, r.PathValue("assetID"), detail)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type settingsRequest struct {
	Reserve          *core.Amount  `json:"reserve"`
	ReserveCurrency  core.Currency `json:"reserveCurrency"`
	RevenueTarget    *core.Amount  `json:"revenueTarget"`
	Investment       *core.Amount  `json:"investment"`
	InvestmentReturn *core.Amount  `json:"investmentReturn"`
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req settingsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.months.UpdateSettings(r.Context(), identity(r).UserID, year, month, services.MonthSettings{
		Reserve:          req.Reserve,
		ReserveCurrency:  req.ReserveCurrency,
		RevenueTarget:    req.RevenueTarget,
		Investment:       req.Investment,
		InvestmentReturn: req.InvestmentReturn,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type duplicateRequest struct {
	Mode core.DuplicationMode `json:"mode"`
}

func (s *Server) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req duplicateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Mode.Valid() {
		writeError(w, http.StatusBadRequest, "mode must be \"all\" or \"recurring\"")
		return
	}

	record, err := s.duplications.DuplicatePrevious(r.Context(), identity(r).UserID, year, month, req.Mode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type exportResponse struct {
	Ref string `json:"ref"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exports == nil {
		writeError(w, http.StatusNotImplemented, "export is not configured")
		return
	}

	year, month, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ref, err := s.exports.ExportMonth(r.Context(), identity(r).UserID, year, month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Month export failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exportResponse{Ref: ref})
}
