package http

import (
	"net/http"

	"caixa/internal/amqp"
	"caixa/internal/core"
)

type reportRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Year < 1900 || req.Year > 3000 || req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "invalid period")
		return
	}

	id := identity(r)
	month := core.MonthFromIndex(req.Month - 1)

	// With a broker configured the job runs on the worker; otherwise
	// generation happens inline on the request.
	if s.queue != nil {
		msg := amqp.NewReportJobMessage(id.UserID, req.Year, string(month), id.Plan)
		if err := s.queue.PublishReportJob(r.Context(), msg); err != nil {
			s.logger.ErrorContext(r.Context(), "Report job publish failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "report queue unavailable")
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}

	analysis, err := s.reports.Generate(r.Context(), id.UserID, id.Plan, req.Year, month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Report generation failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, analysis)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	analyses, err := s.reports.List(r.Context(), identity(r).UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analyses)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.reports.Get(r.Context(), identity(r).UserID, r.PathValue("reportID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRenameReport(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	err := s.reports.Rename(r.Context(), identity(r).UserID, r.PathValue("reportID"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	err := s.reports.Delete(r.Context(), identity(r).UserID, r.PathValue("reportID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
