package server

import (
	"net/http"
	"strconv"
	"time"
)

const defaultClaimLimit = 50

func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	if s.claims == nil {
		writeError(w, http.StatusServiceUnavailable, "claim store not configured")
		return
	}
	limit := defaultClaimLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	claims, err := s.claims.ListRecent(r.Context(), limit)
	if err != nil {
		s.logger.Error("server.claims.list_failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not list claims")
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Status: "success", Data: claims})
}

func (s *Server) handleExportClaims(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "claim store not configured")
		return
	}
	limit := defaultClaimLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	buf, err := s.exporter.ExportClaimsXLSX(r.Context(), limit)
	if err != nil {
		s.logger.Error("server.claims.export_failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not export claims")
		return
	}

	name := "claims_" + time.Now().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf)
}
