package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"forcemap/internal/model"
)

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.store.AvailableYears(r.Context())
	if err != nil {
		s.fail(w, "failed to list years", err)
		return
	}
	if years == nil {
		years = []string{}
	}
	s.writeJSON(w, model.YearCatalog{AvailableYears: years})
}

func (s *Server) handleCasesByYear(w http.ResponseWriter, r *http.Request) {
	year := mux.Vars(r)["year"]

	wrappers, err := s.store.CasesByYear(r.Context(), year)
	if err != nil {
		s.fail(w, "failed to list cases", err)
		return
	}
	if wrappers == nil {
		wrappers = []model.CaseWrapper{}
	}
	s.writeJSON(w, wrappers)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
