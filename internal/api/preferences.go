package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type preferenceRequest struct {
	Value string `json:"value"`
}

func (s *Server) prefsAvailable(w http.ResponseWriter) bool {
	if s.prefs == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "preferences are not configured")
		return false
	}
	return true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	s.logger.Error("preference store failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
}

// handleListPreferences returns every stored preference.
func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	if !s.prefsAvailable(w) {
		return
	}
	prefs, err := s.prefs.List(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preferences": prefs})
}

// handleGetPreference returns one preference by key.
func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	if !s.prefsAvailable(w) {
		return
	}
	pref, err := s.prefs.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if pref == nil {
		writeNotFound(w, "preference not found")
		return
	}
	writeJSON(w, http.StatusOK, pref)
}

// handleSetPreference creates or replaces a preference.
func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	if !s.prefsAvailable(w) {
		return
	}
	var req preferenceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pref, err := s.prefs.Set(r.Context(), chi.URLParam(r, "key"), req.Value)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pref)
}

// handleRemovePreference deletes a preference.
func (s *Server) handleRemovePreference(w http.ResponseWriter, r *http.Request) {
	if !s.prefsAvailable(w) {
		return
	}
	if err := s.prefs.Remove(r.Context(), chi.URLParam(r, "key")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
