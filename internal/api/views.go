package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bbernstein/lacylights-netron/internal/views"
)

// handleDeviceInfo returns the identity, network and version summary.
func (s *Server) handleDeviceInfo(w http.ResponseWriter, _ *http.Request) {
	st, ok := s.loadedState(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, views.DeviceInfo(st))
}

// handleChoices returns the values an operator may pick for a lookup field.
func (s *Server) handleChoices(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadedState(w)
	if !ok {
		return
	}
	field := chi.URLParam(r, "field")
	choices, ok := views.Choices(field, st)
	if !ok {
		writeNotFound(w, "no choices for field "+field)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"field": field, "choices": choices})
}

func (s *Server) handleListDMXInputs(w http.ResponseWriter, _ *http.Request) {
	st, ok := s.loadedState(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inputs": views.Inputs(st)})
}

// handleGetMerger returns the input merger, 404 on models without one.
func (s *Server) handleGetMerger(w http.ResponseWriter, _ *http.Request) {
	st, ok := s.loadedState(w)
	if !ok {
		return
	}
	values, ok := views.Merger(st)
	if !ok {
		writeNotFound(w, "the device has no input merger")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"values": values})
}

func (s *Server) handleListCues(w http.ResponseWriter, _ *http.Request) {
	st, ok := s.loadedState(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cues": views.Cues(st)})
}

func (s *Server) handleListPresets(w http.ResponseWriter, _ *http.Request) {
	st, ok := s.loadedState(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"presets":     views.Presets(st),
		"userPresets": st.UserPresets,
	})
}

// handleListRemoteInputs returns the remote trigger mappings decoded.
func (s *Server) handleListRemoteInputs(w http.ResponseWriter, _ *http.Request) {
	st, ok := s.loadedState(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inputs": views.RemoteInputs(st)})
}
