package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bbernstein/lacylights-netron/internal/cues"
	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/ports"
)

// intParam reads a numeric URL parameter.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeBadRequest(w, name+" must be a number")
		return 0, false
	}
	return v, true
}

// loadedState returns the current state or writes 503.
func (s *Server) loadedState(w http.ResponseWriter) (device.State, bool) {
	st, ok := s.state.State()
	if !ok {
		s.writeDeviceError(w, device.ErrNotLoaded)
	}
	return st, ok
}

// handleGetDevice returns the raw aggregated device state.
func (s *Server) handleGetDevice(w http.ResponseWriter, _ *http.Request) {
	st, ok := s.loadedState(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleReload fetches every device document again.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	st, err := s.state.Load(r.Context())
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleListPorts returns every port decoded for display.
func (s *Server) handleListPorts(w http.ResponseWriter, _ *http.Request) {
	st, ok := s.loadedState(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ports": ports.Views(st)})
}

// handleCloneCandidates returns the clone selection list of one port.
func (s *Server) handleCloneCandidates(w http.ResponseWriter, r *http.Request) {
	port, ok := intParam(w, r, "port")
	if !ok {
		return
	}
	st, ok := s.loadedState(w)
	if !ok {
		return
	}
	list := ports.CloneCandidates(st.Ports, port)
	if list == nil {
		writeNotFound(w, "port not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": list})
}

type chainResponse struct {
	Indexes []int        `json:"indexes"`
	Cues    []device.Cue `json:"cues"`
}

// handleCueChains returns the cues grouped into link chains.
func (s *Server) handleCueChains(w http.ResponseWriter, _ *http.Request) {
	st, ok := s.loadedState(w)
	if !ok {
		return
	}
	chains := cues.Chains(st.Cues)
	out := make([]chainResponse, len(chains))
	for i, c := range chains {
		out[i] = chainResponse{Indexes: c.Indexes(), Cues: c}
	}
	writeJSON(w, http.StatusOK, map[string]any{"chains": out})
}

// handleListFeedback returns the visible notifications.
func (s *Server) handleListFeedback(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"notifications": s.feedback.Active()})
}
