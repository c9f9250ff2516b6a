package api

import (
	"encoding/json"
	"net/http"

	"github.com/bbernstein/lacylights-netron/internal/codec"
	"github.com/bbernstein/lacylights-netron/internal/services/forms"
)

// maxBodySize bounds form request bodies.
const maxBodySize = 64 << 10

// decodeBody reads a JSON request body into v, writing 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}

type valuesRequest struct {
	Values map[string]codec.Display `json:"values"`
}

// handleSavePort submits a port form.
func (s *Server) handleSavePort(w http.ResponseWriter, r *http.Request) {
	port, ok := intParam(w, r, "port")
	if !ok {
		return
	}
	var req valuesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.forms.SavePort(r.Context(), port, req.Values)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleSaveIP submits the network settings form.
func (s *Server) handleSaveIP(w http.ResponseWriter, r *http.Request) {
	var req forms.IPInput
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.forms.SaveIP(r.Context(), req)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type identifyRequest struct {
	// Status is the identify status to set; absent toggles.
	Status *int `json:"status"`
}

// handleIdentify sets or toggles identify.
func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	var req identifyRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	var (
		status int
		err    error
	)
	if req.Status != nil {
		status = *req.Status
		err = s.forms.SetIdentify(r.Context(), status)
	} else {
		status, err = s.forms.ToggleIdentify(r.Context())
	}
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

type presetRequest struct {
	Universe codec.Display `json:"universe"`
}

// handleLoadPreset loads a factory preset.
func (s *Server) handleLoadPreset(w http.ResponseWriter, r *http.Request) {
	preset, ok := intParam(w, r, "preset")
	if !ok {
		return
	}
	var req presetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.forms.LoadPreset(r.Context(), preset, req.Universe); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preset": preset})
}

// handleLoadUserPreset loads a user preset.
func (s *Server) handleLoadUserPreset(w http.ResponseWriter, r *http.Request) {
	preset, ok := intParam(w, r, "preset")
	if !ok {
		return
	}
	if err := s.forms.LoadUserPreset(r.Context(), preset); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preset": preset})
}

type renameRequest struct {
	Name string `json:"name"`
}

// handleRenameUserPreset renames a user preset.
func (s *Server) handleRenameUserPreset(w http.ResponseWriter, r *http.Request) {
	preset, ok := intParam(w, r, "preset")
	if !ok {
		return
	}
	var req renameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.forms.RenameUserPreset(r.Context(), preset, req.Name); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preset": preset})
}

type runRequest struct {
	Cue       int  `json:"cue"`
	ResendEth bool `json:"resendEth"`
}

// handleRunCue starts or stops cue playback.
func (s *Server) handleRunCue(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.forms.RunCue(r.Context(), req.Cue, req.ResendEth); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type saveCueRequest struct {
	Cue int `json:"cue"`
}

// handleSaveCue stores the port values in a cue slot.
func (s *Server) handleSaveCue(w http.ResponseWriter, r *http.Request) {
	var req saveCueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.forms.SaveCue(r.Context(), req.Cue); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// handleEditCue changes the options of one cue slot.
func (s *Server) handleEditCue(w http.ResponseWriter, r *http.Request) {
	slot, ok := intParam(w, r, "cue")
	if !ok {
		return
	}
	var req forms.CueInput
	if !decodeBody(w, r, &req) {
		return
	}
	cue, err := s.forms.EditCue(r.Context(), slot, req)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cue)
}

// handleSaveRemoteInput submits a remote input form.
func (s *Server) handleSaveRemoteInput(w http.ResponseWriter, r *http.Request) {
	input, ok := intParam(w, r, "input")
	if !ok {
		return
	}
	var req valuesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := s.forms.SaveRemoteInput(r.Context(), input, req.Values)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}
