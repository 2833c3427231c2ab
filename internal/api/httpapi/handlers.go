package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19radio/internal/app/radio"
)

// SelectRequest is the body of POST /api/select.
type SelectRequest struct {
	Index *int `json:"index"`
}

// VolumeRequest is the body of POST /api/volume.
type VolumeRequest struct {
	Volume *int `json:"volume"`
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, radio.Command{Type: radio.CommandState})
}

func (s *Server) handleSimple(typ radio.CommandType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.dispatch(w, r, radio.Command{Type: typ})
	}
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}
	s.dispatch(w, r, radio.Command{Type: radio.CommandSelect, Index: *req.Index})
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req VolumeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Volume == nil {
		writeError(w, http.StatusBadRequest, "volume is required")
		return
	}
	s.dispatch(w, r, radio.Command{Type: radio.CommandVolume, Volume: *req.Volume})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.dispatch(w, r, radio.Command{Type: radio.CommandSearch, Query: req.Query})
}

// dispatch sends cmd to the loop and writes the resulting snapshot.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, cmd radio.Command) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snapshot, err := radio.Send(ctx, s.requests, cmd)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "radio loop did not respond")
		return
	case errors.Is(err, radio.ErrUnknownCommand):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	zlog.Debug().Msgf("api command handled: command=%s remote=%s", cmd.Type, r.RemoteAddr)
	writeJSON(w, http.StatusOK, snapshot)
}

// decodeBody decodes an optional JSON body. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Debug().Msgf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
