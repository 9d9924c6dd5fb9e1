package mcp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ServeHTTP handles one JSON-RPC message per POST body. Notifications are
// answered with 202 Accepted and no body.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxMessageBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeResponse(w, http.StatusRequestEntityTooLarge,
				errorResponse(nil, InvalidRequest, "Invalid Request", "message too large"))
			return
		}
		writeResponse(w, http.StatusBadRequest, errorResponse(nil, ParseError, "Parse error", err.Error()))
		return
	}

	resp := s.HandleMessage(r.Context(), data)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeResponse(w, http.StatusOK, resp)
}

func writeResponse(w http.ResponseWriter, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
