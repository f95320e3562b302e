package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/grocery-inventory/internal/engine"
	"github.com/rogerio-castellano/grocery-inventory/internal/repo"
	"github.com/rogerio-castellano/grocery-inventory/internal/service"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		s.log.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string) {
	s.respond(w, status, ErrorResponse{Error: msg})
}

// handleError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a 500 without leaking details.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrProductNotFound),
		errors.Is(err, repo.ErrBatchNotFound),
		errors.Is(err, repo.ErrCategoryNotFound),
		errors.Is(err, repo.ErrSupplierNotFound):
		s.fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnknownReport):
		s.fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repo.ErrInvalidQuantityChange), errors.Is(err, repo.ErrDuplicateName):
		s.fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, repo.ErrInvalidReference), errors.Is(err, service.ErrInvalidInput):
		s.fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrNotImplemented):
		s.fail(w, http.StatusNotImplemented, err.Error())
	default:
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.fail(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// queryInt returns nil when the parameter is absent.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}

// queryTime parses an RFC3339 parameter. A '+' in the offset arrives as a
// space after query decoding and is restored first.
func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	if len(raw) == len(time.RFC3339) && raw[len(raw)-6] == ' ' {
		raw = raw[:len(raw)-6] + "+" + raw[len(raw)-5:]
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, nil
	}
	if ts, err := time.Parse(time.DateOnly, strings.TrimSpace(raw)); err == nil {
		return &ts, nil
	}
	return nil, fmt.Errorf("invalid %s date format", name)
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, *raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
