package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/moviestore/moviestore/internal/domain"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// respondServiceError maps a business error to its transport status; anything
// without a kind is logged and hidden behind a generic 500.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, logContext string) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		switch derr.Kind {
		case domain.KindNotFound:
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", derr.Message)
		case domain.KindConflict:
			s.respondError(w, http.StatusConflict, "CONFLICT", derr.Message)
		case domain.KindInvalidArgument:
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", derr.Message)
		default:
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", derr.Message)
		}
		return
	}
	s.logger.Printf("%s: %v", logContext, err)
	s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}
