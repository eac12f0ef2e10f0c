package rest

import (
	"errors"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/logging"
	"github.com/antaww/uta/internal/validation"
)

const (
	codeValidation      = "VALIDATION_ERROR"
	codeEmptyResult     = "EMPTY_RESULT"
	codeUnauthenticated = "UNAUTHENTICATED"
	codeRateLimited     = "RATE_LIMITED"
	codeUpstream        = "UPSTREAM_ERROR"
	codeNotFound        = "NOT_FOUND"
	codeUnsupportedType = "UNSUPPORTED_MEDIA_TYPE"
	codeInternal        = "INTERNAL_ERROR"

	maxBodyBytes = 1 << 20
)

type errorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	RetryAfter *int   `json:"retry_after,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeErrorWithCode(w http.ResponseWriter, status int, message string, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeError maps an error from the core to a status code and error body.
// Unclassified errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var empty *domain.EmptyResultError
	switch {
	case errors.As(err, &empty):
		writeErrorWithCode(w, http.StatusBadRequest, empty.Error(), codeEmptyResult)
	case errors.Is(err, domain.ErrValidation):
		var ve *domain.ValidationError
		msg := err.Error()
		if errors.As(err, &ve) {
			msg = ve.Error()
		}
		writeErrorWithCode(w, http.StatusBadRequest, msg, codeValidation)
	case errors.Is(err, domain.ErrUnauthenticated):
		writeErrorWithCode(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error(), codeUnauthenticated)
	case errors.Is(err, domain.ErrRateLimited):
		body := errorResponse{Error: domain.ErrRateLimited.Error(), Code: codeRateLimited}
		if d, ok := domain.RetryAfter(err); ok && d > 0 {
			secs := int(math.Ceil(d.Seconds()))
			body.RetryAfter = &secs
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
		writeJSON(w, http.StatusTooManyRequests, body)
	case errors.Is(err, domain.ErrUpstream):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("upstream failure")
		writeErrorWithCode(w, http.StatusBadGateway, "music service request failed", codeUpstream)
	case errors.Is(err, domain.ErrNotFound):
		writeErrorWithCode(w, http.StatusNotFound, "not found", codeNotFound)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("unhandled error")
		writeErrorWithCode(w, http.StatusInternalServerError, "internal server error", codeInternal)
	}
}

func isJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	return err == nil && mediaType == "application/json"
}

// decodeJSON decodes and validates a request body. An empty body is allowed
// when optional is set and leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if !(optional && errors.Is(err, io.EOF)) {
			return &domain.ValidationError{Field: "body", Reason: "invalid JSON"}
		}
	}
	return validation.ValidateStruct(dst)
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Reason: "must be an integer"}
	}
	return v, nil
}

// session opens the listener's streaming-service session from the bearer token.
func (h *Handler) session(r *http.Request) (ports.MusicSession, error) {
	if h.sessions == nil {
		return nil, domain.ErrUnauthenticated
	}
	auth := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, domain.ErrUnauthenticated
	}
	return h.sessions.Session(r.Context(), strings.TrimSpace(token))
}
