package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

// Error codes returned in the "error" field of launcher-generated responses.
const (
	codeRouteNotFound      = "route_not_found"
	codeUnknownModel       = "unknown_model"
	codeInvalidJSON        = "invalid_json"
	codeMissingModel       = "missing_model"
	codeRequestAborted     = "request_aborted"
	codeBodyReadFailed     = "body_read_failed"
	codeBodyTimeout        = "body_timeout"
	codeBodyTooLarge       = "body_too_large"
	codeLauncherBusy       = "launcher_busy"
	codeContainerOpFailed  = "container_operation_failed"
	codeProxyFailed        = "proxy_failed"
	codeOpenAIProxyFailed  = "openai_proxy_failed"
	codeInternalProxyError = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
}

// errorStatus maps a domain error to the status and code the client sees.
// forwardCode is used for failures of the outbound call itself.
func errorStatus(err error, forwardCode string) (int, string) {
	switch {
	case errors.Is(err, domain.ErrRouteNotFound):
		return http.StatusNotFound, codeRouteNotFound
	case errors.Is(err, domain.ErrUnknownModel):
		return http.StatusBadRequest, codeUnknownModel
	case errors.Is(err, domain.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, codeBodyTooLarge
	case errors.Is(err, domain.ErrBodyTimeout):
		return http.StatusRequestTimeout, codeBodyTimeout
	case errors.Is(err, domain.ErrRequestAborted):
		return http.StatusBadRequest, codeRequestAborted
	case errors.Is(err, domain.ErrBodyReadFailed):
		return http.StatusBadRequest, codeBodyReadFailed
	case errors.Is(err, domain.ErrInvalidJSON):
		return http.StatusBadRequest, codeInvalidJSON
	case errors.Is(err, domain.ErrMissingModel):
		return http.StatusBadRequest, codeMissingModel
	case errors.Is(err, domain.ErrBackendUnhealthy), errors.Is(err, domain.ErrLockUnavailable):
		return http.StatusBadGateway, codeLauncherBusy
	case domain.IsContainerOperationError(err):
		return http.StatusBadGateway, codeContainerOpFailed
	case errors.Is(err, domain.ErrForwardFailed):
		return http.StatusBadGateway, forwardCode
	default:
		return http.StatusInternalServerError, codeInternalProxyError
	}
}

// writeError writes a JSON error body. detail, when set, is appended to the
// code after a colon ("unknown_model:gpt-4").
func (s *Service) writeError(w http.ResponseWriter, status int, code, detail string) {
	s.metrics.IncRejected(code)

	msg := code
	if detail != "" {
		msg = code + ":" + detail
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// writeDomainError logs err and answers with its mapped status.
func (s *Service) writeDomainError(w http.ResponseWriter, r *http.Request, err error, forwardCode string) {
	status, code := errorStatus(err, forwardCode)
	log := s.logFor(r)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Info().Err(err).Int("status", status).Msg("request rejected")
	}

	if status == http.StatusRequestEntityTooLarge || status == http.StatusRequestTimeout {
		// The rest of the body is never read; don't try to reuse the connection.
		w.Header().Set("Connection", "close")
	}
	s.writeError(w, status, code, "")
}

// hopHeaders are connection-scoped and never forwarded (RFC 9110 7.6.1).
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// removeHopHeaders deletes hop-by-hop headers, including any named in Connection.
func removeHopHeaders(h http.Header) {
	for _, v := range h.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				h.Del(name)
			}
		}
	}
	for _, name := range hopHeaders {
		h.Del(name)
	}
}
