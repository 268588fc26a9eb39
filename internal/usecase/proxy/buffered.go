package proxy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/bnema/zerowrap"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
	"github.com/johnmschoonover/multi-llm-hosting/internal/logging"
)

// copyBufferSize matches io.Copy's default.
const copyBufferSize = 32 << 10

// serveBuffered handles OpenAI-style POSTs. The body is read up front so
// the "model" field can pick the backend, then replayed to that backend.
func (s *Service) serveBuffered(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeDomainError(w, r, err, codeOpenAIProxyFailed)
		return
	}

	model, err := extractModel(body)
	if err != nil {
		s.writeDomainError(w, r, err, codeOpenAIProxyFailed)
		return
	}

	route, err := s.resolveModel(model)
	if err != nil {
		log := s.logFor(r)
		log.Info().Str(logging.FieldModel, model).Msg("request for unknown model")
		s.writeError(w, http.StatusBadRequest, codeUnknownModel, model)
		return
	}

	ctx := zerowrap.CtxWithFields(r.Context(), map[string]any{
		logging.FieldModel:     model,
		logging.FieldRoute:     route.Key,
		logging.FieldContainer: route.ContainerName,
	})
	r = r.WithContext(ctx)

	if err := s.activate(ctx, route); err != nil {
		s.writeDomainError(w, r, err, codeOpenAIProxyFailed)
		return
	}

	s.forwardBuffered(w, r, route, body)
}

// forwardBuffered replays body to the backend and streams the answer back.
// Once the backend's headers are relayed the status can no longer change,
// so a later failure aborts the client connection instead.
func (s *Service) forwardBuffered(w http.ResponseWriter, r *http.Request, route domain.Route, body []byte) {
	log := s.logFor(r)

	target := route.BaseURL(s.config.BackendHost) + backendPath(r.URL.EscapedPath())
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	out, err := http.NewRequestWithContext(r.Context(), r.Method, target, bytes.NewReader(body))
	if err != nil {
		s.writeDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrForwardFailed, err), codeOpenAIProxyFailed)
		return
	}
	out.Header = r.Header.Clone()
	removeHopHeaders(out.Header)
	out.Header.Del("Host")
	out.Header.Set("Content-Length", strconv.Itoa(len(body)))
	out.ContentLength = int64(len(body))
	s.applyAuth(out.Header, route)

	resp, err := s.transport.RoundTrip(out)
	if err != nil {
		log.Error().Err(err).Str("target", target).Msg("proxy error: backend request failed")
		s.writeDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrForwardFailed, err), codeOpenAIProxyFailed)
		return
	}
	defer resp.Body.Close()

	s.metrics.IncForward(modeBuffered, route.Key, resp.StatusCode)

	removeHopHeaders(resp.Header)
	for k, vs := range resp.Header {
		w.Header()[k] = vs
	}
	w.WriteHeader(resp.StatusCode)

	if err := copyFlushing(w, resp.Body); err != nil {
		log.Warn().Err(err).Msg("response stream interrupted after headers were sent")
		panic(http.ErrAbortHandler)
	}
}

// copyFlushing copies src to w, flushing after every chunk so streamed
// completions reach the client as they are produced.
func copyFlushing(w http.ResponseWriter, src io.Reader) error {
	rc := http.NewResponseController(w)
	buf := make([]byte, copyBufferSize)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return err
			}
			if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
				return err
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
