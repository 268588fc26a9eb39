package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

type readResult struct {
	data []byte
	err  error
}

// readBody reads the whole request body under the configured size and
// time limits. Only the reading goroutine touches r.Body and only this one
// touches w. On timeout the connection's read deadline is forced into the
// past, which fails the pending read, and readBody waits for it so nothing
// reads the body after the handler returns.
func (s *Service) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	limit := s.config.MaxBodyBytes
	if r.ContentLength > limit {
		return nil, fmt.Errorf("%w: declared %d bytes, limit %d", domain.ErrBodyTooLarge, r.ContentLength, limit)
	}

	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
		done <- readResult{data: data, err: err}
	}()

	timer := time.NewTimer(s.config.BodyTimeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, classifyReadError(r.Context(), res.err)
		}
		if int64(len(res.data)) > limit {
			return nil, fmt.Errorf("%w: limit %d", domain.ErrBodyTooLarge, limit)
		}
		return res.data, nil
	case <-timer.C:
		// Not every ResponseWriter supports deadlines; the Connection header
		// still makes the server close after the response.
		if err := http.NewResponseController(w).SetReadDeadline(time.Now()); err == nil {
			<-done
		}
		return nil, fmt.Errorf("%w: after %s", domain.ErrBodyTimeout, s.config.BodyTimeout)
	case <-r.Context().Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrRequestAborted, r.Context().Err())
	}
}

func classifyReadError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, context.Canceled), ctx.Err() != nil:
		return fmt.Errorf("%w: %w", domain.ErrRequestAborted, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrBodyReadFailed, err)
	}
}

// extractModel returns the string "model" field of a JSON body.
func extractModel(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", domain.ErrInvalidJSON
	}
	model := gjson.GetBytes(body, "model")
	if model.Type != gjson.String {
		return "", domain.ErrMissingModel
	}
	return model.Str, nil
}
