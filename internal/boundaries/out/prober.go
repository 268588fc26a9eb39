package out

import (
	"context"
	"net/http"
)

// HTTPProber sends a single health request.
type HTTPProber interface {
	// Probe sends a GET to url with the given headers.
	// Returns (statusCode, responseTimeMs, error).
	Probe(ctx context.Context, url string, header http.Header) (int, int64, error)
}
