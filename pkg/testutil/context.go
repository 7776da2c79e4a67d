package testutil

import (
	"net/http"
	"time"

	"companion/pkg/platform/middleware/metadata"
	"companion/pkg/requestcontext"
)

// WithInstallID sets the install header and context value the metadata
// middleware would produce, so handlers can be tested without it.
func WithInstallID(req *http.Request, installID string) *http.Request {
	req.Header.Set(metadata.InstallIDHeader, installID)
	return req.WithContext(requestcontext.WithInstallID(req.Context(), installID))
}

// WithRequestTime pins the request-scoped clock.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
