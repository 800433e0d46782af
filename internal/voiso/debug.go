package voiso

import (
	"io"
	"net/http"
	"net/http/httputil"

	"github.com/rs/zerolog"
)

// debugTransport logs each request and response at debug level.
// Enable with WithDebugLogging(true) or VOISO_DEBUG=true.
type debugTransport struct {
	base   http.RoundTripper
	logger zerolog.Logger
}

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Dump a header-only clone so the bearer token never reaches the log
	// and the outgoing body is left unread.
	redacted := req.Clone(req.Context())
	redacted.Body = nil
	redacted.ContentLength = 0
	if redacted.Header.Get("Authorization") != "" {
		redacted.Header.Set("Authorization", "Bearer [REDACTED]")
	}

	event := dt.logger.Debug().Str("method", req.Method).Str("url", req.URL.String())
	if reqDump, err := httputil.DumpRequestOut(redacted, false); err == nil {
		event = event.Str("request_dump", string(reqDump))
	}
	if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			b, _ := io.ReadAll(body)
			event = event.Str("request_body", string(b))
		}
	}
	event.Msg("HTTP request")

	rsp, err := dt.base.RoundTrip(req)
	if err != nil {
		dt.logger.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if rspDump, err := httputil.DumpResponse(rsp, true); err == nil {
		dt.logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Int("status_code", rsp.StatusCode).
			Str("response_dump", string(rspDump)).
			Msg("HTTP response")
	}

	return rsp, nil
}
