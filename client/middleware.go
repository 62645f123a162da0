package client

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Handler sends one request and returns its response.
type Handler func(*http.Request) (*http.Response, error)

// Middleware wraps a Handler.
type Middleware func(Handler) Handler

// Chain composes mws around final. The first middleware is the outermost.
func Chain(final Handler, mws ...Middleware) Handler {
	h := final
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Transport is the innermost handler: it sends through hc.
func Transport(hc *http.Client) Handler {
	return func(req *http.Request) (*http.Response, error) {
		return hc.Do(req)
	}
}

// RequestID stamps a fresh X-Request-ID on requests that have none.
func RequestID() Middleware {
	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) == "" {
				req = req.Clone(req.Context())
				req.Header.Set(RequestIDHeader, uuid.NewString())
			}
			return next(req)
		}
	}
}

// Logging records every call with zerolog. Headers are never logged.
func Logging() Middleware {
	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next(req)
			ev := log.Debug()
			if err != nil {
				ev = log.Warn().Err(err)
			} else {
				ev = ev.Int("status", resp.StatusCode)
			}
			ev.Str("method", req.Method).
				Str("url", req.URL.Redacted()).
				Str("request_id", req.Header.Get(RequestIDHeader)).
				Dur("elapsed", time.Since(start)).
				Msg("HTTP request")
			return resp, err
		}
	}
}
