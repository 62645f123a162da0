package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/habedi/mscli/auth"
	"github.com/rs/zerolog/log"
)

// ExpiredTokenMessage is the message the services put in a 401 body when the
// access token has expired. Any other 401 means the credentials are invalid.
const ExpiredTokenMessage = "Token has expired"

// exemptPaths never carry a token and never trigger a renewal.
var exemptPaths = []string{"/login", "/refresh", "/register"}

func isExempt(req *http.Request) bool {
	u := req.URL.String()
	for _, p := range exemptPaths {
		if strings.Contains(u, p) {
			return true
		}
	}
	return false
}

// Interceptor attaches the session token to outgoing requests and handles the
// 401 and 403 branches.
type Interceptor struct {
	coord   *auth.Coordinator
	gate    *auth.Gate
	nav     auth.Navigator
	metrics *Metrics
}

// NewInterceptor wires the interceptor. metrics may be nil.
func NewInterceptor(coord *auth.Coordinator, gate *auth.Gate, nav auth.Navigator, metrics *Metrics) *Interceptor {
	return &Interceptor{coord: coord, gate: gate, nav: nav, metrics: metrics}
}

// Middleware returns the interceptor as a chain element.
func (i *Interceptor) Middleware() Middleware {
	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			if isExempt(req) {
				return next(req)
			}
			return i.intercept(next, req)
		}
	}
}

func (i *Interceptor) intercept(next Handler, req *http.Request) (*http.Response, error) {
	if err := bufferBody(req); err != nil {
		return nil, fmt.Errorf("failed to buffer request body: %w", err)
	}

	token := i.coord.AccessToken()
	resp, err := next(withToken(req, token))
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusForbidden:
		body := readErrorBody(resp)
		i.nav.ToNotAuthorized()
		return nil, decodeError(resp, body, auth.ErrForbidden)

	case http.StatusUnauthorized:
		body := readErrorBody(resp)
		if isExpired(body) {
			log.Debug().Str("url", req.URL.Redacted()).Msg("Access token expired")
			return i.awaitRenewal(next, req, token)
		}
		// Only the first request that fails with the stored token logs out.
		if i.coord.AccessToken() == token {
			i.coord.ForceLogout("request rejected as unauthorized")
		}
		return nil, decodeError(resp, body, auth.ErrUnauthorized)
	}
	return resp, nil
}

type outcome struct {
	resp *http.Response
	err  error
}

// awaitRenewal parks req in the gate and replays it once with the renewed token.
func (i *Interceptor) awaitRenewal(next Handler, req *http.Request, stale string) (*http.Response, error) {
	ctx := req.Context()
	done := make(chan outcome, 1)

	withdraw := i.gate.Enqueue(stale, func(token string, err error) {
		if err != nil {
			done <- outcome{err: err}
			return
		}
		if ctx.Err() != nil {
			done <- outcome{err: ctx.Err()}
			return
		}
		replay, err := cloneForReplay(req)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		if i.metrics != nil {
			i.metrics.Replays.Inc()
		}
		resp, err := next(withToken(replay, token))
		done <- outcome{resp: resp, err: err}
	})

	select {
	case o := <-done:
		return o.resp, o.err
	case <-ctx.Done():
		if withdraw() {
			return nil, ctx.Err()
		}
		// Already being resumed; the continuation always delivers.
		o := <-done
		return o.resp, o.err
	}
}

func isExpired(body []byte) bool {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return false
	}
	return eb.Message == ExpiredTokenMessage
}

// withToken returns a copy of req carrying token. An empty token leaves the
// request without an Authorization header.
func withToken(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	if token == "" {
		r.Header.Del("Authorization")
		return r
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// bufferBody makes the request body replayable through GetBody.
func bufferBody(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return nil
	}
	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return err
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil
}

func cloneForReplay(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		r.Body = body
	}
	return r, nil
}
