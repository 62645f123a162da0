package client

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RateLimit paces outbound requests to perSecond with the given burst.
// A non-positive perSecond disables pacing.
func RateLimit(perSecond float64, burst int) Middleware {
	if perSecond <= 0 {
		return func(next Handler) Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			if !lim.Allow() {
				log.Debug().Str("url", req.URL.Redacted()).Msg("Rate limit reached, waiting")
				if err := lim.Wait(req.Context()); err != nil {
					return nil, err
				}
			}
			return next(req)
		}
	}
}
