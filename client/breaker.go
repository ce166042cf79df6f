package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// BreakerConfig tunes WithCircuitBreaker.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // allowed while half-open
	Interval         time.Duration // closed-state counter reset
	Timeout          time.Duration // open → half-open
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns conservative settings for one item service.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "item-service",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// errServerFailure marks a 5xx response as a breaker failure. The response
// itself is still returned to the caller.
var errServerFailure = fmt.Errorf("server failure")

type breakerTransport struct {
	base http.RoundTripper
	cb   *gobreaker.CircuitBreaker
}

func newBreakerTransport(base http.RoundTripper, cfg BreakerConfig) *breakerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return &breakerTransport{base: base, cb: cb}
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	_, err := t.cb.Execute(func() (any, error) {
		r, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		resp = r
		if r.StatusCode >= 500 {
			return nil, errServerFailure
		}
		return nil, nil
	})
	if resp != nil {
		return resp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.URL.Path, err)
	}
	return nil, fmt.Errorf("%s: no response", req.URL.Path)
}
