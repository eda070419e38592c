package ratelimit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Rate-limit response headers.
const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

// RejectionResponse is the JSON body returned with a 429.
type RejectionResponse struct {
	Error             string `json:"error"`
	Message           string `json:"message"`
	Limit             int    `json:"limit"`
	Remaining         int    `json:"remaining"`
	Reset             int64  `json:"reset"`
	RetryAfterSeconds int64  `json:"retryAfterSeconds"`
}

// WithRateLimit decorates next with a rate-limit check for the given preset.
//
// On rejection it short-circuits with 429, machine-readable limit fields
// and a Retry-After hint. On success it stamps the rate-limit headers and
// invokes next unchanged; the handler's own success/error behavior is not
// altered. identify may be nil, in which case DefaultIdentifier is used.
func WithRateLimit(next http.Handler, l *Limiter, preset Preset, identify IdentifierFunc) http.Handler {
	if identify == nil {
		identify = DefaultIdentifier
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := l.Check(r.Context(), preset.Request(identify(r)))

		w.Header().Set(HeaderLimit, strconv.Itoa(res.Limit))
		w.Header().Set(HeaderRemaining, strconv.Itoa(res.Remaining))
		w.Header().Set(HeaderReset, strconv.FormatInt(res.Reset.Unix(), 10))

		if !res.Allowed {
			retryAfter := int64(time.Until(res.Reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(RejectionResponse{
				Error:             "rate limit exceeded",
				Message:           fmt.Sprintf("rate limit exceeded, retry in %ds", retryAfter),
				Limit:             res.Limit,
				Remaining:         0,
				Reset:             res.Reset.Unix(),
				RetryAfterSeconds: retryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
