package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

type FailureKind string

const (
	FailureTimeout            FailureKind = "timeout"
	FailureUnauthorized       FailureKind = "unauthorized"
	FailureRateLimited        FailureKind = "rate_limited"
	FailureServiceUnavailable FailureKind = "service_unavailable"
	FailureMalformedResponse  FailureKind = "malformed_response"
)

var (
	ErrMissingCredential = errors.New("llm api key is not set")
	ErrEmptyResponse     = errors.New("completion returned no text")
)

// Failure is the only error type Complete returns.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("completion failed (%s): %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// KindOf reports the failure kind carried by err. Errors that did not come
// from this package are classified the same way provider errors are.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}

	return classify(err).Kind
}

var statusPattern = regexp.MustCompile(`(?i)(?:status code|status|error|http)\W{0,3}(\d{3})\b`)

func classify(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Failure{Kind: FailureTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Failure{Kind: FailureTimeout, Err: err}
	}

	msg := strings.ToLower(err.Error())

	if m := statusPattern.FindStringSubmatch(msg); m != nil {
		code, _ := strconv.Atoi(m[1])
		switch {
		case code == 401 || code == 403:
			return &Failure{Kind: FailureUnauthorized, Err: err}
		case code == 429:
			return &Failure{Kind: FailureRateLimited, Err: err}
		case code == 408 || code == 504:
			return &Failure{Kind: FailureTimeout, Err: err}
		}
	}

	switch {
	case strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "api key not valid"),
		strings.Contains(msg, "invalid api key"),
		strings.Contains(msg, "permission denied"):
		return &Failure{Kind: FailureUnauthorized, Err: err}
	case strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "resource exhausted"),
		strings.Contains(msg, "quota"):
		return &Failure{Kind: FailureRateLimited, Err: err}
	}

	return &Failure{Kind: FailureServiceUnavailable, Err: err}
}
