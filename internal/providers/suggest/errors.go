package suggest

import (
	"errors"
	"fmt"

	"donortrack/internal/domain"
)

const (
	reasonUnavailable   = "unavailable"
	reasonEncode        = "encode"
	reasonHTTPRequest   = "http_request"
	reasonHTTPStatus    = "http_status"
	reasonDecode        = "decode"
	reasonEmptyResponse = "empty_response"
	reasonParse         = "parse"
	reasonUnknown       = "unknown"
)

// ErrMissingAPIKey is returned by constructors when no credential is configured.
var ErrMissingAPIKey = errors.New("suggest: api key is required")

type providerError struct {
	provider string
	reason   string
	err      error
}

func (e *providerError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %s: %s", domain.ErrProviderFailure, e.provider, e.reason)
	}
	return fmt.Sprintf("%s: %s: %s: %v", domain.ErrProviderFailure, e.provider, e.reason, e.err)
}

func (e *providerError) Unwrap() []error {
	if e.err == nil {
		return []error{domain.ErrProviderFailure}
	}
	return []error{domain.ErrProviderFailure, e.err}
}

func fail(provider, reason string, err error) error {
	return &providerError{provider: provider, reason: reason, err: err}
}

// FailureReason extracts the short failure reason from a provider error.
func FailureReason(err error) string {
	var perr *providerError
	if errors.As(err, &perr) {
		return perr.reason
	}
	return reasonUnknown
}
