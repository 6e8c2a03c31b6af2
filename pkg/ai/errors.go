package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies an upstream generation failure.
type Kind string

const (
	KindTimeout      Kind = "timeout"
	KindTransport    Kind = "transport"
	KindMalformed    Kind = "malformed"
	KindUnauthorized Kind = "unauthorized"
)

// UpstreamError is the typed failure returned by generation clients.
// Callers branch on Kind at their fallback policy point instead of
// inspecting raw transport errors.
type UpstreamError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// KindOf extracts the failure kind, defaulting to transport for untyped errors.
func KindOf(err error) Kind {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindTransport
}

func classifyTransport(op string, err error) *UpstreamError {
	kind := KindTransport
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &UpstreamError{Op: op, Kind: kind, Err: err}
}

func classifyStatus(op string, statusCode int, status string) *UpstreamError {
	kind := KindTransport
	if statusCode == 401 || statusCode == 403 {
		kind = KindUnauthorized
	}
	return &UpstreamError{Op: op, Kind: kind, Err: fmt.Errorf("unexpected status %s", status)}
}
