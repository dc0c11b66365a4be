package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
)

// ErrorKind is the closed classification of request failures. Every failed
// API call maps to exactly one kind; callers switch on it instead of
// inspecting error strings.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTimeout
	KindNetworkUnreachable
	KindServerError
	KindNoResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetworkUnreachable:
		return "network unreachable"
	case KindServerError:
		return "server error"
	case KindNoResponse:
		return "no response"
	default:
		return "unknown"
	}
}

// APIError is the only error type API methods return. StatusCode is set for
// KindServerError; Message is always user-presentable.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// classifyTransportError turns a transport-level failure into an APIError.
// Timeout wins over the generic connection checks since timeouts surface as
// net.OpError too.
func classifyTransportError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Kind: KindTimeout, Message: "request timed out"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &APIError{Kind: KindTimeout, Message: "request timed out"}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{Kind: KindNetworkUnreachable, Message: "cannot reach the server"}
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return &APIError{Kind: KindNetworkUnreachable, Message: "cannot reach the server"}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return &APIError{Kind: KindNetworkUnreachable, Message: "cannot reach the server"}
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET) {
		return &APIError{Kind: KindNoResponse, Message: "the server closed the connection without responding"}
	}

	return &APIError{Kind: KindUnknown, Message: err.Error()}
}

// newServerError extracts the human-readable detail the backend puts in
// error bodies, falling back to the HTTP status text.
func newServerError(statusCode int, body []byte) *APIError {
	detail := extractDetail(body)
	if detail == "" {
		detail = http.StatusText(statusCode)
	}
	return &APIError{Kind: KindServerError, StatusCode: statusCode, Message: detail}
}

func extractDetail(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Message
}
