package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimeoutErr struct{}

func (fakeTimeoutErr) Error() string   { return "i/o timeout" }
func (fakeTimeoutErr) Timeout() bool   { return true }
func (fakeTimeoutErr) Temporary() bool { return true }

func TestClassifyTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("Get \"http://x\": %w", context.DeadlineExceeded), KindTimeout},
		{"net timeout", fakeTimeoutErr{}, KindTimeout},
		{"dns failure", &net.DNSError{Err: "no such host", Name: "backend.local"}, KindNetworkUnreachable},
		{"connection refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, KindNetworkUnreachable},
		{"host unreachable", syscall.EHOSTUNREACH, KindNetworkUnreachable},
		{"dial without errno", &net.OpError{Op: "dial", Err: errors.New("route lookup failed")}, KindNetworkUnreachable},
		{"unexpected eof", io.ErrUnexpectedEOF, KindNoResponse},
		{"connection reset", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, KindNoResponse},
		{"anything else", errors.New("???"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyTransportError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestClassifyTransportErrorPassesThroughAPIError(t *testing.T) {
	orig := &APIError{Kind: KindServerError, StatusCode: 404, Message: "PDF not found"}
	got := classifyTransportError(fmt.Errorf("wrapped: %w", orig))
	assert.Same(t, orig, got)
}

func TestNewServerError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail field", 400, `{"detail": "File must be a PDF"}`, "File must be a PDF"},
		{"message field", 500, `{"message": "internal"}`, "internal"},
		{"detail wins over message", 400, `{"detail": "a", "message": "b"}`, "a"},
		{"non-json body", 502, "<html>Bad Gateway</html>", "Bad Gateway"},
		{"empty body", 404, "", "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newServerError(tt.status, []byte(tt.body))
			assert.Equal(t, KindServerError, got.Kind)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}
}

func TestAPIErrorError(t *testing.T) {
	assert.Equal(t, "boom", (&APIError{Kind: KindUnknown, Message: "boom"}).Error())
	assert.Equal(t, "timeout", (&APIError{Kind: KindTimeout}).Error())
}
