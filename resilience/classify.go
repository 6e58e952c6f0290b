package resilience

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// IsTimeout reports whether err is a timeout: an ErrTimeout, an expired
// deadline, or a net.Error that says so.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsConnectError reports whether err happened while establishing a
// connection: dial failures, refused connections and DNS lookups.
func IsConnectError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}

// NetworkRetryIf returns a retry predicate for outbound requests.
// Connection failures are always retried; timeouts only when
// retryOnTimeout is set. Everything else is fatal.
func NetworkRetryIf(retryOnTimeout bool) func(err error) bool {
	return func(err error) bool {
		if IsConnectError(err) {
			return true
		}
		return retryOnTimeout && IsTimeout(err)
	}
}
