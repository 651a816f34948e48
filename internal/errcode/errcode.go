// Package errcode converts transport-level failures into the stable numeric
// codes surfaced in report lines, and digs out the underlying OS error number
// when one exists. The code values follow the client-library numbering the
// report format exposes, so logs stay comparable across tool versions.
package errcode

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/url"
	"syscall"
)

const (
	OK                 int64 = 0
	FailedInit         int64 = 2
	URLMalformed       int64 = 3
	CouldntResolveHost int64 = 6
	CouldntConnect     int64 = 7
	OperationTimedOut  int64 = 28
	SSLConnectError    int64 = 35
	GotNothing         int64 = 52
	SendError          int64 = 55
	RecvError          int64 = 56
)

// Classify maps a request error to a numeric code and message. A nil error
// yields OK and an empty message.
func Classify(err error) (int64, string) {
	if err == nil {
		return OK, ""
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CouldntResolveHost, err.Error()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return OperationTimedOut, err.Error()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return OperationTimedOut, err.Error()
	}

	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return SSLConnectError, err.Error()
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return SSLConnectError, err.Error()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch opErr.Op {
		case "dial":
			return CouldntConnect, err.Error()
		case "write":
			return SendError, err.Error()
		case "read":
			return RecvError, err.Error()
		}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED, syscall.EHOSTUNREACH, syscall.ENETUNREACH:
			return CouldntConnect, err.Error()
		case syscall.ECONNRESET, syscall.EPIPE:
			return RecvError, err.Error()
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return URLMalformed, err.Error()
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return GotNothing, err.Error()
	}

	return RecvError, err.Error()
}

// OSErrno returns the OS error number buried in err, or 0 when the failure did
// not originate in a system call.
func OSErrno(err error) int64 {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int64(errno)
	}
	return 0
}
