// Package probe executes a single HTTP request/response cycle and records the
// outcome as data. A probe never escalates a request failure: connection
// errors, timeouts, and status codes all land in the owning Result slot.
package probe

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/volley/internal/clock"
	"github.com/torosent/volley/internal/errcode"
)

// Result is one worker's record. Each Result is written exactly once by its
// owning probe; nothing reads it until the joiner has observed completion, so
// no synchronization is needed beyond the completion signal itself.
type Result struct {
	Ordinal    int            `json:"ordinal"`
	URL        string         `json:"url"`
	Start      clock.Timespec `json:"-"`
	End        clock.Timespec `json:"-"`
	StatusCode int64          `json:"status_code"`
	OSErrno    int64          `json:"os_errno"`
	ErrCode    int64          `json:"error_code"`
	ErrMsg     string         `json:"error,omitempty"`
	Total      time.Duration  `json:"total_ns"`
	Elapsed    clock.Timespec `json:"elapsed"`
}

// Failed reports whether the attempt is counted against the error tally.
// HTTP-level statuses are data, not failures; only transport and construction
// errors set the code.
func (r *Result) Failed() bool {
	return r.ErrCode != errcode.OK
}

// Probe holds the read-only settings shared by all workers. It carries no
// mutable state, so a single Probe may serve any number of goroutines.
type Probe struct {
	Timeout time.Duration // 0 means wait indefinitely
	Tracer  trace.Tracer
}

// Run performs one request/response cycle into res. The HTTP client is created
// inside the call and torn down before it returns; nothing is shared with
// other probes. The response body is consumed and discarded.
func (p *Probe) Run(ctx context.Context, res *Result) {
	res.Start = clock.Now()
	defer func() {
		res.End = clock.Now()
	}()

	if p.Tracer != nil {
		var span trace.Span
		ctx, span = p.Tracer.Start(ctx, "volley.probe", trace.WithAttributes(
			attribute.Int("volley.ordinal", res.Ordinal),
			attribute.String("url.full", res.URL),
		))
		defer func() {
			if res.Failed() {
				span.SetStatus(otelcodes.Error, res.ErrMsg)
			} else {
				span.SetAttributes(attribute.Int64("http.response.status_code", res.StatusCode))
			}
			span.End()
		}()
	}

	client := newClient(p.Timeout)
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		// Construction failure: recorded as a probe failure so it is tallied
		// and always printed, never left as a silent zero-valued slot.
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Op == "parse" {
			res.ErrCode = errcode.URLMalformed
		} else {
			res.ErrCode = errcode.FailedInit
		}
		res.ErrMsg = err.Error()
		return
	}

	begin := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		res.Total = time.Since(begin)
		res.ErrCode, res.ErrMsg = errcode.Classify(err)
		res.OSErrno = errcode.OSErrno(err)
		return
	}

	res.StatusCode = int64(resp.StatusCode)
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	res.Total = time.Since(begin)
}

// newClient builds the per-probe HTTP client. Each worker gets a fresh
// transport so no connection state crosses worker boundaries.
func newClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}

	dialer := &net.Dialer{
		KeepAlive: -1,
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		ForceAttemptHTTP2:   true,
		DisableKeepAlives:   true,
		MaxIdleConns:        1,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
