// Package clock provides UTC wall-clock reads kept as second/nanosecond pairs
// and the normalized subtraction the report format is built on.
package clock

import (
	"fmt"
	"time"
)

// Timespec is a wall-clock instant or interval split into whole seconds and
// nanoseconds. Nsec is always in [0, 1e9) after normalization.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// Now reads the wall clock in UTC.
func Now() Timespec {
	t := time.Now().UTC()
	return Timespec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// FromTime converts a time.Time to a Timespec.
func FromTime(t time.Time) Timespec {
	return Timespec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// Sub returns t - u. When the nanosecond component underflows it borrows one
// second, so the result's Nsec stays in [0, 1e9). A result that would still be
// negative (the wall clock stepped backwards between reads) is clamped to zero.
func (t Timespec) Sub(u Timespec) Timespec {
	d := Timespec{Sec: t.Sec - u.Sec, Nsec: t.Nsec - u.Nsec}
	if d.Nsec < 0 {
		d.Sec--
		d.Nsec += 1_000_000_000
	}
	if d.Sec < 0 {
		return Timespec{}
	}
	return d
}

// Duration converts an interval Timespec to a time.Duration.
func (t Timespec) Duration() time.Duration {
	return time.Duration(t.Sec)*time.Second + time.Duration(t.Nsec)
}

// IsZero reports whether both components are zero.
func (t Timespec) IsZero() bool {
	return t.Sec == 0 && t.Nsec == 0
}

// String renders the pair as "<sec>.<nanosec>" with nanoseconds zero-padded to
// nine digits, matching the report line format.
func (t Timespec) String() string {
	return fmt.Sprintf("%d.%09d", t.Sec, t.Nsec)
}

// MarshalJSON encodes the pair as its String form.
func (t Timespec) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}
