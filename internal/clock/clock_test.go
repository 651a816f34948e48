package clock_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/torosent/volley/internal/clock"
)

func TestSubBorrowsNanoseconds(t *testing.T) {
	end := clock.Timespec{Sec: 10, Nsec: 100}
	start := clock.Timespec{Sec: 8, Nsec: 999_999_900}

	d := end.Sub(start)
	if d.Sec != 1 || d.Nsec != 200 {
		t.Fatalf("expected 1.000000200, got %d.%09d", d.Sec, d.Nsec)
	}
}

func TestSubWithoutBorrow(t *testing.T) {
	end := clock.Timespec{Sec: 5, Nsec: 500}
	start := clock.Timespec{Sec: 3, Nsec: 100}

	d := end.Sub(start)
	if d.Sec != 2 || d.Nsec != 400 {
		t.Fatalf("expected 2.000000400, got %d.%09d", d.Sec, d.Nsec)
	}
}

func TestSubNeverNegative(t *testing.T) {
	// Wall clock stepped backwards between reads.
	end := clock.Timespec{Sec: 3, Nsec: 0}
	start := clock.Timespec{Sec: 5, Nsec: 100}

	d := end.Sub(start)
	if d.Sec < 0 || d.Nsec < 0 {
		t.Fatalf("elapsed went negative: %d.%09d", d.Sec, d.Nsec)
	}
	if !d.IsZero() {
		t.Fatalf("expected clamp to zero, got %s", d)
	}
}

func TestStringPadsNanoseconds(t *testing.T) {
	ts := clock.Timespec{Sec: 1, Nsec: 42}
	if got := ts.String(); got != "1.000000042" {
		t.Fatalf("expected 1.000000042, got %s", got)
	}
}

func TestNowAdvances(t *testing.T) {
	a := clock.Now()
	time.Sleep(time.Millisecond)
	b := clock.Now()

	d := b.Sub(a)
	if d.IsZero() {
		t.Fatal("expected nonzero elapsed between reads")
	}
	if d.Duration() < time.Millisecond {
		t.Fatalf("elapsed too small: %s", d.Duration())
	}
}

func TestMarshalJSON(t *testing.T) {
	ts := clock.Timespec{Sec: 2, Nsec: 7}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2.000000007"` {
		t.Fatalf("unexpected JSON: %s", data)
	}
}
