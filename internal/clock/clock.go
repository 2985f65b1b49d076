// Package clock supplies timestamps in the fixed textual format used by the
// settings store wire contract.
package clock

import "time"

// Layout is the wire timestamp format: second-precision RFC 3339 in UTC.
const Layout = "2006-01-02T15:04:05Z07:00"

// Clock yields the current time. The store takes a Clock so tests can pin it.
type Clock interface {
	Now() time.Time
}

// System is the real clock. It reports UTC truncated to whole seconds so that
// stored and exported timestamps round-trip through Format/Parse exactly.
type System struct{}

// Now returns the current UTC time at second precision.
func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Func adapts a plain function to the Clock interface.
type Func func() time.Time

// Now calls the wrapped function.
func (f Func) Now() time.Time { return f() }

// Format renders a timestamp in the wire format.
func Format(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(Layout)
}

// Parse reads a wire-format timestamp.
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}
