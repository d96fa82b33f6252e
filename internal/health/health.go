package health

import (
	"errors"
	"time"
)

// StatusOK is the only status the reporter produces.
const StatusOK = "OK"

// TimeLayout is the ISO-8601 layout used for the time field, UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Status is the snapshot exchanged between the reporter and the viewer.
type Status struct {
	Status string `json:"status"`
	App    string `json:"app"`
	Time   string `json:"time"`
}

// Clock returns the current instant.
type Clock func() time.Time

// Reporter builds a fresh Status on every call. It holds no mutable state.
type Reporter struct {
	appName string
	clock   Clock
}

// NewReporter returns a Reporter for the given application name.
// A nil clock falls back to time.Now.
func NewReporter(appName string, clock Clock) *Reporter {
	if clock == nil {
		clock = time.Now
	}
	return &Reporter{appName: appName, clock: clock}
}

// AppName returns the configured application name.
func (r *Reporter) AppName() string {
	return r.appName
}

// GetHealth returns the current status snapshot. It always reports StatusOK.
func (r *Reporter) GetHealth() Status {
	return Status{
		Status: StatusOK,
		App:    r.appName,
		Time:   r.clock().UTC().Format(TimeLayout),
	}
}

var errEmptyTime = errors.New("time value is empty")

// ParseTime parses a time field produced by a reporter. Both TimeLayout and RFC 3339
// (with or without fractional seconds) are accepted.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errEmptyTime
	}
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
