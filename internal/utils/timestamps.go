package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are the formats the auth export has been seen to use,
// tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ErrEmptyTimestamp reports a blank timestamp field.
var ErrEmptyTimestamp = errors.New("timestamp is empty")

// ParseTimestamp parses a roster timestamp string against the known export
// layouts. Values are interpreted as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyTimestamp
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseEpochMillis parses an epoch-millisecond value that may arrive as a
// bare integer string.
func ParseEpochMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

// FormatEpochMillis renders an epoch-millisecond value the way the auth
// export writes timestamps. Zero means the event never happened (e.g. a
// user who never signed in) and renders empty.
func FormatEpochMillis(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}
