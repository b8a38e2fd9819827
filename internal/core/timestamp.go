package core

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Timestamp is a point in time attached to a source record. Upstream systems
// deliver it in more than one shape: epoch seconds as a bare number, a
// {seconds, nanoseconds} wrapper object, or a date string. A value that
// cannot be parsed stays invalid instead of failing the decode, so one bad
// record never breaks a whole collection.
type Timestamp struct {
	t     time.Time
	valid bool
}

// Accepted string layouts, tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewTimestamp returns a valid Timestamp for t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC(), valid: true}
}

// TimestampFromUnix returns a valid Timestamp for the given epoch seconds.
func TimestampFromUnix(sec int64) Timestamp {
	return Timestamp{t: time.Unix(sec, 0).UTC(), valid: true}
}

// ParseTimestamp parses a date string using the accepted layouts.
// The zero Timestamp is returned for input it cannot understand.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t: t.UTC(), valid: true}
		}
	}
	return Timestamp{}
}

// Valid reports whether the timestamp carries a usable point in time.
func (ts Timestamp) Valid() bool { return ts.valid }

// Time returns the underlying time in UTC, the zero time when invalid.
func (ts Timestamp) Time() time.Time { return ts.t }

// Unix returns the epoch seconds of the timestamp, 0 when invalid.
func (ts Timestamp) Unix() int64 {
	if !ts.valid {
		return 0
	}
	return ts.t.Unix()
}

// Before reports whether ts is strictly before t. An invalid timestamp is
// before nothing.
func (ts Timestamp) Before(t time.Time) bool {
	return ts.valid && ts.t.Before(t)
}

// In reports whether ts falls within [start, end).
func (ts Timestamp) In(start, end time.Time) bool {
	return ts.valid && !ts.t.Before(start) && ts.t.Before(end)
}

func (ts Timestamp) String() string {
	if !ts.valid {
		return "invalid"
	}
	return ts.t.Format(time.RFC3339)
}

// MarshalJSON writes the timestamp as an RFC3339 string, or null when invalid.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.valid {
		return []byte("null"), nil
	}
	return json.Marshal(ts.t.Format(time.RFC3339))
}

// UnmarshalJSON accepts a JSON number (epoch seconds, fractional allowed),
// a {"seconds": n, "nanoseconds": n} object, or a date string. Anything else
// leaves the Timestamp invalid without returning an error.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = Timestamp{}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	switch trimmed[0] {
	case '{':
		var wrapper struct {
			Seconds     *int64 `json:"seconds"`
			Nanoseconds int64  `json:"nanoseconds"`
			// Some exports prefix the fields with an underscore.
			USeconds     *int64 `json:"_seconds"`
			UNanoseconds int64  `json:"_nanoseconds"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil
		}
		switch {
		case wrapper.Seconds != nil:
			*ts = Timestamp{t: time.Unix(*wrapper.Seconds, wrapper.Nanoseconds).UTC(), valid: true}
		case wrapper.USeconds != nil:
			*ts = Timestamp{t: time.Unix(*wrapper.USeconds, wrapper.UNanoseconds).UTC(), valid: true}
		}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*ts = ParseTimestamp(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		sec, frac := math.Modf(f)
		*ts = Timestamp{t: time.Unix(int64(sec), int64(frac*1e9)).UTC(), valid: true}
	}
	return nil
}

var (
	_ json.Marshaler   = Timestamp{}
	_ json.Unmarshaler = (*Timestamp)(nil)
)
