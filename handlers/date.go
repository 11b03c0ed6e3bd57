package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// dateLayouts are tried in order. Values without an offset are read as UTC.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// Date is a request timestamp that also accepts a bare date or a local date-time.
type Date struct {
	time.Time
}

// DateError reports a value none of the accepted layouts could read.
type DateError struct {
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%q is not a valid date. Use YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS or an RFC 3339 timestamp.", e.Value)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &DateError{Value: string(b)}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			d.Time = t
			return nil
		}
	}
	return &DateError{Value: s}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339Nano))
}
