package dto

import (
	"encoding/json"
	"time"
)

// Date is a request timestamp that accepts both calendar dates
// (2006-01-02) and full RFC 3339 timestamps. A bare date is taken as
// midnight UTC.
type Date struct {
	time.Time
}

// NewDate wraps a time for use in request payloads.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t

	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.RFC3339))
}
