package store

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the short date format accepted from the mobile client.
const DateLayout = "2006-01-02"

// Coordinate is a latitude or longitude. In JSON it accepts numbers as well
// as numeric strings, the mobile client sends text field values as is.
type Coordinate float64

// NewCoordinate returns a pointer to a coordinate.
func NewCoordinate(f float64) *Coordinate {
	c := Coordinate(f)
	return &c
}

// Float returns the value of a coordinate.
func (c Coordinate) Float() float64 {
	return float64(c)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if strings.HasPrefix(s, `"`) {
		var err error
		s, err = strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("cannot read coordinate %s: %w", data, err)
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		if s == "" {
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("cannot read coordinate %s: %w", data, err)
	}
	*c = Coordinate(f)
	return nil
}

// Date is a calendar date or a timestamp of an observation.
type Date struct {
	time.Time
}

// NewDate wraps a time.
func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

// ParseDate reads RFC 3339 timestamps and YYYY-MM-DD dates.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("cannot read date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.UTC().Format(time.RFC3339))), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("cannot read date %s: %w", data, err)
	}
	res, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = res
	return nil
}
