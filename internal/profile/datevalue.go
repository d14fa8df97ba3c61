package profile

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DateValue is an end date: a YYYY-MM string, or a marker for an ongoing
// period (empty, "present", "now", or the boolean false).
type DateValue string

// Ongoing reports whether the date marks an ongoing period.
func (d DateValue) Ongoing() bool {
	v := strings.ToLower(strings.TrimSpace(string(d)))
	return v == "" || presentValues[v]
}

// UnmarshalJSON accepts a string, false or null.
func (d *DateValue) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.set(v)
}

// UnmarshalTOML accepts a string or false.
func (d *DateValue) UnmarshalTOML(v any) error {
	return d.set(v)
}

// UnmarshalYAML accepts a string, false or null.
func (d *DateValue) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *DateValue) set(v any) error {
	switch x := v.(type) {
	case nil:
		*d = ""
	case string:
		*d = DateValue(strings.TrimSpace(x))
	case bool:
		if x {
			return fmt.Errorf("%w: true is not a date, use false for ongoing", ErrInvalidDate)
		}
		*d = "false"
	default:
		return fmt.Errorf("%w: %v is not a YYYY-MM string", ErrInvalidDate, v)
	}
	return nil
}
