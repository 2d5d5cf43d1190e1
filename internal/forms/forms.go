package forms

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"itms/internal/validation"
)

// Layouts accepted at the form boundary.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

// Form coerces submitted string fields into typed values, collecting every
// parse failure into a Violations map so handlers can reject the whole
// operation before any write happens.
type Form struct {
	values url.Values
	V      validation.Violations
}

func New(values url.Values) *Form {
	return &Form{values: values, V: validation.Violations{}}
}

func (f *Form) Ok() bool { return f.V.Empty() }

// String returns the trimmed raw value.
func (f *Form) String(field string) string {
	return strings.TrimSpace(f.values.Get(field))
}

// Required returns the trimmed value and records a violation when empty.
func (f *Form) Required(field string) string {
	v := f.String(field)
	validation.Required(field, v, f.V)
	return v
}

// StringOr returns the trimmed value or def when empty.
func (f *Form) StringOr(field, def string) string {
	if v := f.String(field); v != "" {
		return v
	}
	return def
}

// Float parses a required float field.
func (f *Form) Float(field string) float64 {
	raw := f.Required(field)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f.V[field] = "invalid_number"
		return 0
	}
	return n
}

// FloatOr parses an optional float field, returning def when empty.
func (f *Form) FloatOr(field string, def float64) float64 {
	raw := f.String(field)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f.V[field] = "invalid_number"
		return def
	}
	return n
}

// OptionalFloat parses an optional float field, nil when empty.
func (f *Form) OptionalFloat(field string) *float64 {
	raw := f.String(field)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f.V[field] = "invalid_number"
		return nil
	}
	return &n
}

// IntOr parses an optional int field, returning def when empty.
func (f *Form) IntOr(field string, def int) int {
	raw := f.String(field)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f.V[field] = "invalid_number"
		return def
	}
	return n
}

// Uint parses a required positive id field.
func (f *Form) Uint(field string) uint {
	raw := f.Required(field)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		f.V[field] = "invalid_id"
		return 0
	}
	return uint(n)
}

// OptionalUint parses an optional id field, nil when empty.
func (f *Form) OptionalUint(field string) *uint {
	raw := f.String(field)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		f.V[field] = "invalid_id"
		return nil
	}
	id := uint(n)
	return &id
}

// Date parses a required YYYY-MM-DD field.
func (f *Form) Date(field string) time.Time {
	raw := f.Required(field)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		f.V[field] = "invalid_date"
		return time.Time{}
	}
	return t
}

// OptionalDate parses an optional YYYY-MM-DD field, nil when empty.
func (f *Form) OptionalDate(field string) *time.Time {
	raw := f.String(field)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		f.V[field] = "invalid_date"
		return nil
	}
	return &t
}

// DateTime parses a required YYYY-MM-DDTHH:MM field (HTML datetime-local).
func (f *Form) DateTime(field string) time.Time {
	raw := f.Required(field)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateTimeLayout, raw)
	if err != nil {
		f.V[field] = "invalid_datetime"
		return time.Time{}
	}
	return t
}
