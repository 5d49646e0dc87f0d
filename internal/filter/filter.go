// Package filter validates the creation-date range used to narrow an export.
package filter

import (
	"strings"
	"time"

	"github.com/danielolaszy/glissues/internal/apperr"
)

// DateLayout is the only accepted input format for dates.
const DateLayout = "2006-01-02"

// Range is an inclusive creation-date window. A nil bound means unbounded.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// ParseDate parses a YYYY-MM-DD string as a UTC date. Blank input returns nil
// with no error.
func ParseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInput, err, "invalid date %q, expected YYYY-MM-DD", value)
	}
	return &d, nil
}

// NewRange parses both bounds and checks that start is not after end.
func NewRange(start, end string) (Range, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Range{}, err
	}

	if s != nil && e != nil && s.After(*e) {
		return Range{}, apperr.New(apperr.KindInput, "start date %s is after end date %s",
			s.Format(DateLayout), e.Format(DateLayout))
	}
	return Range{Start: s, End: e}, nil
}

// IsZero reports whether the range has no bounds.
func (r Range) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// CreatedAfter returns the lower bound as sent to GitLab, the first second of
// the start day in UTC, or nil when there is no lower bound.
func (r Range) CreatedAfter() *time.Time {
	if r.Start == nil {
		return nil
	}
	first := r.Start.UTC()
	return &first
}

// CreatedBefore returns the upper bound as sent to GitLab, the last second of
// the end day in UTC, so the end date itself is included. It is nil when there
// is no upper bound.
func (r Range) CreatedBefore() *time.Time {
	if r.End == nil {
		return nil
	}
	last := r.End.UTC().Add(24*time.Hour - time.Second)
	return &last
}

// String renders the range for logs.
func (r Range) String() string {
	from, to := "*", "*"
	if r.Start != nil {
		from = r.Start.Format(DateLayout)
	}
	if r.End != nil {
		to = r.End.Format(DateLayout)
	}
	return from + ".." + to
}
