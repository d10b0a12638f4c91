package types

import (
	"time"

	ierr "github.com/flexprice/costinvoice/internal/errors"
)

// DateLayout is the ISO 8601 calendar date layout used on the wire
const DateLayout = "2006-01-02"

// DateRange is a billing period of whole calendar days. End is inclusive.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a range truncated to calendar days in UTC.
// It fails when start is after end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = toDate(start)
	end = toDate(end)
	if start.After(end) {
		return DateRange{}, ierr.NewErrorf("date range start %s is after end %s", start.Format(DateLayout), end.Format(DateLayout)).
			WithHint("Start date must not be after end date").
			Mark(ierr.ErrValidation)
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange parses two ISO dates into a DateRange
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, ierr.WithError(err).
			WithHintf("Invalid start date %q, expected YYYY-MM-DD", start).
			Mark(ierr.ErrValidation)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, ierr.WithError(err).
			WithHintf("Invalid end date %q, expected YYYY-MM-DD", end).
			Mark(ierr.ErrValidation)
	}
	return NewDateRange(s, e)
}

// LastMonthDateRange returns the first through the last calendar day of
// the month before now.
func LastMonthDateRange(now time.Time) DateRange {
	y, m, _ := now.Date()
	firstOfThisMonth := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{
		Start: firstOfThisMonth.AddDate(0, -1, 0),
		End:   firstOfThisMonth.AddDate(0, 0, -1),
	}
}

// QueryStart formats the start date for upstream queries
func (r DateRange) QueryStart() string {
	return r.Start.Format(DateLayout)
}

// QueryEnd formats the end date for upstream queries. APIs that treat the
// end as exclusive need one extra day to cover the last day of the range.
func (r DateRange) QueryEnd(exclusive bool) string {
	if exclusive {
		return r.End.AddDate(0, 0, 1).Format(DateLayout)
	}
	return r.End.Format(DateLayout)
}

// Days returns the number of calendar days covered, both ends included
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
