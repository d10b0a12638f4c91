package types

import (
	"testing"
	"time"

	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastMonthDateRange(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "leap year february",
			now:       time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "non leap year february",
			now:       time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "january rolls back to december",
			now:       time.Date(2025, time.January, 31, 23, 59, 59, 0, time.UTC),
			wantStart: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "thirty day month",
			now:       time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "calendar of the given zone decides the month",
			now:       time.Date(2024, time.April, 1, 1, 0, 0, 0, tokyo),
			wantStart: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LastMonthDateRange(tt.now)
			assert.True(t, tt.wantStart.Equal(got.Start), "start: want %s got %s", tt.wantStart, got.Start)
			assert.True(t, tt.wantEnd.Equal(got.End), "end: want %s got %s", tt.wantEnd, got.End)
			assert.Equal(t, 1, got.Start.Day())
			assert.False(t, got.Start.After(got.End))
		})
	}
}

var tokyo = time.FixedZone("JST", 9*60*60)

func TestNewDateRange(t *testing.T) {
	start := time.Date(2024, time.February, 1, 13, 45, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 29, 8, 0, 0, 0, time.UTC)

	r, err := NewDateRange(start, end)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", r.QueryStart())
	assert.Equal(t, "2024-02-29", r.QueryEnd(false))
	assert.Equal(t, "2024-03-01", r.QueryEnd(true))
	assert.Equal(t, 29, r.Days())

	single, err := NewDateRange(start, start)
	require.NoError(t, err)
	assert.Equal(t, 1, single.Days())

	_, err = NewDateRange(end, start)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2023-12-01", "2023-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", r.QueryEnd(true))
	assert.Equal(t, "2023-12-01..2023-12-31", r.String())

	_, err = ParseDateRange("2023-13-01", "2023-12-31")
	assert.True(t, ierr.IsValidation(err))

	_, err = ParseDateRange("2023-12-01", "yesterday")
	assert.True(t, ierr.IsValidation(err))
}
