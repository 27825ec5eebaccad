package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateString(t *testing.T) {
	cases := []struct {
		in   string
		want *DateValue
	}{
		{"2023", &DateValue{Year: 2023}},
		{"Jan 2023", &DateValue{Year: 2023, Month: 1}},
		{"sep 2021", &DateValue{Year: 2021, Month: 9}},
		{"15 Jan 2023", &DateValue{Year: 2023, Month: 1, Day: 15}},
		{"3 Dec 1999", &DateValue{Year: 1999, Month: 12, Day: 3}},
		{"01/15/2023", &DateValue{Year: 2023, Month: 1, Day: 15}},
		{"2023-01-15", &DateValue{Year: 2023, Month: 1, Day: 15}},
		{"2023-1-5", &DateValue{Year: 2023, Month: 1, Day: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := ParseDateString(tc.in)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDateStringPresent(t *testing.T) {
	for _, in := range []string{"present", "Present", "PRESENT", "current", "Current"} {
		got := ParseDateString(in)
		require.NotNil(t, got, in)
		assert.True(t, got.IsPresent, in)
		assert.Equal(t, time.Now().Year(), got.Year, in)
	}
}

func TestParseDateStringUnparseable(t *testing.T) {
	for _, in := range []string{"", "soon", "13/45/2023", "Janu 2023", "2023-13-01", "15 Xxx 2023"} {
		assert.Nil(t, ParseDateString(in), in)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Present", FormatDate(DateValue{Year: 2024, IsPresent: true}))
	assert.Equal(t, "15 Jan 2023", FormatDate(DateValue{Year: 2023, Month: 1, Day: 15}))
	assert.Equal(t, "Jan 2023", FormatDate(DateValue{Year: 2023, Month: 1}))
	assert.Equal(t, "2023", FormatDate(DateValue{Year: 2023}))
}

// Formatting a parsed date must be stable: parsing the formatted string again
// yields the same value.
func TestParseFormatRoundTrip(t *testing.T) {
	for _, in := range []string{"2023", "Jan 2023", "15 Jan 2023", "01/15/2023", "2023-01-15", "present"} {
		first := ParseDateString(in)
		require.NotNil(t, first, in)
		formatted := FormatDate(*first)
		second := ParseDateString(formatted)
		require.NotNil(t, second, formatted)
		assert.Equal(t, first, second, in)
		assert.Equal(t, formatted, FormatDate(*second), in)
	}
}
