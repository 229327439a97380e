package duration

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    *Duration
		expectErr bool
	}{
		{name: "plural hours", input: "2 hours", expect: &Duration{Value: 2, Unit: Hour}},
		{name: "plural seconds", input: "30 seconds", expect: &Duration{Value: 30, Unit: Second}},
		{name: "singular hour", input: "1 hour", expect: &Duration{Value: 1, Unit: Hour}},
		{name: "no whitespace", input: "15minutes", expect: &Duration{Value: 15, Unit: Minute}},
		{name: "mixed case", input: "3 DAYS", expect: &Duration{Value: 3, Unit: Day}},
		{name: "fraction", input: "1.5 weeks", expect: &Duration{Value: 1.5, Unit: Week}},
		{name: "month", input: "6 month", expect: &Duration{Value: 6, Unit: Month}},
		{name: "surrounding space", input: "  4 hours ", expect: &Duration{Value: 4, Unit: Hour}},
		{name: "zero", input: "0 seconds", expect: &Duration{Value: 0, Unit: Second}},
		{name: "not a duration", input: "abc", expectErr: true},
		{name: "empty", input: "", expectErr: true},
		{name: "missing unit", input: "12", expectErr: true},
		{name: "missing value", input: "hours", expectErr: true},
		{name: "unknown unit", input: "5 years", expectErr: true},
		{name: "negative", input: "-1 hour", expectErr: true},
		{name: "trailing text", input: "2 hours later", expectErr: true},
		{name: "dangling dot", input: "2. hours", expectErr: true},
		{name: "double plural", input: "2 hourss", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Parse(tc.input)
			if tc.expectErr {
				require.Error(t, err)
				var formatErr *FormatError
				assert.True(t, errors.As(err, &formatErr))
				assert.Equal(t, tc.input, formatErr.Input)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, tc.expect, actual)
		})
	}
}

func TestDuration_AsTime(t *testing.T) {
	assert.Equal(t, 2*time.Hour, New(2, Hour).AsTime())
	assert.Equal(t, 90*time.Minute, New(1.5, Hour).AsTime())
	assert.Equal(t, 30*24*time.Hour, New(1, Month).AsTime())
	var empty *Duration
	assert.Equal(t, time.Duration(0), empty.AsTime())
}

func TestDuration_String(t *testing.T) {
	assert.Equal(t, "1 hour", New(1, Hour).String())
	assert.Equal(t, "30 seconds", New(30, Second).String())
	assert.Equal(t, "2.5 days", New(2.5, Day).String())

	for _, d := range []*Duration{New(1, Week), New(45, Minute), New(0.5, Month)} {
		parsed, err := Parse(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
}
