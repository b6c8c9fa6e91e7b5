package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Valid(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "trailing currency symbol",
			raw:      "102,15700000 Bs",
			expected: "102.16",
		},
		{
			name:     "plain comma decimal",
			raw:      "117,9045",
			expected: "117.9",
		},
		{
			name:     "thousands separator dropped",
			raw:      "1.234,56",
			expected: "1234.56",
		},
		{
			name:     "integer only",
			raw:      "42",
			expected: "42",
		},
		{
			name:     "rounds half up",
			raw:      "10,005",
			expected: "10.01",
		},
		{
			name:     "surrounding whitespace and symbols",
			raw:      "  Bs. 36,51 ",
			expected: "36.51",
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			v, err := Normalize(testCase.raw)
			require.NoError(t, err)

			assert.Equal(t, testCase.expected, v.String())
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name string
		raw  string
	}{
		{
			name: "unavailable sentinel",
			raw:  Unavailable,
		},
		{
			name: "empty string",
			raw:  "",
		},
		{
			name: "letters only",
			raw:  "sin datos",
		},
		{
			name: "multiple decimal commas",
			raw:  "10,20,30",
		},
		{
			name: "lone comma",
			raw:  ",",
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			v, err := Normalize(testCase.raw)

			assert.ErrorIs(t, err, ErrNotANumber)
			assert.True(t, v.IsZero())
		})
	}
}
