package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocalizedNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{
			name:     "dot as thousands separator",
			input:    "8.500",
			expected: 8500,
			ok:       true,
		},
		{
			name:     "comma as decimal separator",
			input:    "8,50",
			expected: 8.5,
			ok:       true,
		},
		{
			name:     "grouped thousands with decimal",
			input:    "1.234.567,89",
			expected: 1234567.89,
			ok:       true,
		},
		{
			name:     "plain integer",
			input:    "15000",
			expected: 15000,
			ok:       true,
		},
		{
			name:     "inner spaces tolerated",
			input:    "15 000",
			expected: 15000,
			ok:       true,
		},
		{
			name:  "zero rejected",
			input: "0",
			ok:    false,
		},
		{
			name:  "negative rejected",
			input: "-50",
			ok:    false,
		},
		{
			name:  "garbage rejected",
			input: "na upit",
			ok:    false,
		},
		{
			name:  "empty rejected",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ParseLocalizedNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, v, 0.001)
			}
		})
	}
}
