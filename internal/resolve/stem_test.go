package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStemMatch(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{
			name:     "inflected suffix",
			a:        "spravama",
			b:        "sprava",
			expected: true,
		},
		{
			name:     "unrelated words",
			a:        "alat",
			b:        "sprava",
			expected: false,
		},
		{
			name:     "direct containment",
			a:        "osobni automobili",
			b:        "automobili",
			expected: true,
		},
		{
			name:     "case insensitive",
			a:        "MOTOCIKLI",
			b:        "motocikl",
			expected: true,
		},
		{
			name:     "inflected ending on the shorter word",
			a:        "telefon",
			b:        "telefonima",
			expected: true,
		},
		{
			name:     "empty input",
			a:        "",
			b:        "sprava",
			expected: false,
		},
		{
			name:     "short word contained in longer word",
			a:        "pas",
			b:        "pastir",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StemMatch(tt.a, tt.b))
		})
	}
}

func TestOverlapScore(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		phrase   string
		expected int
	}{
		{
			name:   "full phrase containment outscores word hits",
			text:   "Vozila > Osobni automobili > BMW",
			phrase: "Osobni automobili",
			// len(words) + 2 for a contained multi-word phrase
			expected: 4,
		},
		{
			name:     "single stem-matched word",
			text:     "prodajem automobil hitno",
			phrase:   "Osobni automobili",
			expected: 1,
		},
		{
			name:     "no overlap",
			text:     "iphone 13 pro",
			phrase:   "Namještaj",
			expected: 0,
		},
		{
			name:     "empty phrase",
			text:     "bilo šta",
			phrase:   "",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, overlapScore(tt.text, tt.phrase))
		})
	}
}
