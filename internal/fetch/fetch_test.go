package fetch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      ErrorKind
		retryable bool
	}{
		{
			name:      "timeout is retryable",
			err:       &Error{Kind: KindTimeout, URL: "https://example.com"},
			kind:      KindTimeout,
			retryable: true,
		},
		{
			name:      "rate limited is retryable",
			err:       &Error{Kind: KindRateLimited, URL: "https://example.com"},
			kind:      KindRateLimited,
			retryable: true,
		},
		{
			name:      "blocked is not retryable",
			err:       &Error{Kind: KindBlocked, URL: "https://example.com"},
			kind:      KindBlocked,
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			var fe *Error
			assert.True(t, errors.As(tt.err, &fe))
			assert.Equal(t, tt.retryable, fe.Retryable())
		})
	}
}

func TestKindOfWrappedAndForeignErrors(t *testing.T) {
	wrapped := fmt.Errorf("import failed: %w", &Error{Kind: KindTimeout, URL: "https://example.com"})
	assert.Equal(t, KindTimeout, KindOf(wrapped))

	assert.Equal(t, KindGeneric, KindOf(errors.New("boom")))
}

func TestProfileSupplierRotation(t *testing.T) {
	supplier := newProfileSupplier(nil)

	first := supplier.Ordered()
	second := supplier.Ordered()

	assert.Len(t, first, len(defaultProfiles))
	assert.Len(t, second, len(defaultProfiles))

	// Every call returns all profiles; the starting identity advances.
	assert.Equal(t, "desktop-chrome", first[0].Name)
	assert.Equal(t, "mobile-safari", second[0].Name)
	assert.Equal(t, first[1].Name, second[0].Name)

	// Fourth call wraps around to the first profile again.
	supplier.Ordered()
	fourth := supplier.Ordered()
	assert.Equal(t, "desktop-chrome", fourth[0].Name)
}

func TestProfilesCarryRealisticHeaders(t *testing.T) {
	for _, profile := range defaultProfiles {
		assert.NotEmpty(t, profile.Headers["User-Agent"], profile.Name)
		assert.NotEmpty(t, profile.Headers["Accept-Language"], profile.Name)
	}
}
