package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oglasnik/importer/internal/ai"
	"oglasnik/importer/internal/domain"
	"oglasnik/importer/internal/fetch"
	"oglasnik/importer/internal/resolve"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "scheme defaulted to https",
			input:    "www.example.com/oglas/123",
			expected: "https://www.example.com/oglas/123",
		},
		{
			name:     "tracking params stripped",
			input:    "https://example.com/oglas/123?utm_source=fb&id=5&fbclid=abc",
			expected: "https://example.com/oglas/123?id=5",
		},
		{
			name:     "fragment dropped",
			input:    "https://example.com/oglas/123#galerija",
			expected: "https://example.com/oglas/123",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  https://example.com/a  ",
			expected: "https://example.com/a",
		},
		{
			name:    "non-http scheme rejected",
			input:   "ftp://example.com/file",
			wantErr: true,
		},
		{
			name:    "empty rejected",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInsufficientContent(t *testing.T) {
	long := func(s string) string {
		for len(s) < 600 {
			s += " padding padding padding"
		}
		return s
	}

	tests := []struct {
		name     string
		html     string
		expected bool
	}{
		{
			name:     "short body",
			html:     "<html><body>403</body></html>",
			expected: true,
		},
		{
			name:     "captcha interstitial",
			html:     long("<html><body>Please solve this CAPTCHA to continue"),
			expected: true,
		},
		{
			name:     "captcha word on a real ad page",
			html:     long(`<html><head><meta property="og:title" content="Golf 5"/></head><body>captcha quiz knjiga, Cijena: 5 KM`),
			expected: false,
		},
		{
			name:     "normal page",
			html:     long("<html><body>Prodajem golf 5"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, insufficientContent(tt.html))
		})
	}
}

// --- pipeline fixtures ---

type stubFetcher struct {
	html string
	err  error
}

func (s *stubFetcher) FetchPage(ctx context.Context, targetURL string) (*fetch.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &fetch.Page{HTML: s.html, FinalURL: targetURL}, nil
}

type stubProvider struct {
	draft    *ai.Draft
	draftErr error
}

func (s *stubProvider) ProposeListing(ctx context.Context, signals ai.Signals) (*ai.Draft, error) {
	return s.draft, s.draftErr
}

func (s *stubProvider) PickCategory(ctx context.Context, title string, categories []string) (string, error) {
	return "", errors.New("unavailable")
}

func (s *stubProvider) PickItemIndex(ctx context.Context, title, subcategory string, items []string) (int, error) {
	return 0, errors.New("unavailable")
}

func pipelineTaxonomy() *domain.Taxonomy {
	return &domain.Taxonomy{Categories: []domain.Category{
		{ID: "vozila", Name: "Vozila", SubCategories: []domain.SubCategoryGroup{
			{Name: "Osobni automobili", Items: []string{"Volkswagen", "BMW", "Audi", "Ostalo"}},
		}},
		{ID: "ostalo", Name: "Ostalo", SubCategories: []domain.SubCategoryGroup{
			{Name: "Razno"},
		}},
	}}
}

func newTestService(fetcher fetch.PageFetcher, provider ai.Provider) *Service {
	taxonomy := pipelineTaxonomy()
	return NewService(
		fetcher,
		provider,
		resolve.NewResolver(taxonomy, provider),
		taxonomy,
		nil, nil, nil,
		"test_group",
		60,
	)
}

const vehiclePage = `<!DOCTYPE html>
<html>
<head>
<title>BMW 320d 2015</title>
<meta property="og:title" content="BMW 320d 2015"/>
<meta property="og:image" content="https://img.example.com/ads/9/photo.jpg"/>
<script type="application/ld+json">
{"@type":"Product","name":"BMW 320d 2015","offers":{"price":"15.000","priceCurrency":"EUR"}}
</script>
</head>
<body>
<nav class="breadcrumb"><a href="/vozila">Vozila</a><a href="/vozila/osobni">Osobni automobili</a></nav>
<div id="description">Prodajem BMW 320d, 2015. godište, redovno servisiran i garažiran.</div>
<table><tr><th>Lokacija</th><td>Sarajevo</td></tr></table>
</body>
</html>`

func TestImportListingEndToEnd(t *testing.T) {
	svc := newTestService(
		&stubFetcher{html: vehiclePage},
		&stubProvider{draft: &ai.Draft{
			Title:       "BMW 320d 2015",
			Category:    "Vozila",
			SubCategory: "Osobni automobili",
			Condition:   "korišteno",
		}},
	)

	listing, err := svc.ImportListing(context.Background(), "https://example.com/oglas/9")
	require.NoError(t, err)

	assert.Equal(t, "Vozila", listing.Category)
	assert.Equal(t, "Osobni automobili", listing.SubCategory)
	assert.Equal(t, "BMW", listing.CategoryItem)
	assert.Equal(t, 15000.0, listing.Price)
	assert.Equal(t, "EUR", listing.Currency)
	assert.Equal(t, domain.PriceTypeFixed, listing.PriceType)
	assert.Equal(t, 2015, listing.Year)
	assert.Equal(t, "Sarajevo", listing.Location)
	assert.Equal(t, domain.ConditionUsed, listing.Condition)
	assert.Equal(t, "BMW", listing.Attributes["brand"])
	assert.Equal(t, "Dizel", listing.Attributes["fuel"])
	assert.False(t, listing.Fallback)
	assert.NotEmpty(t, listing.ID)
}

func TestImportListingDegradesWhenAIFails(t *testing.T) {
	svc := newTestService(
		&stubFetcher{html: vehiclePage},
		&stubProvider{draftErr: errors.New("service unreachable")},
	)

	listing, err := svc.ImportListing(context.Background(), "https://example.com/oglas/9")
	require.NoError(t, err)

	assert.True(t, listing.Fallback)
	assert.Equal(t, "BMW 320d 2015", listing.Title)
	assert.NotEmpty(t, listing.Images)
	assert.Equal(t, "Sarajevo", listing.Location)
	// Deterministic stages still classify without AI.
	assert.Equal(t, "Vozila", listing.Category)
}

func TestImportListingPropagatesFetchErrors(t *testing.T) {
	fetchErr := &fetch.Error{Kind: fetch.KindBlocked, URL: "https://example.com/x"}
	svc := newTestService(&stubFetcher{err: fetchErr}, nil)

	_, err := svc.ImportListing(context.Background(), "https://example.com/x")
	require.Error(t, err)
	assert.Equal(t, fetch.KindBlocked, fetch.KindOf(err))
}

func TestImportListingRejectsThinPages(t *testing.T) {
	svc := newTestService(&stubFetcher{html: "<html></html>"}, nil)

	_, err := svc.ImportListing(context.Background(), "https://example.com/x")
	assert.ErrorIs(t, err, ErrInsufficientContent)
}
