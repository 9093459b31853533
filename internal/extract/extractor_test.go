package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = []string{"Vozila", "Nekretnine", "Ostalo"}

const adPage = `<!DOCTYPE html>
<html>
<head>
<title>BMW 320d 2015 - Oglasnik</title>
<meta property="og:title" content="BMW 320d 2015"/>
<meta property="og:description" content="Oglasnik - Vozila - BMW 320d 2015"/>
<meta property="og:image" content="https://img.example.com/ads/123/front.jpg?w=640"/>
<meta content="8.500" property="product:price:amount"/>
<meta name="description" content="BMW 320d, 2015. godište"/>
<script type="application/ld+json">
{"@type":"Product","name":"BMW 320d","offers":{"price":"8.500","priceCurrency":"BAM"}}
</script>
<script type="application/ld+json">
{"irrelevant":"analytics payload"}
</script>
</head>
<body>
<nav class="breadcrumbs"><a href="/">Početna</a><a href="/vozila">Vozila</a><a href="/vozila/osobni">Osobni automobili</a></nav>
<img src="/static/logo.png"/>
<img src="https://img.example.com/ads/123/front.jpg?w=1280"/>
<img data-src="/ads/123/interior.jpg"/>
<img src="https://img.example.com/sprite.svg"/>
<div id="description">Prodajem BMW 320d u odličnom stanju, redovno servisiran, garažiran.</div>
<table><tr><th>Lokacija</th><td>Sarajevo</td></tr></table>
<script>var tracker = "ignore me";</script>
<p>Cijena: 8.500 KM</p>
</body>
</html>`

func TestBundleFromAdPage(t *testing.T) {
	bundle, err := Bundle(adPage, "https://www.example.com/oglas/123", testCategories)
	require.NoError(t, err)

	// Meta: title tag, og pairs in both attribute orders, plain keys.
	assert.Equal(t, "BMW 320d 2015 - Oglasnik", bundle.Meta["title"])
	assert.Equal(t, "BMW 320d 2015", bundle.Meta["og:title"])
	assert.Equal(t, "8.500", bundle.Meta["product:price:amount"])
	assert.Equal(t, "BMW 320d, 2015. godište", bundle.Meta["description"])

	// Images: deduplicated by URL without query, junk filtered, resolved
	// against the page URL.
	assert.Equal(t, []string{
		"https://img.example.com/ads/123/front.jpg?w=640",
		"https://www.example.com/ads/123/interior.jpg",
	}, bundle.Images)

	// JSON-LD: the Product block survives compacted, analytics junk does not.
	assert.Contains(t, bundle.JSONLD, `"priceCurrency":"BAM"`)
	assert.NotContains(t, bundle.JSONLD, "analytics")

	assert.Equal(t, "Početna > Vozila > Osobni automobili", bundle.Breadcrumbs)
	assert.Equal(t, "Sarajevo", bundle.Location)
	assert.Contains(t, bundle.Description, "redovno servisiran")

	// Page text: tags stripped, scripts gone, labelled values intact.
	assert.Contains(t, bundle.PageText, "Cijena: 8.500 KM")
	assert.NotContains(t, bundle.PageText, "ignore me")
	assert.NotContains(t, bundle.PageText, "<p>")
}

func TestBreadcrumbsFromJSONLDSortedByPosition(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@type":"BreadcrumbList","itemListElement":[
		{"@type":"ListItem","position":2,"name":"Osobni automobili"},
		{"@type":"ListItem","position":1,"item":{"name":"Vozila"}}
	]}
	</script></head><body></body></html>`

	bundle, err := Bundle(html, "https://example.com", testCategories)
	require.NoError(t, err)
	assert.Equal(t, "Vozila > Osobni automobili", bundle.Breadcrumbs)
}

func TestBreadcrumbsFromDescriptionRequiresKnownCategory(t *testing.T) {
	tests := []struct {
		name     string
		desc     string
		expected string
	}{
		{
			name:     "second segment is a known category",
			desc:     "Oglasnik - Vozila - Golf 5",
			expected: "Vozila",
		},
		{
			name:     "second segment unknown",
			desc:     "Oglasnik - Akcije - Golf 5",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<html><head><meta property="og:description" content="` + tt.desc + `"/></head><body></body></html>`
			bundle, err := Bundle(html, "https://example.com", testCategories)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, bundle.Breadcrumbs)
		})
	}
}

func TestImageCapAndDataURLRejected(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString(`<img src="data:image/png;base64,AAAA"/>`)
	for i := 0; i < 20; i++ {
		b.WriteString(`<img src="https://img.example.com/photo-` + string(rune('a'+i)) + `.jpg"/>`)
	}
	b.WriteString("</body></html>")

	bundle, err := Bundle(b.String(), "https://example.com", testCategories)
	require.NoError(t, err)
	assert.Len(t, bundle.Images, 12)
	for _, img := range bundle.Images {
		assert.True(t, strings.HasPrefix(img, "https://"))
	}
}

func TestLocationBlacklistAndLengthGate(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "json-ld locality wins",
			html:     `<html><head><script type="application/ld+json">{"@type":"Product","name":"x","offers":{"address":{"addressLocality":"Zenica"}}}</script></head><body><table><tr><th>Lokacija</th><td>Mostar</td></tr></table></body></html>`,
			expected: "Zenica",
		},
		{
			name:     "condition word rejected",
			html:     `<html><body><table><tr><th>Lokacija</th><td>Korišteno</td></tr></table></body></html>`,
			expected: "",
		},
		{
			name:     "numeric junk rejected",
			html:     `<html><body><table><tr><th>Lokacija</th><td>12345</td></tr></table></body></html>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle, err := Bundle(tt.html, "https://example.com", testCategories)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, bundle.Location)
		})
	}
}

func TestDescriptionFromInlineClientState(t *testing.T) {
	html := `<html><body><script>window.__STATE__ = {"ad":{"description":"Prodajem trosjed u odličnom stanju, malo korišten, bez oštećenja."}};</script></body></html>`

	bundle, err := Bundle(html, "https://example.com", testCategories)
	require.NoError(t, err)
	assert.Contains(t, bundle.Description, "Prodajem trosjed")
}

func TestPageTextTruncatesOnRuneBoundary(t *testing.T) {
	// The cap lands mid-rune: one leading ASCII byte shifts every
	// two-byte letter onto an odd offset.
	html := "<html><body><p>a" + strings.Repeat("š", 9000) + "</p></body></html>"

	text := extractPageText(html)

	require.LessOrEqual(t, len(text), maxPageText)
	assert.True(t, utf8.ValidString(text))
	assert.True(t, strings.HasSuffix(text, "š"))
}
