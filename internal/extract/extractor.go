package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"oglasnik/importer/internal/domain"
)

const (
	maxImages       = 12
	maxJSONLDBlocks = 3
	maxPageText     = 10000
)

// Bundle pulls everything the pipeline needs out of raw HTML before the
// HTML is discarded. All extraction here is stateless; categoryNames is
// only consulted by the weakest breadcrumb fallback.
func Bundle(rawHTML, baseURL string, categoryNames []string) (*domain.ExtractionBundle, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	bundle := &domain.ExtractionBundle{
		Meta:     extractMeta(doc),
		JSONLD:   extractJSONLD(doc),
		PageText: extractPageText(rawHTML),
	}
	bundle.Images = extractImages(doc, baseURL)
	bundle.Breadcrumbs = extractBreadcrumbs(doc, bundle.Meta, categoryNames)
	bundle.Description = extractDescription(doc, rawHTML)
	bundle.Location = extractLocation(doc, rawHTML, bundle.JSONLD, bundle.Meta)

	log.Debugf("Extracted bundle: %d images, %d meta pairs, breadcrumbs=%q, location=%q",
		len(bundle.Images), len(bundle.Meta), bundle.Breadcrumbs, bundle.Location)

	return bundle, nil
}

// Non-photo assets recognizable from the URL alone. Checked lowercase.
var imageSkipKeywords = []string{
	"placeholder", "icon", "logo", "sprite", "button", "avatar",
	"1x1", "pixel", "tracking", "spacer", "blank", "transparent",
	"spinner", "loader", "loading", "banner", "captcha", "badge",
	"facebook", "twitter", "share", "emoji", "flag-",
}

func shouldSkipImage(imageURL string) bool {
	urlLower := strings.ToLower(imageURL)
	if strings.HasSuffix(urlLower, ".svg") || strings.HasSuffix(urlLower, ".gif") {
		return true
	}
	for _, keyword := range imageSkipKeywords {
		if strings.Contains(urlLower, keyword) {
			return true
		}
	}
	return false
}

func extractImages(doc *goquery.Document, baseURL string) []string {
	base, _ := url.Parse(baseURL)

	var images []string
	seen := make(map[string]bool)

	add := func(src string) {
		src = strings.TrimSpace(src)
		if src == "" || strings.HasPrefix(src, "data:") || len(images) >= maxImages {
			return
		}
		resolved := resolveURL(base, src)
		if resolved == "" || shouldSkipImage(resolved) {
			return
		}
		// Deduplicate by URL without query string: many sites serve the
		// same photo with varying resize parameters.
		key := strings.SplitN(resolved, "?", 2)[0]
		if seen[key] {
			return
		}
		seen[key] = true
		images = append(images, resolved)
	}

	doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		name, _ := s.Attr("name")
		key := strings.ToLower(prop + name)
		if key == "og:image" || key == "twitter:image" || key == "og:image:secure_url" {
			if content, ok := s.Attr("content"); ok {
				add(content)
			}
		}
	})

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
			if v, ok := s.Attr(attr); ok && v != "" {
				add(v)
				break
			}
		}
		if srcset, ok := s.Attr("srcset"); ok && srcset != "" {
			first := strings.SplitN(strings.TrimSpace(srcset), " ", 2)[0]
			add(strings.TrimSuffix(first, ","))
		}
	})

	return images
}

func resolveURL(base *url.URL, href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}

// Meta keys copied even without an og:/article: prefix.
var plainMetaKeys = map[string]bool{
	"description":            true,
	"keywords":               true,
	"product:price:amount":   true,
	"product:price:currency": true,
	"price":                  true,
	"pricecurrency":          true,
	"geo.placename":          true,
	"geo.region":             true,
}

func extractMeta(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		meta["title"] = title
	}

	doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok || strings.TrimSpace(content) == "" {
			return
		}

		key, _ := s.Attr("property")
		if key == "" {
			key, _ = s.Attr("name")
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return
		}

		interesting := strings.HasPrefix(key, "og:") ||
			strings.HasPrefix(key, "article:") ||
			strings.HasPrefix(key, "twitter:") ||
			strings.HasPrefix(key, "place:") ||
			plainMetaKeys[key]
		if !interesting {
			return
		}

		if _, exists := meta[key]; !exists {
			meta[key] = strings.TrimSpace(content)
		}
	})

	return meta
}

// JSON-LD @type values worth keeping. Source sites are not standardized,
// so blocks are kept as compact strings for downstream regex use rather
// than decoded into a fixed schema.
var jsonLDTypes = []string{"Product", "Offer", "ItemPage", "BreadcrumbList"}

func extractJSONLD(doc *goquery.Document) string {
	var blocks []string

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		if len(blocks) >= maxJSONLDBlocks {
			return
		}

		raw := strings.TrimSpace(s.Text())
		if raw == "" || !json.Valid([]byte(raw)) {
			return
		}

		relevant := false
		for _, t := range jsonLDTypes {
			if strings.Contains(raw, `"`+t+`"`) {
				relevant = true
				break
			}
		}
		if !relevant && !strings.Contains(raw, `"name"`) && !strings.Contains(raw, `"price"`) {
			return
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, []byte(raw)); err != nil {
			return
		}
		blocks = append(blocks, compact.String())
	})

	return strings.Join(blocks, "\n")
}

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<(script|style|nav|footer|header)[^>]*>.*?</(script|style|nav|footer|header)>`)
	blockCloseRe  = regexp.MustCompile(`(?i)</(p|div|li|tr|h[1-6]|section|article|td)>|<br\s*/?>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	spaceRunRe    = regexp.MustCompile(`[ \t\r\f]+`)
	newlineRunRe  = regexp.MustCompile(`\n\s*\n+`)
)

var htmlEntities = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&scaron;", "š",
	"&Scaron;", "Š",
)

// extractPageText reduces raw HTML to plain text, preserving rough line
// structure so labelled-value regexes ("Cijena: 500 KM") keep working.
func extractPageText(rawHTML string) string {
	text := scriptBlockRe.ReplaceAllString(rawHTML, " ")
	text = blockCloseRe.ReplaceAllString(text, "\n")
	text = tagRe.ReplaceAllString(text, " ")
	text = htmlEntities.Replace(text)
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = newlineRunRe.ReplaceAllString(text, "\n")
	text = strings.TrimSpace(text)

	if len(text) > maxPageText {
		// Cut on a rune boundary; a byte cut through a multi-byte letter
		// (š, č, ć) would leave invalid UTF-8 in the bundle.
		cut := maxPageText
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
