package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const minDescriptionLen = 30

var descriptionSelectors = []string{
	"#description",
	".ad-description",
	".description",
	"[itemprop=description]",
	".oglas-opis",
	".opis",
}

// Client-rendered pages carry the ad text as an escaped string literal
// inside a script tag.
var inlineDescriptionRe = regexp.MustCompile(`"(?:description|adText|text)"\s*:\s*"((?:[^"\\]|\\.){30,})"`)

var escapedBreakRe = regexp.MustCompile(`\\n|<br\s*/?>|\\u003cbr\\u003e`)

// extractDescription returns the seller's ad text. Explicit description
// containers win; the inline client-state literal is the fallback. The
// first candidate longer than 30 characters is accepted.
func extractDescription(doc *goquery.Document, rawHTML string) string {
	for _, selector := range descriptionSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if len(text) >= minDescriptionLen {
			return collapseWhitespace(text)
		}
	}

	if m := inlineDescriptionRe.FindStringSubmatch(rawHTML); len(m) > 1 {
		text := unescapeInline(m[1])
		if len(strings.TrimSpace(text)) >= minDescriptionLen {
			return collapseWhitespace(text)
		}
	}

	return ""
}

func unescapeInline(s string) string {
	s = escapedBreakRe.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\/`, `/`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	s = strings.ReplaceAll(s, `\t`, " ")
	s = tagRe.ReplaceAllString(s, " ")
	return s
}

func collapseWhitespace(s string) string {
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = newlineRunRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
