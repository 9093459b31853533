package extract

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type breadcrumbList struct {
	Type            string           `json:"@type"`
	ItemListElement []breadcrumbItem `json:"itemListElement"`
}

type breadcrumbItem struct {
	Position int             `json:"position"`
	Name     string          `json:"name"`
	Item     json.RawMessage `json:"item"`
}

func (b breadcrumbItem) name() string {
	if b.Name != "" {
		return b.Name
	}
	// "item" may be a plain IRI string or an object carrying the name.
	var obj struct {
		Name string `json:"name"`
	}
	if len(b.Item) > 0 && json.Unmarshal(b.Item, &obj) == nil {
		return obj.Name
	}
	return ""
}

// extractBreadcrumbs returns the site's navigation trail rejoined with ">".
// Structured BreadcrumbList data wins; DOM heuristics follow; the last
// resort reads a category name out of og:description.
func extractBreadcrumbs(doc *goquery.Document, meta map[string]string, categoryNames []string) string {
	if crumbs := breadcrumbsFromJSONLD(doc); crumbs != "" {
		return crumbs
	}
	if crumbs := breadcrumbsFromDOM(doc); crumbs != "" {
		return crumbs
	}
	return breadcrumbsFromDescription(meta, categoryNames)
}

func breadcrumbsFromJSONLD(doc *goquery.Document) string {
	var result string

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if !strings.Contains(raw, "BreadcrumbList") {
			return true
		}

		// The list may be the top-level object or nested in an @graph array.
		var candidates []breadcrumbList
		var single breadcrumbList
		if err := json.Unmarshal([]byte(raw), &single); err == nil && single.Type == "BreadcrumbList" {
			candidates = append(candidates, single)
		} else {
			var graph struct {
				Graph []breadcrumbList `json:"@graph"`
			}
			if err := json.Unmarshal([]byte(raw), &graph); err == nil {
				candidates = append(candidates, graph.Graph...)
			}
		}

		for _, list := range candidates {
			if list.Type != "BreadcrumbList" || len(list.ItemListElement) == 0 {
				continue
			}
			items := list.ItemListElement
			sort.SliceStable(items, func(a, b int) bool {
				return items[a].Position < items[b].Position
			})

			var parts []string
			for _, item := range items {
				if name := strings.TrimSpace(item.name()); name != "" {
					parts = append(parts, name)
				}
			}
			if len(parts) > 0 {
				result = strings.Join(parts, " > ")
				return false
			}
		}
		return true
	})

	return result
}

// DOM selectors tried in order: generic breadcrumb containers first, then
// anchor-list patterns seen on regional classified-ad sites.
var breadcrumbSelectors = []string{
	`nav[aria-label="breadcrumb"]`,
	`[class*="breadcrumb"]`,
	`[itemprop="breadcrumb"]`,
	`ul.path a`,
	`div.putanja a`,
}

func breadcrumbsFromDOM(doc *goquery.Document) string {
	for _, selector := range breadcrumbSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}

		var parts []string
		links := sel.Find("a, li")
		if links.Length() == 0 {
			links = sel
		}
		links.Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text == "" || strings.Contains(text, "\n") || len(text) > 60 {
				return
			}
			if len(parts) > 0 && parts[len(parts)-1] == text {
				return
			}
			parts = append(parts, text)
		})

		if len(parts) > 0 {
			return strings.Join(parts, " > ")
		}
	}
	return ""
}

// breadcrumbsFromDescription is a weak fallback: some sites embed
// "Title - Category - Site" in og:description. The middle segment is
// accepted only when it names a known top-level category.
func breadcrumbsFromDescription(meta map[string]string, categoryNames []string) string {
	desc := meta["og:description"]
	if desc == "" {
		return ""
	}

	segments := strings.Split(desc, " - ")
	if len(segments) < 2 {
		return ""
	}

	candidate := strings.TrimSpace(segments[1])
	for _, name := range categoryNames {
		if strings.EqualFold(candidate, name) {
			return candidate
		}
	}
	return ""
}
