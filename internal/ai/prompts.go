package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

func buildProposePrompt(signals Signals) string {
	var b strings.Builder

	b.WriteString("You are classifying a classified-ad page from a Bosnian/Croatian marketplace.\n")
	b.WriteString("From the signals below, draft the listing as a single JSON object with keys:\n")
	b.WriteString(`title, description, category, subcategory, price (number, 0 if unknown), currency, location, condition.` + "\n")
	b.WriteString("category MUST be one of: " + strings.Join(signals.Categories, ", ") + "\n\n")

	if title := signals.Meta["og:title"]; title != "" {
		b.WriteString("Page title: " + title + "\n")
	} else if title := signals.Meta["title"]; title != "" {
		b.WriteString("Page title: " + title + "\n")
	}
	if desc := signals.Meta["og:description"]; desc != "" {
		b.WriteString("Meta description: " + desc + "\n")
	}
	if signals.Breadcrumbs != "" {
		b.WriteString("Breadcrumbs: " + signals.Breadcrumbs + "\n")
	}
	if signals.JSONLD != "" {
		b.WriteString("Structured data: " + truncate(signals.JSONLD, 2000) + "\n")
	}
	if signals.Description != "" {
		b.WriteString("Ad description: " + truncate(signals.Description, 2000) + "\n")
	}
	if signals.PageText != "" {
		b.WriteString("Page text: " + truncate(signals.PageText, 4000) + "\n")
	}

	b.WriteString("\nReturn ONLY the JSON object, no commentary.")
	return b.String()
}

func buildCategoryPrompt(title string, categories []string) string {
	return fmt.Sprintf(
		"Pick the single best category for this classified ad title.\nTitle: %s\nCategories: %s\nReply with the category name only.",
		title, strings.Join(categories, ", "))
}

func buildItemPrompt(title, subcategory string, items []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A classified ad titled %q is filed under %q.\n", title, subcategory)
	b.WriteString("Pick the best matching entry from this numbered list:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i, item)
	}
	b.WriteString("Reply with the number only.")
	return b.String()
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// parseDraft tolerates markdown fences and prose around the JSON object.
// Price may arrive as a number or a string.
func parseDraft(reply string) (*Draft, error) {
	match := jsonObjectRe.FindString(reply)
	if match == "" {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var raw struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		SubCategory string          `json:"subcategory"`
		Price       json.RawMessage `json:"price"`
		Currency    string          `json:"currency"`
		Location    string          `json:"location"`
		Condition   string          `json:"condition"`
	}
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil, err
	}

	draft := &Draft{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Category:    strings.TrimSpace(raw.Category),
		SubCategory: strings.TrimSpace(raw.SubCategory),
		Currency:    strings.TrimSpace(raw.Currency),
		Location:    strings.TrimSpace(raw.Location),
		Condition:   strings.TrimSpace(raw.Condition),
	}
	draft.Price = parsePriceValue(raw.Price)
	return draft, nil
}

func parsePriceValue(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var num float64
	if json.Unmarshal(raw, &num) == nil {
		return num
	}
	var str string
	if json.Unmarshal(raw, &str) == nil {
		str = strings.ReplaceAll(strings.TrimSpace(str), ",", ".")
		if v, err := strconv.ParseFloat(str, 64); err == nil {
			return v
		}
	}
	return 0
}

// parseCategory accepts the reply only if it names one of the offered
// categories, matched loosely.
func parseCategory(reply string, categories []string) (string, error) {
	replyLower := strings.ToLower(strings.TrimSpace(reply))
	for _, c := range categories {
		if strings.Contains(replyLower, strings.ToLower(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("reply %q names no known category", strings.TrimSpace(reply))
}

var firstNumberRe = regexp.MustCompile(`\d+`)

// parseIndex regexes the first number out of the reply, tolerating
// non-JSON answers like "Entry 3 fits best."
func parseIndex(reply string) (int, error) {
	match := firstNumberRe.FindString(reply)
	if match == "" {
		return 0, fmt.Errorf("no number in reply %q", strings.TrimSpace(reply))
	}
	return strconv.Atoi(match)
}

// truncate caps s at max bytes without splitting a multi-byte rune; the
// generation API rejects strings that are not valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
