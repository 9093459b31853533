package resolve

import "strings"

// StemMatch reports whether two strings refer to the same word despite
// inflectional endings: either one contains the other outright, or the
// longer word's first max(4, len-2) characters appear in the other. This
// approximates suffix-inflected matching for a highly inflected language
// without a full stemmer ("spravama" matches "sprava").
func StemMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	longer, other := []rune(a), b
	if len([]rune(b)) > len(longer) {
		longer, other = []rune(b), a
	}

	stemLen := len(longer) - 2
	if stemLen < 4 {
		stemLen = 4
	}
	if stemLen > len(longer) {
		return false
	}

	return strings.Contains(other, string(longer[:stemLen]))
}

// tokenize splits free text into lowercase word tokens, dropping short
// noise tokens.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '>' || r == ',' ||
			r == '.' || r == ':' || r == ';' || r == '/' || r == '(' || r == ')'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// overlapScore counts how many words of phrase stem-match a token of text.
// A full multi-word phrase contained outright in the text scores extra,
// so "osobni automobili" beats two independent single-word hits.
func overlapScore(text, phrase string) int {
	if text == "" || phrase == "" {
		return 0
	}

	textLower := strings.ToLower(text)
	phraseLower := strings.ToLower(phrase)

	phraseWords := tokenize(phraseLower)
	if len(phraseWords) == 0 {
		return 0
	}

	if len(phraseWords) > 1 && strings.Contains(textLower, phraseLower) {
		return len(phraseWords) + 2
	}

	textTokens := tokenize(textLower)
	score := 0
	for _, pw := range phraseWords {
		for _, tt := range textTokens {
			if StemMatch(pw, tt) {
				score++
				break
			}
		}
	}
	return score
}
