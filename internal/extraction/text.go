package extraction

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]+(?:['\-][a-z0-9]+)*\+?`)

type token struct {
	text  string
	start int
}

// tokenize splits lower-cased text into word tokens with byte offsets.
func tokenize(lower string) []token {
	idx := wordPattern.FindAllStringIndex(lower, -1)
	out := make([]token, 0, len(idx))
	for _, span := range idx {
		out = append(out, token{text: lower[span[0]:span[1]], start: span[0]})
	}
	return out
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// indexWord returns the offset of the first occurrence of phrase at or after
// from that is not glued to a neighbouring letter or digit, or -1.
func indexWord(text, phrase string, from int) int {
	if phrase == "" {
		return -1
	}
	for from <= len(text)-len(phrase) {
		j := strings.Index(text[from:], phrase)
		if j < 0 {
			return -1
		}
		start := from + j
		end := start + len(phrase)
		leftOK := start == 0 || !isAlnum(text[start-1]) || !isAlnum(phrase[0])
		rightOK := end == len(text) || !isAlnum(text[end]) || !isAlnum(phrase[len(phrase)-1])
		if leftOK && rightOK {
			return start
		}
		from = start + 1
	}
	return -1
}

func containsWord(text, phrase string) bool {
	return indexWord(text, phrase, 0) >= 0
}

// firstWord returns the first phrase of phrases found as a whole word.
func firstWord(text string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if containsWord(text, p) {
			return p, true
		}
	}
	return "", false
}

func containsAnyWord(text string, phrases []string) bool {
	_, ok := firstWord(text, phrases)
	return ok
}

// countWord counts non-overlapping whole-word occurrences of phrase.
func countWord(text, phrase string) int {
	n := 0
	for i := indexWord(text, phrase, 0); i >= 0; i = indexWord(text, phrase, i+len(phrase)) {
		n++
	}
	return n
}

var numberWords = map[string]int{
	"a":      1,
	"an":     1,
	"one":    1,
	"single": 1,
	"two":    2,
	"three":  3,
	"four":   4,
	"five":   5,
	"six":    6,
	"seven":  7,
	"eight":  8,
	"nine":   9,
	"ten":    10,
	"eleven": 11,
	"twelve": 12,
}

// numberPattern matches a count written as digits or as a small number word.
const numberPattern = `(\d{1,3}|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)`

// parseCount converts a numberPattern capture to an int.
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, ok := numberWords[s]; ok {
		return n, true
	}
	n := 0
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
