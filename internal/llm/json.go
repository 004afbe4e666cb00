package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedResponse reports a completion whose text holds no decodable
// JSON object.
var ErrMalformedResponse = errors.New("llm: malformed response")

var (
	codeFence     = regexp.MustCompile("(?i)```(?:json)?\\s*|\\s*```")
	bareKey       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*:)`)
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSONObject isolates the first balanced {...} object in text and
// repairs the usual model slips: markdown fences, single quotes, bare keys
// and trailing commas.
func ExtractJSONObject(text string) (string, error) {
	clean := strings.TrimSpace(codeFence.ReplaceAllString(text, ""))

	start := strings.IndexByte(clean, '{')
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	depth, end := 0, -1
	inString := false
	var quote byte
	for i := start; i < len(clean) && end < 0; i++ {
		ch := clean[i]
		if inString {
			if ch == '\\' {
				i++
			} else if ch == quote {
				inString = false
			}
			continue
		}
		switch ch {
		case '"', '\'':
			inString, quote = true, ch
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i + 1
			}
		}
	}
	if end < 0 {
		return "", fmt.Errorf("%w: unbalanced JSON object", ErrMalformedResponse)
	}

	obj := clean[start:end]
	obj = strings.ReplaceAll(obj, "'", `"`)
	obj = bareKey.ReplaceAllString(obj, `$1"$2"$3`)
	obj = trailingComma.ReplaceAllString(obj, "$1")
	return obj, nil
}

// DecodeJSON cleans text with ExtractJSONObject and unmarshals it into v.
func DecodeJSON(text string, v any) error {
	obj, err := ExtractJSONObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
