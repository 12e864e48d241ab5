package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"hireflow/internal/apperr"
)

// extractJSONObject returns the first balanced JSON object found in text.
// Models routinely wrap their payload in markdown fences or surrounding
// prose; absence of any object is a hard failure for the caller.
func extractJSONObject(text string) (string, bool) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}

// parseJSONResponse unmarshals the first JSON object in a model response
// into target, classifying failures as malformed-response errors.
func parseJSONResponse(response string, target interface{}) error {
	jsonStr, ok := extractJSONObject(response)
	if !ok {
		return fmt.Errorf("%w: no JSON object in response", apperr.ErrMalformedResponse)
	}

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrMalformedResponse, err)
	}

	return nil
}
