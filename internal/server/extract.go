package server

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// decodeModelJSON extracts the first {...} block from a model reply
// and unmarshals it into v. Model output often arrives wrapped in code
// fences or prose.
func decodeModelJSON(text string, v any) error {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	match := jsonBlockPattern.FindString(cleaned)
	if match == "" {
		snippet := cleaned
		if len(snippet) > 120 {
			snippet = snippet[:120] + "..."
		}
		return fmt.Errorf("model did not return JSON: %s", snippet)
	}

	if err := json.Unmarshal([]byte(match), v); err != nil {
		return fmt.Errorf("parse model JSON: %w", err)
	}
	return nil
}
