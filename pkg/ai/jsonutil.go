package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// StripFence removes a surrounding markdown code fence, if any
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil && m[2] != "" {
		return strings.TrimSpace(m[2])
	}
	return text
}

// ParseFencedJSON decodes a model response that may be wrapped in a
// ```json fence
func ParseFencedJSON[T any](text string) (*T, error) {
	body := StripFence(text)
	if body == "" {
		return nil, ErrNoResult
	}
	var v T
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoResult, err)
	}
	return &v, nil
}
