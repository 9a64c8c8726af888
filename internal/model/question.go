package model

import "strings"

// Question is a single prompt in the fixed form "Would you rather A, or B?".
// Only the raw text is stored; the two options are derived for display.
type Question struct {
	Text string `json:"text" bson:"text"`
}

// SplitOptions parses the fixed prompt pattern into its two options.
// Returns empty strings when the text does not match the pattern.
func SplitOptions(text string) (optionA, optionB string) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, "?")
	s = strings.TrimPrefix(s, "Would you rather ")
	a, b, ok := strings.Cut(s, ", or ")
	if !ok {
		return "", ""
	}
	return strings.TrimSpace(a), strings.TrimSpace(b)
}
