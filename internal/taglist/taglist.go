// Package taglist normalizes free-text tag input into an ordered list of tags.
// Users type tags separated by commas, tabs or newlines; a delimiter commits the
// pending token as a new element.
package taglist

import "strings"

func isDelimiter(r rune) bool {
	return r == ',' || r == '\t' || r == '\n' || r == '\r'
}

// Normalize splits each input on commas, tabs and newlines, trims surrounding
// whitespace, drops blank tokens and de-duplicates while preserving the order in
// which tags were first entered.
func Normalize(values ...string) []string {
	seen := make(map[string]bool)
	result := []string{}
	for _, value := range values {
		for _, token := range strings.FieldsFunc(value, isDelimiter) {
			token = strings.TrimSpace(token)
			if token == "" || seen[token] {
				continue
			}
			seen[token] = true
			result = append(result, token)
		}
	}
	return result
}
