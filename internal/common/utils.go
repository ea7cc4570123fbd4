package common

import "strings"

// Capitalize upper-cases the first letter of every space-separated word.
// Provider condition descriptions arrive lower-cased ("light rain").
func Capitalize(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
