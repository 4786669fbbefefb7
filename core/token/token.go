// Package token splits raw input lines into words.
//
// The dialect is deliberately small: words are runs of non-whitespace, a
// backslash forces the next character (even whitespace) into the current
// word, and a '#' at the start of a word ends the line. There is no quote
// handling.
package token

import (
	"strings"
	"unicode"
)

// DefaultMaxWords bounds how many words a single line may produce.
// Input beyond the cap is ignored, it is a resource limit rather than a
// parse error.
const DefaultMaxWords = 512

// Split tokenizes line with the default word cap.
func Split(line string) []string {
	return SplitN(line, DefaultMaxWords)
}

// SplitN tokenizes line, producing at most max words.
//
// Leading whitespace is skipped. A word ends at the first unescaped
// whitespace rune. A backslash removes itself and appends the following
// rune literally; a backslash at the end of the line appends nothing. A
// word beginning with '#' discards it and the remainder of the line.
func SplitN(line string, max int) []string {
	var words []string
	var cur strings.Builder

	runes := []rune(line)
	i := 0
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}

	for i < len(runes) {
		if len(words) == max {
			break
		}
		if runes[i] == '#' {
			break
		}
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			if runes[i] == '\\' {
				i++
				if i == len(runes) {
					break
				}
			}
			cur.WriteRune(runes[i])
			i++
		}
		words = append(words, cur.String())
		cur.Reset()
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
	}

	return words
}
