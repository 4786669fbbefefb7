// Package expand performs parameter substitution on single words.
package expand

import "strings"

// Params supplies the values substituted during expansion.
//
// Getenv backs ${name} references and returns "" for unset names. The
// remaining methods back the special forms $$, $? and $!.
type Params interface {
	Getenv(name string) string
	PID() string
	LastStatus() string
	BackgroundPID() string
}

// Expand substitutes every parameter reference in word and returns the
// result as a new string.
//
// Recognized forms are $$, $!, $? and ${name}. References are matched
// greedily left to right in a single pass; substituted values are never
// rescanned. A '$' that does not begin a recognized form is copied
// literally, including a ${ with no closing brace, and scanning continues
// after it.
func Expand(word string, params Params) string {
	var out strings.Builder

	i := 0
	for i < len(word) {
		dollar := strings.IndexByte(word[i:], '$')
		if dollar < 0 {
			out.WriteString(word[i:])
			break
		}
		dollar += i
		out.WriteString(word[i:dollar])

		value, end, ok := resolve(word, dollar, params)
		if !ok {
			out.WriteByte('$')
			i = dollar + 1
			continue
		}
		out.WriteString(value)
		i = end
	}

	return out.String()
}

// resolve interprets the parameter form starting at the '$' at word[at].
// It reports the substituted value and the index just past the consumed
// reference.
func resolve(word string, at int, params Params) (value string, end int, ok bool) {
	if at+1 >= len(word) {
		return "", 0, false
	}

	switch word[at+1] {
	case '$':
		return params.PID(), at + 2, true
	case '!':
		return params.BackgroundPID(), at + 2, true
	case '?':
		status := params.LastStatus()
		if status == "" {
			status = "0"
		}
		return status, at + 2, true
	case '{':
		closing := strings.IndexByte(word[at+2:], '}')
		if closing < 0 {
			return "", 0, false
		}
		name := word[at+2 : at+2+closing]
		return params.Getenv(name), at + 2 + closing + 1, true
	default:
		return "", 0, false
	}
}
