package annotate

import "strings"

// escapes maps the upper-cased bracket escape tokens of PTB style taggers to
// the literal bracket.
var escapes = map[string]string{
	"-LRB-": "(",
	"-RRB-": ")",
	"-LSB-": "[",
	"-RSB-": "]",
	"-LCB-": "{",
	"-RCB-": "}",
}

// Normalize returns the literal bracket for a bracket escape token such as
// -LRB- or -lrb-. Any other string is returned unchanged.
func Normalize(token string) string {
	if b, ok := escapes[strings.ToUpper(token)]; ok {
		return b
	}

	return token
}
