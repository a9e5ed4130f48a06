package memview

import (
	"fmt"
	"strconv"
	"strings"
)

// patternToken is one element of a parsed pattern: either a fixed byte or a
// wildcard ("??").
type patternToken struct {
	wildcard bool
	value    byte
}

// ParsePattern parses a whitespace-separated hex byte pattern where the
// token "??" matches any byte.
func ParsePattern(pattern string) ([]patternToken, error) {
	fields := strings.Fields(pattern)
	if len(fields) == 0 {
		return nil, fmt.Errorf("memview: empty pattern")
	}
	tokens := make([]patternToken, 0, len(fields))
	for _, f := range fields {
		if f == "??" || f == "?" {
			tokens = append(tokens, patternToken{wildcard: true})
			continue
		}
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("memview: invalid pattern token %q: %w", f, err)
		}
		tokens = append(tokens, patternToken{value: byte(v)})
	}
	return tokens, nil
}

// ScanBytes returns the offset of the first match of tokens within image, or
// -1 if no match exists.
func ScanBytes(image []byte, tokens []patternToken) int {
	if len(tokens) == 0 || len(image) < len(tokens) {
		return -1
	}
	for start := 0; start <= len(image)-len(tokens); start++ {
		matched := true
		for i, tok := range tokens {
			if !tok.wildcard && image[start+i] != tok.value {
				matched = false
				break
			}
		}
		if matched {
			return start
		}
	}
	return -1
}
