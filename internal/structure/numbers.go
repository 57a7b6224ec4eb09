package structure

import (
	"strconv"
	"strings"
)

var romanValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// parseNumber decodes a captured boundary number: arabic digits, or a roman
// numeral as part headings commonly use. Unparseable input yields 0.
func parseNumber(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return parseRoman(strings.ToUpper(s))
}

// parseRoman decodes an uppercase roman numeral, 0 if malformed.
func parseRoman(s string) int {
	total := 0
	prev := 0
	for i := len(s) - 1; i >= 0; i-- {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0
		}
		if v < prev {
			total -= v
		} else {
			total += v
			prev = v
		}
	}
	return total
}
