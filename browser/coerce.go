package browser

import "math"

// NotANumber is stored when a numeric attribute that is passed through
// unguarded fails to parse.
const NotANumber = math.MinInt

// ParseInt parses the leading base-10 integer of s: optional leading
// whitespace, an optional sign and one or more digits. Anything after the
// digits is ignored. It reports false when no digits are found or the value
// overflows int.
func ParseInt(s string) (int, bool) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	negative := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		negative = s[i] == '-'
		i++
	}
	start := i
	var n int64
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		d := int64(s[i] - '0')
		if n > (math.MaxInt64-d)/10 {
			return 0, false
		}
		n = n*10 + d
		i++
	}
	if i == start {
		return 0, false
	}
	if n > math.MaxInt {
		return 0, false
	}
	if negative {
		n = -n
	}
	return int(n), true
}

// parseStrictBool accepts only the literals "true" and "false".
func parseStrictBool(s string) (bool, bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}
