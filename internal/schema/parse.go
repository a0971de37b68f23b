package schema

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseIntPrefix parses the leading base-10 integer of s, ignoring surrounding
// whitespace and any trailing characters: "42", " 42abc" and "+42" all give 42.
// Values beyond int64 saturate to math.MaxInt64 or math.MinInt64.
// It reports false when s does not start with a number.
func ParseIntPrefix(s string) (int64, bool) {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digits {
		return 0, false
	}

	// ParseInt returns the saturated value alongside ErrRange.
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}

	return n, true
}

// twoPow63 is the smallest float64 above math.MaxInt64.
const twoPow63 = float64(1 << 63)

// IntegerOf converts a decoded JSON value to an integer.
// Numbers are truncated toward zero and saturate at the int64 limits;
// strings use ParseIntPrefix.
func IntegerOf(value any) (int64, bool) {
	switch v := value.(type) {
	case string:
		return ParseIntPrefix(v)
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}

	n, ok := Number(value)
	if !ok {
		return 0, false
	}

	switch {
	case n >= twoPow63:
		return math.MaxInt64, true
	case n < -twoPow63:
		return math.MinInt64, true
	default:
		return int64(n), true
	}
}
