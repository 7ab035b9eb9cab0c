package pricing

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Amount coerces a JSON-ish value into a float64. Server payloads are not
// consistent about numeric typing (numbers arrive as strings, formatted
// strings, or plain numbers), so anything unparseable resolves to 0 rather
// than erroring.
func Amount(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		return parseAmountString(n)
	default:
		return 0
	}
}

func parseAmountString(s string) float64 {
	var b strings.Builder
	seenDigit := false
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			b.WriteRune(r)
		case r == '.' && seenDigit && !seenDot:
			// Dots before any digit belong to abbreviations ("Rs."), not
			// to the number itself.
			seenDot = true
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}
