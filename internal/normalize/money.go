package normalize

import (
	"strconv"
	"strings"
)

var blankTokens = map[string]struct{}{
	"": {}, "na": {}, "n/a": {}, "null": {}, "none": {}, "nan": {},
}

func isBlank(s string) bool {
	_, ok := blankTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// keep digits, separators and minus; drops currency symbols, spaces, codes
func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveSeparators rewrites a digit/separator string into strconv form.
// When both , and . appear the rightmost one is the decimal point; a lone
// comma is decimal only when it carries a 1-2 digit tail; repeated dots are
// thousands separators unless the final group is a 1-2 digit tail.
func resolveSeparators(s string) string {
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		parts := strings.Split(s, ",")
		last := parts[len(parts)-1]
		if len(parts) > 1 && (len(last) == 1 || len(last) == 2) {
			head := strings.ReplaceAll(strings.Join(parts[:len(parts)-1], ""), ".", "")
			return head + "." + last
		}
		return strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		parts := strings.Split(s, ".")
		last := parts[len(parts)-1]
		if len(last) == 1 || len(last) == 2 {
			return strings.Join(parts[:len(parts)-1], "") + "." + last
		}
		return strings.Join(parts, "")
	}
	return s
}

// Money parses messy currency strings in US ("1,234.50") and EU
// ("1.234,50", "980,30") conventions, with symbols, accounting parentheses
// and leading minus. Blank or unparseable input is 0, never an error.
func Money(raw string) float64 {
	if isBlank(raw) {
		return 0
	}
	text := strings.TrimSpace(raw)
	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = text[1 : len(text)-1]
	}
	if strings.HasPrefix(strings.TrimSpace(text), "-") {
		negative = true
	}
	cleaned := stripNonNumeric(text)
	if strings.Count(cleaned, "-") > 1 {
		negative = true
	}
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(resolveSeparators(cleaned), 64)
	if err != nil {
		return 0
	}
	if negative {
		return -v
	}
	return v
}

// Number coerces a generic numeric field (impressions, clicks, ...) with the
// same separator handling as Money but no sign conventions; defaults to 0.
func Number(raw string) float64 {
	if isBlank(raw) {
		return 0
	}
	cleaned := strings.ReplaceAll(stripNonNumeric(raw), "-", "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(resolveSeparators(cleaned), 64)
	if err != nil {
		return 0
	}
	return v
}
