package ingestion

import "strings"

// NormalizePhone renders a bare digit string as the hyphenated
// area-exchange-subscriber form used in answers, e.g. "0311234567"
// becomes "031-123-4567". Seoul's 2-digit area code is the special
// case: "021234567" becomes "02-123-4567". Anything that does not look
// like a Korean area-code number is returned untouched.
func NormalizePhone(raw string) string {
	digits := keepDigits(raw)
	if len(digits) < 8 || !strings.HasPrefix(digits, "0") {
		return raw
	}

	areaLen := 3
	if strings.HasPrefix(digits, "02") {
		areaLen = 2
	}

	rest := digits[areaLen:]
	if len(rest) < 7 || len(rest) > 8 {
		return raw
	}

	// Subscriber number is always the last four digits.
	exchange := rest[:len(rest)-4]
	subscriber := rest[len(rest)-4:]
	return digits[:areaLen] + "-" + exchange + "-" + subscriber
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
