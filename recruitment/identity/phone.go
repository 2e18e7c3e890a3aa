package identity

import (
	"strings"

	"github.com/Abraxas-365/intake/pkg/kernel"
)

const (
	minNationalDigits = 6
	maxNationalDigits = 12
)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

// NormalizePhone returns raw as +<prefix><national digits>. International
// input (leading + or 00) must carry the country's own prefix; anything else
// is treated as a national number and a single trunk 0 is dropped.
func NormalizePhone(raw string, countryCode kernel.CountryCode) (kernel.Phone, bool) {
	rule, ok := LookupCountry(countryCode)
	if !ok {
		return "", false
	}
	prefix := strings.TrimPrefix(rule.CallingPrefix, "+")

	national, ok := nationalDigits(phoneSeparators.Replace(strings.TrimSpace(raw)), prefix)
	if !ok {
		return "", false
	}
	return kernel.Phone("+" + prefix + national), true
}

// FormatPhone renders a phone as "+56 9 1234 5678"
func FormatPhone(raw string, countryCode kernel.CountryCode) (string, bool) {
	normalized, ok := NormalizePhone(raw, countryCode)
	if !ok {
		return "", false
	}

	rule, _ := LookupCountry(countryCode)
	national := strings.TrimPrefix(string(normalized), rule.CallingPrefix)

	groups := []string{}
	for len(national) > 4 {
		groups = append([]string{national[len(national)-4:]}, groups...)
		national = national[:len(national)-4]
	}
	groups = append([]string{rule.CallingPrefix, national}, groups...)
	return strings.Join(groups, " "), true
}

func nationalDigits(s, prefix string) (string, bool) {
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
		if !strings.HasPrefix(s, prefix) {
			return "", false
		}
		s = s[len(prefix):]
	case strings.HasPrefix(s, "00"):
		s = s[2:]
		if !strings.HasPrefix(s, prefix) {
			return "", false
		}
		s = s[len(prefix):]
	default:
		s = strings.TrimPrefix(s, "0")
	}

	if len(s) < minNationalDigits || len(s) > maxNationalDigits || !kernel.IsNumeric(s) {
		return "", false
	}
	return s, true
}
