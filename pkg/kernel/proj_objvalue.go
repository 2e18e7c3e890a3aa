package kernel

import "strings"

type Email string

func (e Email) String() string { return string(e) }

// IsValid checks the shape only: one @ with a dotted domain
func (e Email) IsValid() bool {
	s := string(e)
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

type Phone string

func (p Phone) String() string { return string(p) }

type FirstName string

type LastName string

// CountryCode is an ISO 3166-1 alpha-2 code such as "CL"
type CountryCode string

func (c CountryCode) String() string { return string(c) }

// Upper returns the code trimmed and upper-cased, for user input
func (c CountryCode) Upper() CountryCode {
	return CountryCode(strings.ToUpper(strings.TrimSpace(string(c))))
}

// TaxID is a country-scoped government identifier as typed by a person
type TaxID struct {
	CountryCode CountryCode `json:"country_code"`
	Number      string      `json:"number"`
}

func (t TaxID) IsEmpty() bool { return t.Number == "" }

type PositionName string

type LocationName string

type BucketURL string

// IsNumeric reports whether s is a non-empty run of ASCII digits
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
