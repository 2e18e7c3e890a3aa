package identity

import "github.com/Abraxas-365/intake/pkg/kernel"

// CountryRule is the reference data for one supported country
type CountryRule struct {
	Code             kernel.CountryCode `json:"code"`
	DisplayName      string             `json:"display_name"`
	CallingPrefix    string             `json:"calling_prefix"`
	FlagGlyph        string             `json:"flag"`
	TaxIDLabel       string             `json:"tax_id_label"`
	InputPlaceholder string             `json:"input_placeholder"`
}

// countries is read-only after init; the first entry is the default.
var countries = [...]CountryRule{
	{Code: "CL", DisplayName: "Chile", CallingPrefix: "+56", FlagGlyph: "🇨🇱", TaxIDLabel: "RUT", InputPlaceholder: "12.345.678-9"},
	{Code: "PE", DisplayName: "Perú", CallingPrefix: "+51", FlagGlyph: "🇵🇪", TaxIDLabel: "DNI/RUC", InputPlaceholder: "12345678"},
	{Code: "CO", DisplayName: "Colombia", CallingPrefix: "+57", FlagGlyph: "🇨🇴", TaxIDLabel: "NIT/CC", InputPlaceholder: "900123456"},
	{Code: "AR", DisplayName: "Argentina", CallingPrefix: "+54", FlagGlyph: "🇦🇷", TaxIDLabel: "CUIT/CUIL", InputPlaceholder: "20-12345678-9"},
	{Code: "MX", DisplayName: "México", CallingPrefix: "+52", FlagGlyph: "🇲🇽", TaxIDLabel: "RFC", InputPlaceholder: "XAXX010101000"},
	{Code: "ES", DisplayName: "España", CallingPrefix: "+34", FlagGlyph: "🇪🇸", TaxIDLabel: "NIF/NIE", InputPlaceholder: "12345678Z"},
	{Code: "US", DisplayName: "Estados Unidos", CallingPrefix: "+1", FlagGlyph: "🇺🇸", TaxIDLabel: "EIN/SSN", InputPlaceholder: "12-3456789"},
}

var countryIndex = func() map[kernel.CountryCode]int {
	idx := make(map[kernel.CountryCode]int, len(countries))
	for i, c := range countries {
		idx[c.Code] = i
	}
	return idx
}()

// LookupCountry finds a rule by exact code match
func LookupCountry(code kernel.CountryCode) (CountryRule, bool) {
	i, ok := countryIndex[code]
	if !ok {
		return CountryRule{}, false
	}
	return countries[i], true
}

// ResolveCountry returns the rule for code, or the default rule when the code
// is not supported.
func ResolveCountry(code kernel.CountryCode) CountryRule {
	if rule, ok := LookupCountry(code); ok {
		return rule
	}
	return DefaultCountry()
}

func DefaultCountry() CountryRule {
	return countries[0]
}

// Countries returns a copy of the table in declared order
func Countries() []CountryRule {
	out := make([]CountryRule, len(countries))
	copy(out, countries[:])
	return out
}

// IsSupported reports whether code has an explicit rule
func IsSupported(code kernel.CountryCode) bool {
	_, ok := countryIndex[code]
	return ok
}
