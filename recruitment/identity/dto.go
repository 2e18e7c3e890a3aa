package identity

import "github.com/Abraxas-365/intake/pkg/kernel"

type ValidateTaxIDRequest struct {
	CountryCode kernel.CountryCode `json:"country_code"`
	TaxID       string             `json:"tax_id"`
}

type ValidateTaxIDResponse struct {
	Valid       bool               `json:"valid"`
	CountryCode kernel.CountryCode `json:"country_code"`
	Label       string             `json:"label"`
	Normalized  string             `json:"normalized"`
	Formatted   string             `json:"formatted,omitempty"`
	Message     string             `json:"message,omitempty"`
}

type NormalizePhoneRequest struct {
	CountryCode kernel.CountryCode `json:"country_code"`
	Phone       string             `json:"phone"`
}

type NormalizePhoneResponse struct {
	Valid       bool               `json:"valid"`
	CountryCode kernel.CountryCode `json:"country_code"`
	Normalized  kernel.Phone       `json:"normalized,omitempty"`
	Formatted   string             `json:"formatted,omitempty"`
	Message     string             `json:"message,omitempty"`
}

type CountryListResponse struct {
	Countries []CountryRule      `json:"countries"`
	Default   kernel.CountryCode `json:"default"`
}

// CheckTaxID runs the validation and builds the form-helper response
func CheckTaxID(req ValidateTaxIDRequest) ValidateTaxIDResponse {
	rule := ResolveCountry(req.CountryCode)
	resp := ValidateTaxIDResponse{
		Valid:       ValidateTaxID(req.TaxID, req.CountryCode),
		CountryCode: req.CountryCode,
		Label:       rule.TaxIDLabel,
		Normalized:  NormalizeTaxID(req.TaxID),
	}

	if !resp.Valid {
		resp.Message = TaxIDError(req.CountryCode).Message
		return resp
	}
	if req.CountryCode == "CL" {
		resp.Formatted, _ = FormatRUT(req.TaxID)
	}
	return resp
}

// CheckPhone normalizes and formats a phone for the form helper
func CheckPhone(req NormalizePhoneRequest) NormalizePhoneResponse {
	resp := NormalizePhoneResponse{CountryCode: req.CountryCode}

	normalized, ok := NormalizePhone(req.Phone, req.CountryCode)
	if !ok {
		resp.Message = ErrInvalidPhone(req.CountryCode).Message
		return resp
	}

	resp.Valid = true
	resp.Normalized = normalized
	resp.Formatted, _ = FormatPhone(req.Phone, req.CountryCode)
	return resp
}
