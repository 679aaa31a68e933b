package entity

import "github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"

// CompanyProfile is the letterhead and legal identity of one branded
// entity. Documents take every identity string from here.
type CompanyProfile struct {
	Key       enum.Company `json:"key"`
	Name      string       `json:"name"`
	LegalName string       `json:"legal_name"`
	Tagline   string       `json:"tagline"`
	Street    string       `json:"street"`
	Zip       string       `json:"zip"`
	City      string       `json:"city"`
	Phone     string       `json:"phone"`
	Mobile    string       `json:"mobile,omitempty"`
	Email     string       `json:"email"`
	Website   string       `json:"website"`
	CEO       string       `json:"ceo"`
	Court     string       `json:"court"`
	HRB       string       `json:"hrb"`
	TaxNumber string       `json:"tax_number,omitempty"`
	VATID     string       `json:"vat_id"`
	BankName  string       `json:"bank_name,omitempty"`
	IBAN      string       `json:"iban,omitempty"`
	BIC       string       `json:"bic,omitempty"`
}

// SenderLine is the small return address printed above the recipient.
func (p CompanyProfile) SenderLine() string {
	return p.LegalName + " • " + p.Street + " • " + p.Zip + " " + p.City
}

// DefaultCompanyProfiles returns the built-in profiles keyed by company.
func DefaultCompanyProfiles() map[enum.Company]CompanyProfile {
	base := CompanyProfile{
		Street:    "Albrechtstraße 27",
		Zip:       "33615",
		City:      "Bielefeld",
		Phone:     "(0521) 1200551-0",
		LegalName: "Wertvoll Dienstleistungen GmbH",
		CEO:       "Sergej Schulz",
		Court:     "Amtsgericht Bielefeld",
		HRB:       "HRB 43574",
		VATID:     "DE815143866",
	}

	relocato := base
	relocato.Key = enum.CompanyRelocato
	relocato.Name = "RELOCATO® Bielefeld"
	relocato.Tagline = "Umzüge • Möbelmontage • Lagerung"
	relocato.Email = "bielefeld@relocato.de"
	relocato.Website = "www.relocato.de"

	wertvoll := base
	wertvoll.Key = enum.CompanyWertvoll
	wertvoll.Name = "Wertvoll Dienstleistungen GmbH"
	wertvoll.Tagline = "Rückbau • Umzüge • Entrümpelungen • Entkernung • Renovierungsarbeiten • Gewerbeauflösungen"
	wertvoll.Email = "info@wertvoll-dienstleistungen.de"
	wertvoll.Website = "www.wertvoll-dienstleistungen.de"

	ruempel := base
	ruempel.Key = enum.CompanyRuempelschmiede
	ruempel.Name = "Rümpelschmiede"
	ruempel.Tagline = "Entrümpelungen • Haushaltsauflösungen • Reinigung"
	ruempel.Email = "info@ruempelschmiede.de"
	ruempel.Website = "www.ruempelschmiede.de"
	ruempel.VATID = "DE328644143"

	return map[enum.Company]CompanyProfile{
		enum.CompanyRelocato:        relocato,
		enum.CompanyWertvoll:        wertvoll,
		enum.CompanyRuempelschmiede: ruempel,
	}
}

// WithOverrides returns a copy with the given fields replaced. Keys are the
// upper-case config suffixes (NAME, EMAIL, IBAN, ...); empty values and
// unknown keys are ignored.
func (p CompanyProfile) WithOverrides(values map[string]string) CompanyProfile {
	fields := map[string]*string{
		"NAME":       &p.Name,
		"LEGAL_NAME": &p.LegalName,
		"TAGLINE":    &p.Tagline,
		"STREET":     &p.Street,
		"ZIP":        &p.Zip,
		"CITY":       &p.City,
		"PHONE":      &p.Phone,
		"MOBILE":     &p.Mobile,
		"EMAIL":      &p.Email,
		"WEBSITE":    &p.Website,
		"CEO":        &p.CEO,
		"COURT":      &p.Court,
		"HRB":        &p.HRB,
		"TAX_NUMBER": &p.TaxNumber,
		"VAT_ID":     &p.VATID,
		"BANK_NAME":  &p.BankName,
		"IBAN":       &p.IBAN,
		"BIC":        &p.BIC,
	}
	for key, value := range values {
		if target, ok := fields[key]; ok && value != "" {
			*target = value
		}
	}
	return p
}

// CompanyProfileFields lists the keys WithOverrides understands.
var CompanyProfileFields = []string{
	"NAME", "LEGAL_NAME", "TAGLINE", "STREET", "ZIP", "CITY", "PHONE", "MOBILE",
	"EMAIL", "WEBSITE", "CEO", "COURT", "HRB", "TAX_NUMBER", "VAT_ID",
	"BANK_NAME", "IBAN", "BIC",
}
