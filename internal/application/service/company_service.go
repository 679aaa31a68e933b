package service

import (
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/config"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
)

// CompanyService resolves the letterhead profile of each branded entity.
type CompanyService struct {
	profiles map[enum.Company]entity.CompanyProfile
	fallback enum.Company
}

// NewCompanyService builds the profiles from the built-in defaults, the
// shared bank settings and any per-company overrides in cfg.
func NewCompanyService(cfg config.CompanyConfig) *CompanyService {
	shared := map[string]string{
		"BANK_NAME": cfg.BankName,
		"IBAN":      cfg.IBAN,
		"BIC":       cfg.BIC,
		"MOBILE":    cfg.Mobile,
	}

	profiles := entity.DefaultCompanyProfiles()
	for key, profile := range profiles {
		profile = profile.WithOverrides(shared)
		profiles[key] = profile.WithOverrides(cfg.Overrides[string(key)])
	}

	return &CompanyService{
		profiles: profiles,
		fallback: enum.ParseCompany(cfg.Default, enum.CompanyRelocato),
	}
}

// Default is the company used when a quote names none.
func (s *CompanyService) Default() enum.Company {
	return s.fallback
}

// Profile returns the profile for company, falling back to the default.
func (s *CompanyService) Profile(company enum.Company) entity.CompanyProfile {
	if p, ok := s.profiles[company]; ok {
		return p
	}
	return s.profiles[s.fallback]
}

// Profiles lists all profiles in a stable order.
func (s *CompanyService) Profiles() []entity.CompanyProfile {
	out := make([]entity.CompanyProfile, 0, len(enum.Companies))
	for _, c := range enum.Companies {
		out = append(out, s.profiles[c])
	}
	return out
}
