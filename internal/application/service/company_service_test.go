package service

import (
	"testing"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/config"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/stretchr/testify/assert"
)

func TestCompanyServiceAppliesSharedAndOverrides(t *testing.T) {
	svc := NewCompanyService(config.CompanyConfig{
		Default:  "wertvoll",
		IBAN:     "DE02120300000000202051",
		BankName: "Sparkasse Bielefeld",
		Overrides: map[string]map[string]string{
			"ruempelschmiede": {"IBAN": "DE89370400440532013000"},
		},
	})

	assert.Equal(t, enum.CompanyWertvoll, svc.Default())
	assert.Equal(t, "DE02120300000000202051", svc.Profile(enum.CompanyRelocato).IBAN)
	assert.Equal(t, "DE89370400440532013000", svc.Profile(enum.CompanyRuempelschmiede).IBAN)
	assert.Equal(t, "Sparkasse Bielefeld", svc.Profile(enum.CompanyRuempelschmiede).BankName)
	assert.Equal(t, "Wertvoll Dienstleistungen GmbH", svc.Profile("unknown").Name)
	assert.Len(t, svc.Profiles(), 3)
}

func TestCompanyServiceUnknownDefault(t *testing.T) {
	svc := NewCompanyService(config.CompanyConfig{Default: "acme"})
	assert.Equal(t, enum.CompanyRelocato, svc.Default())
}
