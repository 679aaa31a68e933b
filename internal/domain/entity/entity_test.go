package entity

import (
	"testing"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceFlagsDropQuantitiesOfDisabledServices(t *testing.T) {
	flags := ServiceFlags{
		Cleaning:        false,
		CleaningHours:   8,
		Renovation:      true,
		RenovationHours: 2,
		HeavyItemsCount: 4,
	}

	selections := flags.Selections()
	require.Len(t, selections, 1)
	assert.Equal(t, ServiceSelection{Kind: ServiceRenovation, Quantity: 2}, selections[0])
}

func TestQuoteDetailsNormalized(t *testing.T) {
	d := QuoteDetails{
		Volume:   -3,
		Distance: 120,
		Services: []ServiceSelection{
			{Kind: ServiceStorage},
			{Kind: "teleport"},
			{Kind: ServiceCleaning, Quantity: 2},
			{Kind: ServiceCleaning, Quantity: -1},
		},
	}

	n := d.Normalized()
	assert.Equal(t, 0.0, n.Volume)
	assert.Equal(t, 120.0, n.Distance)
	assert.Equal(t, []ServiceSelection{
		{Kind: ServiceCleaning, Quantity: 0},
		{Kind: ServiceStorage},
	}, n.Services)
	assert.Len(t, d.Services, 4, "original is not mutated")
}

func TestCustomerRecipientLines(t *testing.T) {
	c := Customer{Name: "Anna Becker", Street: "Hauptstraße 5", Zip: "33602", City: "Bielefeld"}
	assert.Equal(t, []string{"Anna Becker", "Hauptstraße 5", "33602 Bielefeld"}, c.RecipientLines())
	assert.Equal(t, "Becker", c.LastName())

	legacy := Customer{Name: "Jan Ott", FromAddress: "Jahnplatz 1, 33602 Bielefeld"}
	assert.Equal(t, []string{"Jan Ott", "Jahnplatz 1", "33602 Bielefeld"}, legacy.RecipientLines())
}

func TestDefaultCompanyProfiles(t *testing.T) {
	profiles := DefaultCompanyProfiles()
	require.Len(t, profiles, 3)
	assert.Equal(t, "DE328644143", profiles[enum.CompanyRuempelschmiede].VATID)
	assert.Equal(t, "DE815143866", profiles[enum.CompanyRelocato].VATID)
	assert.Equal(t, "Wertvoll Dienstleistungen GmbH • Albrechtstraße 27 • 33615 Bielefeld", profiles[enum.CompanyWertvoll].SenderLine())
}

func TestCompanyProfileWithOverrides(t *testing.T) {
	base := DefaultCompanyProfiles()[enum.CompanyRelocato]

	p := base.WithOverrides(map[string]string{"IBAN": "DE02120300000000202051", "EMAIL": "", "COLOR": "red"})
	assert.Equal(t, "DE02120300000000202051", p.IBAN)
	assert.Equal(t, base.Email, p.Email)
	assert.Empty(t, base.IBAN, "receiver is a copy")
}
