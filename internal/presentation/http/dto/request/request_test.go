package request

import (
	"testing"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteRequestResolveDetails(t *testing.T) {
	r := QuoteRequest{Volume: 20, Distance: 50}
	assert.Nil(t, r.ResolveDetails())

	r.ServiceFlags = &entity.ServiceFlags{Cleaning: true, CleaningHours: 3, Boxes: false, BoxCount: 40}
	d := r.ResolveDetails()
	require.NotNil(t, d)
	assert.Equal(t, 20.0, d.Volume)
	assert.Equal(t, []entity.ServiceSelection{{Kind: entity.ServiceCleaning, Quantity: 3}}, d.Services)

	r.Details = &entity.QuoteDetails{Volume: 30, Services: []entity.ServiceSelection{{Kind: entity.ServicePiano}}}
	d = r.ResolveDetails()
	assert.Equal(t, 30.0, d.Volume)
	assert.Equal(t, 50.0, d.Distance)
	assert.True(t, d.Has(entity.ServicePiano))
	assert.False(t, d.Has(entity.ServiceCleaning))
}

func TestCalculateRequestDefaults(t *testing.T) {
	r := CalculateRequest{Volume: 12, Distance: 80}
	d := r.ResolveDetails()
	assert.Equal(t, 12.0, d.Volume)
	assert.Empty(t, d.Services)
}
