package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuoteStatus(t *testing.T) {
	s, ok := ParseQuoteStatus(" Sent ")
	assert.True(t, ok)
	assert.Equal(t, QuoteStatusSent, s)

	_, ok = ParseQuoteStatus("foo")
	assert.False(t, ok)
}

func TestQuoteStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to QuoteStatus
		allowed  bool
	}{
		{QuoteStatusDraft, QuoteStatusSent, true},
		{QuoteStatusSent, QuoteStatusSent, true},
		{QuoteStatusSent, QuoteStatusAccepted, true},
		{QuoteStatusSent, QuoteStatusRejected, true},
		{QuoteStatusAccepted, QuoteStatusInvoiced, true},
		{QuoteStatusConfirmed, QuoteStatusInvoiced, true},
		{QuoteStatusDraft, QuoteStatusInvoiced, false},
		{QuoteStatusDraft, QuoteStatusAccepted, false},
		{QuoteStatusDraft, QuoteStatusRejected, false},
		{QuoteStatusSent, QuoteStatusDraft, false},
		{QuoteStatusAccepted, QuoteStatusSent, false},
		{QuoteStatusRejected, QuoteStatusAccepted, false},
		{QuoteStatusInvoiced, QuoteStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, QuoteStatusInvoiced.IsTerminal())
	assert.True(t, QuoteStatusRejected.IsTerminal())
	assert.False(t, QuoteStatusSent.IsTerminal())
}

func TestQuoteStatusScan(t *testing.T) {
	var s QuoteStatus
	assert.NoError(t, s.Scan([]byte("accepted")))
	assert.Equal(t, QuoteStatusAccepted, s)
	assert.NoError(t, s.Scan(nil))
	assert.Equal(t, QuoteStatusDraft, s)
	assert.Error(t, s.Scan(42))
}

func TestParseCompany(t *testing.T) {
	assert.Equal(t, CompanyWertvoll, ParseCompany("Wertvoll", CompanyRelocato))
	assert.Equal(t, CompanyRelocato, ParseCompany("", CompanyRelocato))
	assert.Equal(t, CompanyRelocato, ParseCompany("acme", CompanyRelocato))
}

func TestParseSalutation(t *testing.T) {
	assert.Equal(t, SalutationHerr, ParseSalutation("Herr"))
	assert.Equal(t, SalutationFrau, ParseSalutation("frau"))
	assert.Equal(t, SalutationNone, ParseSalutation("Divers"))
}

func TestParseDocumentMode(t *testing.T) {
	m, ok := ParseDocumentMode("")
	assert.True(t, ok)
	assert.Equal(t, DocumentModeOffer, m)

	m, ok = ParseDocumentMode("Invoice")
	assert.True(t, ok)
	assert.Equal(t, "Rechnung", m.Title())

	_, ok = ParseDocumentMode("receipt")
	assert.False(t, ok)
}
