package enum

import "strings"

// DocumentMode selects whether a quote is rendered as an offer or an invoice.
type DocumentMode string

const (
	DocumentModeOffer   DocumentMode = "offer"
	DocumentModeInvoice DocumentMode = "invoice"
)

// ParseDocumentMode defaults to an offer when s is empty.
func ParseDocumentMode(s string) (DocumentMode, bool) {
	switch DocumentMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DocumentModeOffer:
		return DocumentModeOffer, true
	case DocumentModeInvoice:
		return DocumentModeInvoice, true
	default:
		return "", false
	}
}

// Title is the German document type.
func (m DocumentMode) Title() string {
	if m == DocumentModeInvoice {
		return "Rechnung"
	}
	return "Angebot"
}
