package enum

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// QuoteStatus is the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusConfirmed QuoteStatus = "confirmed"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusInvoiced  QuoteStatus = "invoiced"
)

// QuoteStatuses lists every valid status.
var QuoteStatuses = []QuoteStatus{
	QuoteStatusDraft,
	QuoteStatusSent,
	QuoteStatusAccepted,
	QuoteStatusConfirmed,
	QuoteStatusRejected,
	QuoteStatusInvoiced,
}

// quoteTransitions lists the forward moves allowed from each status.
// rejected and invoiced are terminal.
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft:     {QuoteStatusSent},
	QuoteStatusSent:      {QuoteStatusSent, QuoteStatusAccepted, QuoteStatusConfirmed, QuoteStatusRejected},
	QuoteStatusAccepted:  {QuoteStatusConfirmed, QuoteStatusInvoiced},
	QuoteStatusConfirmed: {QuoteStatusInvoiced},
}

func (s QuoteStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses.
func (s QuoteStatus) IsValid() bool {
	for _, v := range QuoteStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s QuoteStatus) IsTerminal() bool {
	return len(quoteTransitions[s]) == 0
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseQuoteStatus normalizes s and reports whether it is a known status.
func ParseQuoteStatus(s string) (QuoteStatus, bool) {
	status := QuoteStatus(strings.ToLower(strings.TrimSpace(s)))
	return status, status.IsValid()
}

func (s QuoteStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *QuoteStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = QuoteStatusDraft
	case string:
		*s = QuoteStatus(v)
	case []byte:
		*s = QuoteStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into QuoteStatus", value)
	}
	return nil
}
