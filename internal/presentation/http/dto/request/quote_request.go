package request

import (
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// QuoteRequest creates a quote. Services can be sent either as Details or
// as the flat ServiceFlags form; Details wins when both are present.
type QuoteRequest struct {
	ID           string               `json:"id"`
	CustomerID   string               `json:"customer_id" binding:"required"`
	CustomerName string               `json:"customer_name"`
	Company      string               `json:"company"`
	Status       string               `json:"status"`
	Price        *decimal.Decimal     `json:"price"`
	Volume       float64              `json:"volume"`
	Distance     float64              `json:"distance"`
	MoveDate     *time.Time           `json:"move_date"`
	MoveFrom     *string              `json:"move_from"`
	MoveTo       *string              `json:"move_to"`
	Comment      *string              `json:"comment"`
	Details      *entity.QuoteDetails `json:"details"`
	ServiceFlags *entity.ServiceFlags `json:"service_flags"`
	LegacyID     *string              `json:"legacy_id"`
}

// ResolveDetails merges the two service forms.
func (r *QuoteRequest) ResolveDetails() *entity.QuoteDetails {
	return resolveDetails(r.Details, r.ServiceFlags, r.Volume, r.Distance)
}

// UpdateQuoteRequest changes the given fields of a quote.
type UpdateQuoteRequest struct {
	CustomerName *string              `json:"customer_name"`
	Company      *string              `json:"company"`
	Status       *string              `json:"status"`
	Price        *decimal.Decimal     `json:"price"`
	Volume       *float64             `json:"volume"`
	Distance     *float64             `json:"distance"`
	MoveDate     *time.Time           `json:"move_date"`
	MoveFrom     *string              `json:"move_from"`
	MoveTo       *string              `json:"move_to"`
	Comment      *string              `json:"comment"`
	Details      *entity.QuoteDetails `json:"details"`
	ServiceFlags *entity.ServiceFlags `json:"service_flags"`
}

// ResolveDetails merges the two service forms. Volume and distance fall
// back to the top-level fields when given.
func (r *UpdateQuoteRequest) ResolveDetails() *entity.QuoteDetails {
	var volume, distance float64
	if r.Volume != nil {
		volume = *r.Volume
	}
	if r.Distance != nil {
		distance = *r.Distance
	}
	return resolveDetails(r.Details, r.ServiceFlags, volume, distance)
}

func resolveDetails(details *entity.QuoteDetails, flags *entity.ServiceFlags, volume, distance float64) *entity.QuoteDetails {
	if details == nil && flags == nil {
		return nil
	}
	out := entity.QuoteDetails{}
	if details != nil {
		out = *details
	} else {
		out.Services = flags.Selections()
	}
	if out.Volume == 0 {
		out.Volume = volume
	}
	if out.Distance == 0 {
		out.Distance = distance
	}
	return &out
}

// StatusRequest moves a quote to another status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SendQuoteRequest mails a quote. To defaults to the customer's address.
type SendQuoteRequest struct {
	To   string `json:"to" binding:"omitempty,email"`
	Mode string `json:"mode" binding:"omitempty,oneof=offer invoice"`
}

// RespondRequest is the customer's answer on the public confirmation page.
type RespondRequest struct {
	Name string `json:"name" binding:"max=255"`
}

// CalculateRequest prices a move without storing anything. The customer
// is either looked up by CustomerID or described inline by Apartment.
type CalculateRequest struct {
	CustomerID   string               `json:"customer_id"`
	Apartment    *entity.Apartment    `json:"apartment"`
	Volume       float64              `json:"volume" binding:"gte=0"`
	Distance     float64              `json:"distance" binding:"gte=0"`
	Details      *entity.QuoteDetails `json:"details"`
	ServiceFlags *entity.ServiceFlags `json:"service_flags"`
	ManualPrice  *decimal.Decimal     `json:"manual_price"`
}

// ResolveDetails merges the two service forms; with neither, only volume
// and distance are priced.
func (r *CalculateRequest) ResolveDetails() entity.QuoteDetails {
	if d := resolveDetails(r.Details, r.ServiceFlags, r.Volume, r.Distance); d != nil {
		return *d
	}
	return entity.QuoteDetails{Volume: r.Volume, Distance: r.Distance}
}
