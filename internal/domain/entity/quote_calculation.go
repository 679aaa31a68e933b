package entity

import "github.com/shopspring/decimal"

// LineItem is one priced position of a calculation.
type LineItem struct {
	Kind      ServiceKind     `json:"kind"`
	Label     string          `json:"label"`
	Quantity  float64         `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// QuoteCalculation is the price breakdown produced by the pricing engine.
// When Overridden is set, FinalPrice and TotalPrice carry the manual total
// and the rest of the breakdown is informational.
type QuoteCalculation struct {
	VolumeBase        float64          `json:"volume_base"`
	VolumeRange       string           `json:"volume_range"`
	BasePrice         decimal.Decimal  `json:"base_price"`
	FloorSurcharge    decimal.Decimal  `json:"floor_surcharge"`
	DistanceSurcharge decimal.Decimal  `json:"distance_surcharge"`
	AddOns            []LineItem       `json:"add_ons"`
	Subtotal          decimal.Decimal  `json:"subtotal"`
	TaxRate           decimal.Decimal  `json:"tax_rate"`
	Tax               decimal.Decimal  `json:"tax"`
	TotalPrice        decimal.Decimal  `json:"total_price"`
	FinalPrice        decimal.Decimal  `json:"final_price"`
	ManualPrice       *decimal.Decimal `json:"manual_price,omitempty"`
	Overridden        bool             `json:"overridden"`
}

// AddOnTotal sums the itemized add-ons.
func (c QuoteCalculation) AddOnTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.AddOns {
		total = total.Add(item.Amount)
	}
	return total
}

// AddOn returns the line item for kind if present.
func (c QuoteCalculation) AddOn(kind ServiceKind) (LineItem, bool) {
	for _, item := range c.AddOns {
		if item.Kind == kind {
			return item, true
		}
	}
	return LineItem{}, false
}
