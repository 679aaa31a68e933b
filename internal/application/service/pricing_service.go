package service

import (
	"fmt"
	"math"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/money"
	"github.com/shopspring/decimal"
)

// TaxRate is the German standard VAT rate applied to every quote.
var TaxRate = decimal.RequireFromString("0.19")

type priceBand struct {
	min, max float64
	price    int64
}

// Bands are inclusive at both ends; the first match wins.
var basePriceBands = []priceBand{
	{5, 10, 599},
	{10, 15, 749},
	{15, 20, 899},
	{20, 25, 1099},
	{25, 30, 1299},
	{30, 35, 1499},
	{35, 40, 1699},
	{40, 45, 1899},
	{45, 50, 2099},
	{50, 60, 2299},
	{60, 70, 2699},
	{70, 80, 3099},
	{80, 100, 3499},
}

const (
	oversizeStep      = 10.0
	oversizeStepPrice = 300
	floorSurcharge    = 50
	minEstimateVolume = 15
	areaPerCubicMeter = 3.0
)

// PriceType tells clients how a service's quantity is interpreted.
type PriceType string

const (
	PriceTypeFlat     PriceType = "flat"
	PriceTypePerUnit  PriceType = "per_unit"
	PriceTypePerHour  PriceType = "per_hour"
	PriceTypeByVolume PriceType = "by_volume"
)

// ServiceInfo is one entry of the service catalog.
type ServiceInfo struct {
	Kind      entity.ServiceKind `json:"kind"`
	Label     string             `json:"label"`
	Unit      string             `json:"unit"`
	PriceType PriceType          `json:"price_type"`
	UnitPrice decimal.Decimal    `json:"unit_price"`
	Note      string             `json:"note,omitempty"`
}

var serviceCatalog = map[entity.ServiceKind]ServiceInfo{
	entity.ServicePacking:          {Label: "Einpackservice", Unit: "pauschal", PriceType: PriceTypeByVolume, UnitPrice: decimal.NewFromInt(15), Note: "15 € pro m³, mindestens 150 €"},
	entity.ServiceBoxes:            {Label: "Umzugskartons", Unit: "Stk.", PriceType: PriceTypePerUnit, UnitPrice: decimal.RequireFromString("2.50")},
	entity.ServiceCleaning:         {Label: "Endreinigung", Unit: "Std.", PriceType: PriceTypePerHour, UnitPrice: decimal.NewFromInt(35)},
	entity.ServiceClearance:        {Label: "Entrümpelung", Unit: "m³", PriceType: PriceTypeByVolume, UnitPrice: decimal.NewFromInt(25), Note: "Staffelpreis bis 20 m³, danach 25 € pro m³"},
	entity.ServiceRenovation:       {Label: "Renovierungsarbeiten", Unit: "Std.", PriceType: PriceTypePerHour, UnitPrice: decimal.NewFromInt(45)},
	entity.ServicePiano:            {Label: "Klaviertransport", Unit: "pauschal", PriceType: PriceTypeFlat, UnitPrice: decimal.NewFromInt(150)},
	entity.ServiceHeavyItems:       {Label: "Schwertransport", Unit: "Stk.", PriceType: PriceTypePerUnit, UnitPrice: decimal.NewFromInt(25)},
	entity.ServicePackingMaterials: {Label: "Verpackungsmaterial", Unit: "pauschal", PriceType: PriceTypeFlat, UnitPrice: decimal.NewFromInt(50)},
	entity.ServiceParkingZone:      {Label: "Halteverbotszone", Unit: "pauschal", PriceType: PriceTypeFlat, UnitPrice: decimal.NewFromInt(80)},
	entity.ServiceStorage:          {Label: "Einlagerung", Unit: "pauschal", PriceType: PriceTypeFlat, UnitPrice: decimal.NewFromInt(100)},
	entity.ServiceAssembly:         {Label: "Möbelmontage", Unit: "pauschal", PriceType: PriceTypeFlat, UnitPrice: decimal.NewFromInt(50)},
	entity.ServiceDisassembly:      {Label: "Möbeldemontage", Unit: "pauschal", PriceType: PriceTypeFlat, UnitPrice: decimal.NewFromInt(50)},
}

// PricingService computes quote prices. It holds no state and is safe for
// concurrent use.
type PricingService struct{}

// NewPricingService creates a new pricing service
func NewPricingService() *PricingService {
	return &PricingService{}
}

// AvailableServices returns the service catalog in display order.
func (s *PricingService) AvailableServices() []ServiceInfo {
	out := make([]ServiceInfo, 0, len(entity.ServiceKinds))
	for _, kind := range entity.ServiceKinds {
		info := serviceCatalog[kind]
		info.Kind = kind
		out = append(out, info)
	}
	return out
}

// CalculateQuote prices details for customer. The customer may be nil, in
// which case no floor surcharge applies and the volume cannot be estimated.
// A manual total in details is applied on top of the computed breakdown.
func (s *PricingService) CalculateQuote(customer *entity.Customer, details entity.QuoteDetails) entity.QuoteCalculation {
	details = details.Normalized()

	var apartment entity.Apartment
	if customer != nil {
		apartment = customer.Apartment
	}

	volume := details.Volume
	if volume == 0 {
		volume = EstimateVolumeFromArea(apartment.Area)
	}

	base, volumeRange := BasePrice(volume)
	calc := entity.QuoteCalculation{
		VolumeBase:        volume,
		VolumeRange:       volumeRange,
		BasePrice:         base,
		DistanceSurcharge: DistanceSurcharge(details.Distance),
		FloorSurcharge:    decimal.Zero,
		AddOns:            []entity.LineItem{},
		TaxRate:           TaxRate,
	}

	if !apartment.HasElevator && apartment.Floor > 0 {
		calc.FloorSurcharge = decimal.NewFromInt(int64(apartment.Floor * floorSurcharge))
	}

	if details.ManualBasePrice != nil && details.ManualBasePrice.IsPositive() {
		calc.BasePrice = money.Round2(*details.ManualBasePrice)
		calc.DistanceSurcharge = decimal.Zero
	}

	for _, sel := range details.Services {
		if item, ok := s.lineItem(sel, volume); ok {
			calc.AddOns = append(calc.AddOns, item)
		}
	}

	calc.Subtotal = calc.BasePrice.
		Add(calc.FloorSurcharge).
		Add(calc.DistanceSurcharge).
		Add(calc.AddOnTotal())
	gross := money.Round2(calc.Subtotal.Mul(decimal.NewFromInt(1).Add(TaxRate)))
	calc.Tax = gross.Sub(calc.Subtotal)
	calc.TotalPrice = gross
	calc.FinalPrice = gross

	if details.ManualTotal != nil {
		calc = s.ApplyOverride(calc, *details.ManualTotal)
	}
	return calc
}

// ApplyOverride returns a copy of calc whose final and total price are
// the manual amount. A zero or negative amount leaves calc unchanged.
func (s *PricingService) ApplyOverride(calc entity.QuoteCalculation, manual decimal.Decimal) entity.QuoteCalculation {
	if !manual.IsPositive() {
		return calc
	}
	out := calc
	out.AddOns = append([]entity.LineItem(nil), calc.AddOns...)
	price := money.NonNegative(money.Round2(manual))
	out.ManualPrice = &price
	out.TotalPrice = price
	out.FinalPrice = price
	out.Overridden = true
	return out
}

func (s *PricingService) lineItem(sel entity.ServiceSelection, volume float64) (entity.LineItem, bool) {
	info, ok := serviceCatalog[sel.Kind]
	if !ok {
		return entity.LineItem{}, false
	}
	item := entity.LineItem{
		Kind:      sel.Kind,
		Label:     info.Label,
		Quantity:  1,
		Unit:      info.Unit,
		UnitPrice: info.UnitPrice,
	}

	switch sel.Kind {
	case entity.ServicePacking:
		amount := decimal.NewFromFloat(volume).Mul(info.UnitPrice)
		if minimum := decimal.NewFromInt(150); amount.LessThan(minimum) {
			amount = minimum
		}
		item.UnitPrice = money.Round2(amount)
		item.Amount = item.UnitPrice
	case entity.ServiceClearance:
		// Banded, so the line is a flat price for the stated volume.
		item.Label = fmt.Sprintf("%s (%s m³)", info.Label, money.FormatQuantity(sel.Quantity))
		item.Unit = "pauschal"
		item.Amount = ClearancePrice(sel.Quantity)
		item.UnitPrice = item.Amount
	case entity.ServiceBoxes, entity.ServiceCleaning, entity.ServiceRenovation, entity.ServiceHeavyItems:
		item.Quantity = sel.Quantity
		item.Amount = money.Round2(info.UnitPrice.Mul(decimal.NewFromFloat(sel.Quantity)))
	default:
		item.Amount = info.UnitPrice
	}
	return item, true
}

// EstimateVolumeFromArea derives a move volume from the living area:
// one m³ per three m², never below 15 m³.
func EstimateVolumeFromArea(area float64) float64 {
	return math.Max(math.Round(area/areaPerCubicMeter), minEstimateVolume)
}

// BasePrice returns the base price and the display range for volume.
func BasePrice(volume float64) (decimal.Decimal, string) {
	first := basePriceBands[0]
	if volume < first.min {
		return decimal.NewFromInt(first.price), fmt.Sprintf("%g-%g m³", first.min, first.max)
	}
	for _, band := range basePriceBands {
		if volume >= band.min && volume <= band.max {
			return decimal.NewFromInt(band.price), fmt.Sprintf("%g-%g m³", band.min, band.max)
		}
	}

	last := basePriceBands[len(basePriceBands)-1]
	steps := math.Ceil((volume - last.max) / oversizeStep)
	price := decimal.NewFromInt(last.price).Add(decimal.NewFromFloat(steps).Mul(decimal.NewFromInt(oversizeStepPrice)))
	return price, fmt.Sprintf("%s m³ (Sondervolumen)", money.FormatQuantity(volume))
}

// DistanceSurcharge returns the surcharge for the driving distance in km.
func DistanceSurcharge(distance float64) decimal.Decimal {
	switch {
	case distance <= 50:
		return decimal.Zero
	case distance <= 100:
		return decimal.NewFromInt(150)
	case distance <= 200:
		return decimal.NewFromInt(300)
	case distance <= 300:
		return decimal.NewFromInt(450)
	default:
		return decimal.NewFromInt(600)
	}
}

// ClearancePrice returns the banded clearance price for volume m³.
func ClearancePrice(volume float64) decimal.Decimal {
	switch {
	case volume <= 0:
		return decimal.Zero
	case volume <= 5:
		return decimal.NewFromInt(150)
	case volume <= 10:
		return decimal.NewFromInt(280)
	case volume <= 15:
		return decimal.NewFromInt(420)
	case volume <= 20:
		return decimal.NewFromInt(560)
	default:
		extra := decimal.NewFromFloat(volume - 20).Mul(decimal.NewFromInt(25))
		return money.Round2(decimal.NewFromInt(560).Add(extra))
	}
}
