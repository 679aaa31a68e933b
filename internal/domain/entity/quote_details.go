package entity

import "github.com/shopspring/decimal"

// ServiceKind names one optional service that can be added to a move.
type ServiceKind string

const (
	ServicePacking          ServiceKind = "packing"
	ServiceBoxes            ServiceKind = "boxes"
	ServiceCleaning         ServiceKind = "cleaning"
	ServiceClearance        ServiceKind = "clearance"
	ServiceRenovation       ServiceKind = "renovation"
	ServicePiano            ServiceKind = "piano"
	ServiceHeavyItems       ServiceKind = "heavy_items"
	ServicePackingMaterials ServiceKind = "packing_materials"
	ServiceParkingZone      ServiceKind = "parking_zone"
	ServiceStorage          ServiceKind = "storage"
	ServiceAssembly         ServiceKind = "assembly"
	ServiceDisassembly      ServiceKind = "disassembly"
)

// ServiceKinds lists every service in catalog order.
var ServiceKinds = []ServiceKind{
	ServicePacking,
	ServiceBoxes,
	ServiceCleaning,
	ServiceClearance,
	ServiceRenovation,
	ServicePiano,
	ServiceHeavyItems,
	ServicePackingMaterials,
	ServiceParkingZone,
	ServiceStorage,
	ServiceAssembly,
	ServiceDisassembly,
}

// IsValid reports whether k is a known service.
func (k ServiceKind) IsValid() bool {
	for _, v := range ServiceKinds {
		if k == v {
			return true
		}
	}
	return false
}

// ServiceSelection is one requested service. Quantity means hours for
// cleaning and renovation, m³ for clearance, a count for boxes and heavy
// items, and is ignored for flat-rate services.
type ServiceSelection struct {
	Kind     ServiceKind `json:"kind"`
	Quantity float64     `json:"quantity,omitempty"`
}

// QuoteDetails is the pricing input. A service contributes to the price
// only if it is present in Services.
type QuoteDetails struct {
	Volume          float64            `json:"volume"`
	Distance        float64            `json:"distance"`
	Notes           string             `json:"notes,omitempty"`
	ManualBasePrice *decimal.Decimal   `json:"manual_base_price,omitempty"`
	ManualTotal     *decimal.Decimal   `json:"manual_total,omitempty"`
	Services        []ServiceSelection `json:"services"`
}

// Selection returns the selection for kind if it was requested.
func (d QuoteDetails) Selection(kind ServiceKind) (ServiceSelection, bool) {
	for _, s := range d.Services {
		if s.Kind == kind {
			return s, true
		}
	}
	return ServiceSelection{}, false
}

// Has reports whether kind was requested.
func (d QuoteDetails) Has(kind ServiceKind) bool {
	_, ok := d.Selection(kind)
	return ok
}

// Normalized returns a copy with negative measures clamped to zero,
// unknown kinds dropped and duplicate kinds collapsed (last one wins),
// keeping catalog order.
func (d QuoteDetails) Normalized() QuoteDetails {
	out := d
	out.Volume = nonNegative(d.Volume)
	out.Distance = nonNegative(d.Distance)

	latest := make(map[ServiceKind]ServiceSelection, len(d.Services))
	for _, s := range d.Services {
		if !s.Kind.IsValid() {
			continue
		}
		s.Quantity = nonNegative(s.Quantity)
		latest[s.Kind] = s
	}

	out.Services = make([]ServiceSelection, 0, len(latest))
	for _, kind := range ServiceKinds {
		if s, ok := latest[kind]; ok {
			out.Services = append(out.Services, s)
		}
	}
	return out
}

// ServiceFlags is the flat form older clients submit: one boolean per
// service plus quantities that are only meaningful when the flag is set.
type ServiceFlags struct {
	Packing          bool    `json:"packing_requested"`
	Boxes            bool    `json:"boxes"`
	BoxCount         float64 `json:"box_count"`
	Cleaning         bool    `json:"cleaning_service"`
	CleaningHours    float64 `json:"cleaning_hours"`
	Clearance        bool    `json:"clearance_service"`
	ClearanceVolume  float64 `json:"clearance_volume"`
	Renovation       bool    `json:"renovation_service"`
	RenovationHours  float64 `json:"renovation_hours"`
	Piano            bool    `json:"piano_transport"`
	HeavyItems       bool    `json:"heavy_items"`
	HeavyItemsCount  float64 `json:"heavy_items_count"`
	PackingMaterials bool    `json:"packing_materials"`
	ParkingZone      bool    `json:"parking_zone"`
	Storage          bool    `json:"storage"`
	Assembly         bool    `json:"furniture_assembly"`
	Disassembly      bool    `json:"furniture_disassembly"`
}

// Selections converts the flags into a selection set. Quantities of
// services whose flag is false are discarded.
func (f ServiceFlags) Selections() []ServiceSelection {
	var out []ServiceSelection
	add := func(on bool, kind ServiceKind, qty float64) {
		if on {
			out = append(out, ServiceSelection{Kind: kind, Quantity: qty})
		}
	}

	add(f.Packing, ServicePacking, 0)
	add(f.Boxes, ServiceBoxes, f.BoxCount)
	add(f.Cleaning, ServiceCleaning, f.CleaningHours)
	add(f.Clearance, ServiceClearance, f.ClearanceVolume)
	add(f.Renovation, ServiceRenovation, f.RenovationHours)
	add(f.Piano, ServicePiano, 0)
	add(f.HeavyItems, ServiceHeavyItems, f.HeavyItemsCount)
	add(f.PackingMaterials, ServicePackingMaterials, 0)
	add(f.ParkingZone, ServiceParkingZone, 0)
	add(f.Storage, ServiceStorage, 0)
	add(f.Assembly, ServiceAssembly, 0)
	add(f.Disassembly, ServiceDisassembly, 0)
	return out
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
