package entity

import (
	"strings"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Apartment describes the origin flat; floor and elevator drive the floor
// surcharge and area is the fallback for the volume estimate.
type Apartment struct {
	Rooms       int     `gorm:"default:0" json:"rooms"`
	Area        float64 `gorm:"default:0" json:"area"`
	Floor       int     `gorm:"default:0" json:"floor"`
	HasElevator bool    `gorm:"default:false" json:"has_elevator"`
}

// Customer is a moving customer. Three identifier spaces point at the same
// row: ID, CustomerNumber and the LegacyID imported from the old datastore.
type Customer struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CustomerNumber string          `gorm:"size:32;uniqueIndex;not null" json:"customer_number"`
	LegacyID       *string         `gorm:"column:firebase_id;size:128;index" json:"legacy_id,omitempty"`
	Salutation     enum.Salutation `gorm:"size:10" json:"salutation"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Email          string          `gorm:"size:255;index" json:"email"`
	Phone          string          `gorm:"size:50" json:"phone"`
	Street         string          `gorm:"size:255" json:"street"`
	Zip            string          `gorm:"size:10" json:"zip"`
	City           string          `gorm:"size:100" json:"city"`
	FromAddress    string          `gorm:"type:text" json:"from_address"`
	ToAddress      string          `gorm:"type:text" json:"to_address"`
	MovingDate     *time.Time      `json:"moving_date,omitempty"`
	Apartment      Apartment       `gorm:"embedded;embeddedPrefix:apartment_" json:"apartment"`
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`
	IsDeleted      bool            `gorm:"not null;default:false;index" json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// LastName is the last word of the name, used in the letter greeting.
func (c *Customer) LastName() string {
	parts := strings.Fields(c.Name)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// RecipientLines returns the postal address block. The structured street
// fields win; otherwise the free-text origin address is split on commas.
func (c *Customer) RecipientLines() []string {
	lines := []string{strings.TrimSpace(c.Name)}
	if c.Street != "" {
		lines = append(lines, c.Street)
		if cityLine := strings.TrimSpace(c.Zip + " " + c.City); cityLine != "" {
			lines = append(lines, cityLine)
		}
		return lines
	}
	for _, part := range strings.Split(c.FromAddress, ",") {
		if part = strings.TrimSpace(part); part != "" {
			lines = append(lines, part)
		}
	}
	return lines
}
