package entity

import (
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quote is a persisted price offer. The ID is opaque: callers may supply
// their own reference, otherwise a UUID string is assigned.
type Quote struct {
	ID                string           `gorm:"primaryKey;size:64" json:"id"`
	CustomerID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName      string           `gorm:"size:255;not null" json:"customer_name"`
	Company           enum.Company     `gorm:"size:32;not null;default:'relocato'" json:"company"`
	Status            enum.QuoteStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`
	Price             decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	Volume            float64          `gorm:"default:0" json:"volume"`
	Distance          float64          `gorm:"default:0" json:"distance"`
	MoveDate          *time.Time       `json:"move_date,omitempty"`
	MoveFrom          *string          `gorm:"type:text" json:"move_from,omitempty"`
	MoveTo            *string          `gorm:"type:text" json:"move_to,omitempty"`
	Comment           *string          `gorm:"type:text" json:"comment,omitempty"`
	Details           QuoteDetails     `gorm:"column:services;type:text;serializer:json" json:"details"`
	ConfirmationToken *string          `gorm:"size:64;uniqueIndex" json:"-"`
	ConfirmedAt       *time.Time       `json:"confirmed_at,omitempty"`
	ConfirmedBy       *string          `gorm:"size:255" json:"confirmed_by,omitempty"`
	SentAt            *time.Time       `json:"sent_at,omitempty"`
	CreatedBy         string           `gorm:"size:255;not null;default:'system'" json:"created_by"`
	LegacyID          *string          `gorm:"column:firebase_id;size:128;index" json:"legacy_id,omitempty"`
	Version           int              `gorm:"not null;default:1" json:"version"`
	ParentQuoteID     *string          `gorm:"size:64;index" json:"parent_quote_id,omitempty"`
	IsDeleted         bool             `gorm:"not null;default:false;index" json:"-"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// BeforeCreate fills the opaque ID and lifecycle defaults.
func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.Status == "" {
		q.Status = enum.QuoteStatusDraft
	}
	if q.Version == 0 {
		q.Version = 1
	}
	if q.CreatedBy == "" {
		q.CreatedBy = "system"
	}
	return nil
}

// TableName returns the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}
