package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Occasional payment categories.
const (
	CategoryMaintenance = "maintenance"
	CategoryRepair      = "repair"
	CategoryCleaning    = "cleaning"
	CategoryOther       = "other"
)

// OccasionalPayment is an ad hoc cost attributed to a unit. It reduces the
// company's revenue at the unit level and is deducted before shares in the
// reporting rollups.
type OccasionalPayment struct {
	gorm.Model
	UnitID        uint            `json:"unit" gorm:"not null;index"`
	Unit          *Unit           `json:"-" gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE"`
	Category      string          `json:"category" gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `json:"paymentMethod" gorm:"type:varchar(20);not null"`
	PaymentDate   *time.Time      `json:"paymentDate" gorm:"type:date"`
	Notes         string          `json:"notes" gorm:"type:text"`
}
