package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Unit statuses. Maintenance is a manual override: the status engine never
// moves a unit out of it.
const (
	UnitAvailable     = "available"
	UnitOccupied      = "occupied"
	UnitInMaintenance = "in_maintenance"
)

type Unit struct {
	gorm.Model
	Name       string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	OwnerID    uint      `json:"owner" gorm:"not null;index"`
	Owner      *Owner    `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CityID     uint      `json:"city" gorm:"not null;index"`
	City       *City     `json:"-" gorm:"foreignKey:CityID;constraint:OnDelete:CASCADE"`
	DistrictID uint      `json:"district" gorm:"not null;index"`
	District   *District `json:"-" gorm:"foreignKey:DistrictID;constraint:OnDelete:CASCADE"`

	LocationURL  string `json:"locationURL" gorm:"not null"`
	LocationText string `json:"locationText" gorm:"type:text"`
	Status       string `json:"status" gorm:"type:varchar(20);default:available;index"`

	Type      string `json:"type" gorm:"type:varchar(20);not null"` // apartment, villa, studio, duplex, other
	Bedrooms  int    `json:"bedrooms" gorm:"not null"`
	Bathrooms int    `json:"bathrooms" gorm:"not null"`
	Area      int    `json:"area" gorm:"not null"` // square meters

	PricePerDay     decimal.Decimal `json:"pricePerDay" gorm:"type:decimal(12,2);default:0"`
	OwnerPercentage decimal.Decimal `json:"ownerPercentage" gorm:"type:decimal(5,2);default:0"` // 0-100
	LeaseStart      time.Time       `json:"leaseStart" gorm:"type:date"`
	LeaseEnd        time.Time       `json:"leaseEnd" gorm:"type:date"`

	// Cached ledger totals, recomputed wholesale by the derivation engine.
	// Never written by API callers.
	TotalRent         decimal.Decimal `json:"totalRent" gorm:"type:decimal(14,2);default:0"`
	TotalOccasional   decimal.Decimal `json:"totalOccasional" gorm:"type:decimal(14,2);default:0"`
	TotalOwnerRevenue decimal.Decimal `json:"totalOwnerRevenue" gorm:"type:decimal(14,2);default:0"`
	TotalMyRevenue    decimal.Decimal `json:"totalMyRevenue" gorm:"type:decimal(14,2);default:0"`

	Images []UnitImage `json:"images,omitempty" gorm:"foreignKey:UnitID"`
}

type UnitImage struct {
	gorm.Model
	UnitID uint   `json:"unitID" gorm:"not null;index"`
	Unit   *Unit  `json:"-" gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE"`
	URL    string `json:"url" gorm:"not null"`
}
