package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Owner struct {
	gorm.Model
	FullName string          `json:"fullName" gorm:"size:255;uniqueIndex;not null"`
	Phone    string          `json:"phone" gorm:"size:20;uniqueIndex;not null"`
	Email    *string         `json:"email" gorm:"uniqueIndex"`
	Address  string          `json:"address" gorm:"type:text"`
	Rate     decimal.Decimal `json:"rate" gorm:"type:decimal(3,1);default:5.0"`

	Units    []Unit         `json:"units,omitempty" gorm:"foreignKey:OwnerID"`
	Payments []OwnerPayment `json:"payments,omitempty" gorm:"foreignKey:OwnerID"`
}

// OwnerRevenue is created lazily, one row per owner. Every field is derived
// from the ledger; UpdateOwnerRevenue recomputes the row wholesale.
type OwnerRevenue struct {
	gorm.Model
	OwnerID         uint            `json:"ownerID" gorm:"uniqueIndex;not null"`
	Owner           *Owner          `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	TotalRent       decimal.Decimal `json:"totalRent" gorm:"type:decimal(14,2);default:0"`
	PaidTotal       decimal.Decimal `json:"paidTotal" gorm:"type:decimal(14,2);default:0"`
	StillNotPaid    decimal.Decimal `json:"stillNotPaid" gorm:"type:decimal(14,2);default:0"`
	TotalOccasional decimal.Decimal `json:"totalOccasional" gorm:"type:decimal(14,2);default:0"`
	NetRevenue      decimal.Decimal `json:"netRevenue" gorm:"type:decimal(14,2);default:0"`
}

// OwnerPayment is an append-only payout to an owner.
type OwnerPayment struct {
	gorm.Model
	OwnerID uint            `json:"owner" gorm:"not null;index"`
	Owner   *Owner          `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Amount  decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Notes   string          `json:"notes" gorm:"type:text"`
}
