package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tenant statuses, derived from the tenant's rent history.
const (
	TenantActive    = "active"
	TenantCompleted = "completed"
	TenantInactive  = "inactive"
)

type Tenant struct {
	gorm.Model
	FullName string  `json:"fullName" gorm:"size:255;not null"`
	Phone    string  `json:"phone" gorm:"size:20;not null"`
	Email    *string `json:"email"`
	Address  string  `json:"address" gorm:"type:text"`
	// Average of review rates, one decimal. 5.0 when the tenant has no reviews.
	Rate   decimal.Decimal `json:"rate" gorm:"type:decimal(3,1);default:5.0"`
	Status string          `json:"status" gorm:"type:varchar(20);default:inactive;index"`

	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:TenantID"`
	Rents   []Rent   `json:"rents,omitempty" gorm:"foreignKey:TenantID"`
}

type Review struct {
	gorm.Model
	TenantID uint            `json:"tenant" gorm:"not null;index"`
	Tenant   *Tenant         `json:"-" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
	Comment  string          `json:"comment" gorm:"type:text"`
	Rate     decimal.Decimal `json:"rate" gorm:"type:decimal(2,1);not null"` // 1.0-5.0
}
