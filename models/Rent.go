package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Rent payment statuses (caller input).
const (
	PaymentPaid    = "paid"
	PaymentPending = "pending"
	PaymentOverdue = "overdue"
)

// Rent lifecycle statuses. All derived except canceled, which is sticky once
// set and never overridden by the engine.
const (
	RentActive   = "active"
	RentExpired  = "expired"
	RentPending  = "pending"
	RentCanceled = "canceled"
)

// Payment methods shared by rents and occasional payments.
const (
	MethodCash          = "cash"
	MethodBankTransfer  = "bank_transfer"
	MethodCreditCard    = "credit_card"
	MethodOnlinePayment = "online_payment"
)

type Rent struct {
	gorm.Model
	UnitID   uint    `json:"unit" gorm:"not null;index"`
	Unit     *Unit   `json:"-" gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE"`
	TenantID uint    `json:"tenant" gorm:"not null;index"`
	Tenant   *Tenant `json:"-" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`

	RentStart   time.Time       `json:"rentStart" gorm:"type:date;not null"`
	RentEnd     time.Time       `json:"rentEnd" gorm:"type:date;not null"`
	TotalAmount decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2);not null"`

	PaymentStatus string     `json:"paymentStatus" gorm:"type:varchar(20);default:pending;index"`
	PaymentMethod string     `json:"paymentMethod" gorm:"type:varchar(20)"`
	PaymentDate   *time.Time `json:"paymentDate"`
	Status        string     `json:"status" gorm:"type:varchar(20);default:pending;index"`

	Notes      string `json:"notes" gorm:"type:text"`
	Attachment string `json:"attachment"` // stored file URL
}
