package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Inventory stock statuses, derived from quantity vs the low threshold.
const (
	StockIn  = "In Stock"
	StockLow = "Low Stock"
	StockOut = "Out of Stock"
)

type Inventory struct {
	gorm.Model
	Name          string `json:"name" gorm:"size:100;not null"`
	Description   string `json:"description" gorm:"type:text"`
	Category      string `json:"category" gorm:"size:50;not null;index"`
	Quantity      int    `json:"quantity" gorm:"not null"`
	LowerQuantity int    `json:"lowerQuantity" gorm:"not null"`
	UnitOfMeasure string `json:"unitOfMeasure" gorm:"size:50"`

	UnitPrice  decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2);not null"`
	TotalValue decimal.Decimal `json:"totalValue" gorm:"type:decimal(12,2)"`

	SupplierName string `json:"supplierName" gorm:"size:255"`
	Status       string `json:"status" gorm:"type:varchar(20);default:'In Stock';index"`
}

// ApplyStockDerivations recomputes total value and stock status from quantity.
func (i *Inventory) ApplyStockDerivations() {
	i.TotalValue = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	switch {
	case i.Quantity == 0:
		i.Status = StockOut
	case i.Quantity <= i.LowerQuantity:
		i.Status = StockLow
	default:
		i.Status = StockIn
	}
}

// BeforeSave keeps the derived fields consistent on every create and update.
func (i *Inventory) BeforeSave(tx *gorm.DB) error {
	i.ApplyStockDerivations()
	return nil
}
