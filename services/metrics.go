package services

import (
	"time"

	"rental-office-server/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HomeMetrics is the landing dashboard snapshot.
type HomeMetrics struct {
	TotalUnits         int64           `json:"total_units"`
	TotalUnitsOccupied int64           `json:"total_units_occupied"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	PendingPayments    decimal.Decimal `json:"pending_payments"`
	NewTenants         int64           `json:"new_tenants"`
}

// StockMetrics counts inventory items by derived status.
type StockMetrics struct {
	TotalItems      int64 `json:"total_items"`
	InStockItems    int64 `json:"in_stock_items"`
	OutOfStockItems int64 `json:"out_of_stock_items"`
	LowStockItems   int64 `json:"low_stock_items"`
}

// RentalMetrics sums rent amounts by payment status.
type RentalMetrics struct {
	TotalCollected decimal.Decimal `json:"total_collected"`
	Pending        decimal.Decimal `json:"pending"`
	Overdue        decimal.Decimal `json:"overdue"`
}

// GetHomeMetrics computes the home dashboard. Company revenue is the
// company's share of every paid rent: amount x (1 - owner_percentage/100),
// summed per rent. New tenants are those created in the last `days`.
func GetHomeMetrics(db *gorm.DB, days int) (*HomeMetrics, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	m := &HomeMetrics{TotalRevenue: decimal.Zero, PendingPayments: decimal.Zero}

	if err := db.Model(&models.Unit{}).Count(&m.TotalUnits).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Unit{}).Where("status = ?", models.UnitOccupied).Count(&m.TotalUnitsOccupied).Error; err != nil {
		return nil, err
	}

	var paidRents []models.Rent
	if err := db.Preload("Unit").Where("payment_status = ?", models.PaymentPaid).Find(&paidRents).Error; err != nil {
		return nil, err
	}
	for i := range paidRents {
		share := paidRents[i].TotalAmount
		if paidRents[i].Unit != nil {
			ownerFrac := paidRents[i].Unit.OwnerPercentage.Shift(-2)
			share = paidRents[i].TotalAmount.Mul(decimal.NewFromInt(1).Sub(ownerFrac))
		}
		m.TotalRevenue = m.TotalRevenue.Add(share)
	}
	m.TotalRevenue = m.TotalRevenue.Round(2)

	pending, err := sumDecimal(db, &models.Rent{}, "total_amount", "payment_status = ?", models.PaymentPending)
	if err != nil {
		return nil, err
	}
	m.PendingPayments = pending.Round(2)

	if err := db.Model(&models.Tenant{}).Where("created_at >= ?", since).Count(&m.NewTenants).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func GetStockMetrics(db *gorm.DB) (*StockMetrics, error) {
	m := &StockMetrics{}
	if err := db.Model(&models.Inventory{}).Count(&m.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Inventory{}).Where("status = ?", models.StockIn).Count(&m.InStockItems).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Inventory{}).Where("status = ?", models.StockOut).Count(&m.OutOfStockItems).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Inventory{}).Where("status = ?", models.StockLow).Count(&m.LowStockItems).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func GetRentalMetrics(db *gorm.DB) (*RentalMetrics, error) {
	collected, err := sumDecimal(db, &models.Rent{}, "total_amount", "payment_status = ?", models.PaymentPaid)
	if err != nil {
		return nil, err
	}
	pending, err := sumDecimal(db, &models.Rent{}, "total_amount", "payment_status = ?", models.PaymentPending)
	if err != nil {
		return nil, err
	}
	overdue, err := sumDecimal(db, &models.Rent{}, "total_amount", "payment_status = ?", models.PaymentOverdue)
	if err != nil {
		return nil, err
	}
	return &RentalMetrics{
		TotalCollected: collected.Round(2),
		Pending:        pending.Round(2),
		Overdue:        overdue.Round(2),
	}, nil
}
