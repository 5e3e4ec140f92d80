package services

import (
	"fmt"

	"rental-office-server/models"

	"gorm.io/gorm"
)

const (
	leaseMessageTpl = "Lease for unit '%s' will end on %s"
	lowStockTpl     = "Item '%s' only has %d units remaining"
	outOfStockTpl   = "Item '%s' is out of stock"
)

// leaseWarningDays is how far ahead the sweep looks for expiring leases.
const leaseWarningDays = 60

// notificationRetentionDays is how long rows are kept before the sweep
// purges them (six months).
const notificationRetentionDays = 6 * 30

func createNotificationOnce(db *gorm.DB, message string) error {
	var n models.Notification
	return db.Where(models.Notification{Message: message}).FirstOrCreate(&n).Error
}

// CheckAndCreateNotifications regenerates the notification feed:
// lease-expiry warnings for units ending within two months, low/out-of-stock
// warnings for inventory, then a purge of rows older than six months.
// Deduplicated by exact message text, so repeated sweeps are idempotent.
func CheckAndCreateNotifications(db *gorm.DB) error {
	today := Today()
	horizon := today.AddDate(0, 0, leaseWarningDays)

	var units []models.Unit
	err := db.Select("id", "name", "lease_end").
		Where("lease_end >= ? AND lease_end <= ?", today, horizon).
		Find(&units).Error
	if err != nil {
		return err
	}
	for i := range units {
		msg := fmt.Sprintf(leaseMessageTpl, units[i].Name, units[i].LeaseEnd.Format("2006-01-02"))
		if err := createNotificationOnce(db, msg); err != nil {
			return err
		}
	}

	var items []models.Inventory
	err = db.Select("id", "name", "quantity", "status").
		Where("status IN ?", []string{models.StockLow, models.StockOut}).
		Find(&items).Error
	if err != nil {
		return err
	}
	for i := range items {
		var msg string
		if items[i].Quantity == 0 {
			msg = fmt.Sprintf(outOfStockTpl, items[i].Name)
		} else {
			msg = fmt.Sprintf(lowStockTpl, items[i].Name, items[i].Quantity)
		}
		if err := createNotificationOnce(db, msg); err != nil {
			return err
		}
	}

	cutoff := today.AddDate(0, 0, -notificationRetentionDays)
	return db.Unscoped().Where("created_at < ?", cutoff).Delete(&models.Notification{}).Error
}
