package services

import (
	"fmt"
	"testing"

	"rental-office-server/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationSweepLeaseWarning(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedUnit(t, db, "30")

	leaseEnd := Today().AddDate(0, 0, 30)
	require.NoError(t, db.Model(unit).Update("lease_end", leaseEnd).Error)

	require.NoError(t, CheckAndCreateNotifications(db))

	want := fmt.Sprintf("Lease for unit '%s' will end on %s", unit.Name, leaseEnd.Format("2006-01-02"))
	var n models.Notification
	require.NoError(t, db.Where("message = ?", want).First(&n).Error)
}

func TestNotificationSweepIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedUnit(t, db, "30")
	require.NoError(t, db.Model(unit).Update("lease_end", Today().AddDate(0, 0, 10)).Error)

	require.NoError(t, CheckAndCreateNotifications(db))
	require.NoError(t, CheckAndCreateNotifications(db))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestNotificationSweepSkipsDistantLeases(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedUnit(t, db, "30")
	require.NoError(t, db.Model(unit).Update("lease_end", Today().AddDate(0, 0, 90)).Error)

	require.NoError(t, CheckAndCreateNotifications(db))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestNotificationSweepStockAlerts(t *testing.T) {
	db := newTestDB(t)

	low := &models.Inventory{
		Name: "Door locks", Category: "hardware", Quantity: 3, LowerQuantity: 5,
		UnitPrice: decimal.NewFromInt(20),
	}
	require.NoError(t, db.Create(low).Error)
	out := &models.Inventory{
		Name: "Light bulbs", Category: "electrical", Quantity: 0, LowerQuantity: 10,
		UnitPrice: decimal.NewFromInt(2),
	}
	require.NoError(t, db.Create(out).Error)

	require.NoError(t, CheckAndCreateNotifications(db))

	var lowAlert models.Notification
	require.NoError(t, db.Where("message = ?", "Item 'Door locks' only has 3 units remaining").First(&lowAlert).Error)
	var outAlert models.Notification
	require.NoError(t, db.Where("message = ?", "Item 'Light bulbs' is out of stock").First(&outAlert).Error)
}

func TestNotificationSweepPurgesOldRows(t *testing.T) {
	db := newTestDB(t)

	stale := &models.Notification{Message: "Lease for unit 'Old Flat' will end on 2025-01-01"}
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Model(stale).Update("created_at", Today().AddDate(0, 0, -200)).Error)

	fresh := &models.Notification{Message: "Lease for unit 'New Flat' will end on 2026-10-01"}
	require.NoError(t, db.Create(fresh).Error)

	require.NoError(t, CheckAndCreateNotifications(db))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var remaining models.Notification
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, fresh.Message, remaining.Message)
}
