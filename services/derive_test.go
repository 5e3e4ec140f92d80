package services

import (
	"testing"
	"time"

	"rental-office-server/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.City{},
		&models.District{},
		&models.Owner{},
		&models.OwnerRevenue{},
		&models.OwnerPayment{},
		&models.Unit{},
		&models.UnitImage{},
		&models.Tenant{},
		&models.Review{},
		&models.Rent{},
		&models.OccasionalPayment{},
		&models.Inventory{},
		&models.Notification{},
	))
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedUnit(t *testing.T, db *gorm.DB, percentage string) (*models.Owner, *models.Unit) {
	t.Helper()
	owner := &models.Owner{FullName: "Sami Haddad", Phone: "0590000001", Rate: decimal.NewFromInt(5)}
	require.NoError(t, db.Create(owner).Error)

	city := &models.City{Name: "Ramallah"}
	require.NoError(t, db.Create(city).Error)
	district := &models.District{Name: "Al-Masyoun", CityID: city.ID}
	require.NoError(t, db.Create(district).Error)

	pct, err := decimal.NewFromString(percentage)
	require.NoError(t, err)

	unit := &models.Unit{
		Name:            "Masyoun Tower A3",
		OwnerID:         owner.ID,
		CityID:          city.ID,
		DistrictID:      district.ID,
		LocationURL:     "https://goo.gl/maps/abc123",
		Type:            "apartment",
		Bedrooms:        2,
		Bathrooms:       1,
		Area:            120,
		Status:          models.UnitAvailable,
		PricePerDay:     decimal.NewFromInt(50),
		OwnerPercentage: pct,
		LeaseStart:      Today().AddDate(-1, 0, 0),
		LeaseEnd:        Today().AddDate(1, 0, 0),
	}
	require.NoError(t, db.Create(unit).Error)
	return owner, unit
}

func seedTenant(t *testing.T, db *gorm.DB, name, phone string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{FullName: name, Phone: phone, Rate: decimal.NewFromInt(5), Status: models.TenantInactive}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func TestValidateRentWindowDateOrdering(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedUnit(t, db, "30")
	tenant := seedTenant(t, db, "Nour Aburas", "0590000002")

	rent := &models.Rent{
		UnitID:      unit.ID,
		TenantID:    tenant.ID,
		RentStart:   date(2026, 3, 10),
		RentEnd:     date(2026, 3, 1),
		TotalAmount: decimal.NewFromInt(1000),
	}
	err := ValidateRentWindow(db, rent)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rentEnd", vErr.Field)
}

func TestValidateRentWindowUnitOverlap(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedUnit(t, db, "30")
	first := seedTenant(t, db, "Nour Aburas", "0590000002")
	second := seedTenant(t, db, "Khaled Odeh", "0590000003")

	require.NoError(t, db.Create(&models.Rent{
		UnitID: unit.ID, TenantID: first.ID,
		RentStart: date(2026, 1, 1), RentEnd: date(2026, 1, 31),
		TotalAmount: decimal.NewFromInt(1000),
	}).Error)

	overlapping := &models.Rent{
		UnitID: unit.ID, TenantID: second.ID,
		RentStart: date(2026, 1, 31), RentEnd: date(2026, 2, 28),
		TotalAmount: decimal.NewFromInt(1000),
	}
	err := ValidateRentWindow(db, overlapping)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "unit", vErr.Field)

	// Windows are inclusive: the day after the previous end is free.
	adjacent := &models.Rent{
		UnitID: unit.ID, TenantID: second.ID,
		RentStart: date(2026, 2, 1), RentEnd: date(2026, 2, 28),
		TotalAmount: decimal.NewFromInt(1000),
	}
	assert.NoError(t, ValidateRentWindow(db, adjacent))
}

func TestValidateRentWindowTenantOverlap(t *testing.T) {
	db := newTestDB(t)
	_, unitA := seedUnit(t, db, "30")
	tenant := seedTenant(t, db, "Nour Aburas", "0590000002")

	unitB := &models.Unit{
		Name: "Masyoun Tower B1", OwnerID: unitA.OwnerID, CityID: unitA.CityID,
		DistrictID: unitA.DistrictID, LocationURL: "https://goo.gl/maps/def456",
		Type: "studio", Bedrooms: 1, Bathrooms: 1, Area: 60,
		Status: models.UnitAvailable, OwnerPercentage: decimal.NewFromInt(40),
		LeaseStart: Today().AddDate(-1, 0, 0), LeaseEnd: Today().AddDate(1, 0, 0),
	}
	require.NoError(t, db.Create(unitB).Error)

	require.NoError(t, db.Create(&models.Rent{
		UnitID: unitA.ID, TenantID: tenant.ID,
		RentStart: date(2026, 1, 1), RentEnd: date(2026, 1, 31),
		TotalAmount: decimal.NewFromInt(1000),
	}).Error)

	err := ValidateRentWindow(db, &models.Rent{
		UnitID: unitB.ID, TenantID: tenant.ID,
		RentStart: date(2026, 1, 15), RentEnd: date(2026, 2, 15),
		TotalAmount: decimal.NewFromInt(1000),
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "tenant", vErr.Field)
}

func TestValidateRentWindowExcludesOwnRow(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedUnit(t, db, "30")
	tenant := seedTenant(t, db, "Nour Aburas", "0590000002")

	rent := &models.Rent{
		UnitID: unit.ID, TenantID: tenant.ID,
		RentStart: date(2026, 1, 1), RentEnd: date(2026, 1, 31),
		TotalAmount: decimal.NewFromInt(1000),
	}
	require.NoError(t, db.Create(rent).Error)

	rent.RentEnd = date(2026, 2, 10)
	assert.NoError(t, ValidateRentWindow(db, rent))
}

func TestRefreshUnitStatus(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedUnit(t, db, "30")
	tenant := seedTenant(t, db, "Nour Aburas", "0590000002")

	rent := &models.Rent{
		UnitID: unit.ID, TenantID: tenant.ID,
		RentStart: Today().AddDate(0, 0, -5), RentEnd: Today().AddDate(0, 0, 5),
		TotalAmount: decimal.NewFromInt(500),
	}
	require.NoError(t, db.Create(rent).Error)

	require.NoError(t, RefreshUnitStatus(db, unit))
	assert.Equal(t, models.UnitOccupied, unit.Status)

	// Idempotent: a second refresh changes nothing.
	require.NoError(t, RefreshUnitStatus(db, unit))
	assert.Equal(t, models.UnitOccupied, unit.Status)

	require.NoError(t, db.Unscoped().Delete(rent).Error)
	require.NoError(t, RefreshUnitStatus(db, unit))
	assert.Equal(t, models.UnitAvailable, unit.Status)
}

func TestRefreshUnitStatusMaintenanceSticky(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedUnit(t, db, "30")
	tenant := seedTenant(t, db, "Nour Aburas", "0590000002")

	require.NoError(t, db.Model(unit).Update("status", models.UnitInMaintenance).Error)
	unit.Status = models.UnitInMaintenance

	require.NoError(t, db.Create(&models.Rent{
		UnitID: unit.ID, TenantID: tenant.ID,
		RentStart: Today().AddDate(0, 0, -1), RentEnd: Today().AddDate(0, 0, 10),
		TotalAmount: decimal.NewFromInt(500),
	}).Error)

	require.NoError(t, RefreshUnitStatus(db, unit))
	assert.Equal(t, models.UnitInMaintenance, unit.Status)
}

func TestRefreshUnitFinancialsIdentity(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedUnit(t, db, "33.33")
	tenant := seedTenant(t, db, "Nour Aburas", "0590000002")

	require.NoError(t, db.Create(&models.Rent{
		UnitID: unit.ID, TenantID: tenant.ID,
		RentStart: date(2026, 1, 1), RentEnd: date(2026, 1, 31),
		TotalAmount: decimal.RequireFromString("1000.00"),
	}).Error)
	require.NoError(t, db.Create(&models.OccasionalPayment{
		UnitID: unit.ID, Category: models.CategoryRepair,
		Amount: decimal.RequireFromString("150.00"), PaymentMethod: models.MethodCash,
	}).Error)

	require.NoError(t, RefreshUnitFinancials(db, unit))

	assert.True(t, unit.TotalRent.Equal(decimal.RequireFromString("1000")), unit.TotalRent.String())
	assert.True(t, unit.TotalOwnerRevenue.Equal(decimal.RequireFromString("333.30")), unit.TotalOwnerRevenue.String())

	sum := unit.TotalMyRevenue.Add(unit.TotalOwnerRevenue).Add(unit.TotalOccasional)
	assert.True(t, sum.Equal(unit.TotalRent), "identity broken: %s != %s", sum, unit.TotalRent)
}

func TestRefreshOwnerRevenue(t *testing.T) {
	db := newTestDB(t)
	owner, unit := seedUnit(t, db, "40")
	tenant := seedTenant(t, db, "Nour Aburas", "0590000002")

	require.NoError(t, db.Create(&models.Rent{
		UnitID: unit.ID, TenantID: tenant.ID,
		RentStart: date(2026, 1, 1), RentEnd: date(2026, 1, 31),
		TotalAmount: decimal.NewFromInt(2000),
	}).Error)
	require.NoError(t, db.Create(&models.OccasionalPayment{
		UnitID: unit.ID, Category: models.CategoryCleaning,
		Amount: decimal.NewFromInt(300), PaymentMethod: models.MethodCash,
	}).Error)

	revenue, err := RefreshOwnerRevenue(db, owner.ID)
	require.NoError(t, err)

	// Net revenue is the raw rent share: occasional costs do not reduce it.
	assert.True(t, revenue.NetRevenue.Equal(decimal.NewFromInt(800)), revenue.NetRevenue.String())
	assert.True(t, revenue.TotalOccasional.Equal(decimal.NewFromInt(300)))
	assert.True(t, revenue.StillNotPaid.Equal(decimal.NewFromInt(800)))

	// Overpaying floors the outstanding balance at zero.
	require.NoError(t, db.Create(&models.OwnerPayment{OwnerID: owner.ID, Amount: decimal.NewFromInt(1000)}).Error)
	revenue, err = RefreshOwnerRevenue(db, owner.ID)
	require.NoError(t, err)
	assert.True(t, revenue.StillNotPaid.IsZero(), revenue.StillNotPaid.String())

	// One row per owner, reused across refreshes.
	var count int64
	require.NoError(t, db.Model(&models.OwnerRevenue{}).Where("owner_id = ?", owner.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecalcTenantRate(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, "Nour Aburas", "0590000002")

	require.NoError(t, db.Create(&models.Review{TenantID: tenant.ID, Rate: decimal.NewFromInt(4)}).Error)
	require.NoError(t, db.Create(&models.Review{TenantID: tenant.ID, Rate: decimal.NewFromInt(5)}).Error)

	require.NoError(t, RecalcTenantRate(db, tenant.ID))
	require.NoError(t, db.First(tenant, tenant.ID).Error)
	assert.True(t, tenant.Rate.Equal(decimal.RequireFromString("4.5")), tenant.Rate.String())

	require.NoError(t, db.Unscoped().Where("tenant_id = ?", tenant.ID).Delete(&models.Review{}).Error)
	require.NoError(t, RecalcTenantRate(db, tenant.ID))
	require.NoError(t, db.First(tenant, tenant.ID).Error)
	assert.True(t, tenant.Rate.Equal(decimal.NewFromInt(5)), tenant.Rate.String())
}

func TestRefreshTenantStatus(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedUnit(t, db, "30")
	tenant := seedTenant(t, db, "Nour Aburas", "0590000002")

	require.NoError(t, RefreshTenantStatus(db, tenant))
	assert.Equal(t, models.TenantInactive, tenant.Status)

	rent := &models.Rent{
		UnitID: unit.ID, TenantID: tenant.ID,
		RentStart: Today().AddDate(0, 0, -3), RentEnd: Today().AddDate(0, 0, 3),
		TotalAmount: decimal.NewFromInt(100),
	}
	require.NoError(t, db.Create(rent).Error)
	require.NoError(t, RefreshTenantStatus(db, tenant))
	assert.Equal(t, models.TenantActive, tenant.Status)

	require.NoError(t, db.Model(rent).Updates(map[string]interface{}{
		"rent_start": Today().AddDate(0, 0, -20),
		"rent_end":   Today().AddDate(0, 0, -10),
	}).Error)
	require.NoError(t, RefreshTenantStatus(db, tenant))
	assert.Equal(t, models.TenantCompleted, tenant.Status)

	// A future rent alongside past ones keeps the tenant out of completed.
	require.NoError(t, db.Create(&models.Rent{
		UnitID: unit.ID, TenantID: tenant.ID,
		RentStart: Today().AddDate(0, 0, 10), RentEnd: Today().AddDate(0, 0, 20),
		TotalAmount: decimal.NewFromInt(100),
	}).Error)
	require.NoError(t, RefreshTenantStatus(db, tenant))
	assert.Equal(t, models.TenantInactive, tenant.Status)
}

func TestComputeRentStatus(t *testing.T) {
	today := date(2026, 6, 15)

	cases := []struct {
		name          string
		paymentStatus string
		status        string
		rentEnd       time.Time
		want          string
	}{
		{"paid and running", models.PaymentPaid, "", date(2026, 7, 1), models.RentActive},
		{"paid ending today", models.PaymentPaid, "", today, models.RentActive},
		{"paid and over", models.PaymentPaid, "", date(2026, 6, 1), models.RentExpired},
		{"pending", models.PaymentPending, "", date(2026, 7, 1), models.RentPending},
		{"overdue and over", models.PaymentOverdue, "", date(2026, 6, 1), models.RentExpired},
		{"overdue still running", models.PaymentOverdue, "", date(2026, 7, 1), models.RentPending},
		{"canceled stays canceled", models.PaymentPaid, models.RentCanceled, date(2026, 7, 1), models.RentCanceled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rent := &models.Rent{
				PaymentStatus: tc.paymentStatus,
				Status:        tc.status,
				RentStart:     date(2026, 6, 1),
				RentEnd:       tc.rentEnd,
			}
			assert.Equal(t, tc.want, ComputeRentStatus(rent, today))
		})
	}
}

func TestSaveRentCascade(t *testing.T) {
	db := newTestDB(t)
	owner, unit := seedUnit(t, db, "25")
	tenant := seedTenant(t, db, "Nour Aburas", "0590000002")

	now := time.Now().UTC()
	rent := &models.Rent{
		UnitID: unit.ID, TenantID: tenant.ID,
		RentStart: Today().AddDate(0, 0, -1), RentEnd: Today().AddDate(0, 1, 0),
		TotalAmount:   decimal.NewFromInt(1200),
		PaymentStatus: models.PaymentPaid,
		PaymentDate:   &now,
	}
	require.NoError(t, SaveRent(db, rent))
	assert.Equal(t, models.RentActive, rent.Status)

	require.NoError(t, db.First(unit, unit.ID).Error)
	assert.Equal(t, models.UnitOccupied, unit.Status)
	assert.True(t, unit.TotalRent.Equal(decimal.NewFromInt(1200)), unit.TotalRent.String())
	assert.True(t, unit.TotalOwnerRevenue.Equal(decimal.NewFromInt(300)), unit.TotalOwnerRevenue.String())
	assert.True(t, unit.TotalMyRevenue.Equal(decimal.NewFromInt(900)), unit.TotalMyRevenue.String())

	var revenue models.OwnerRevenue
	require.NoError(t, db.Where("owner_id = ?", owner.ID).First(&revenue).Error)
	assert.True(t, revenue.NetRevenue.Equal(decimal.NewFromInt(300)), revenue.NetRevenue.String())
}

func TestSaveOccasionalPaymentCascade(t *testing.T) {
	db := newTestDB(t)
	owner, unit := seedUnit(t, db, "25")
	tenant := seedTenant(t, db, "Nour Aburas", "0590000002")

	require.NoError(t, SaveRent(db, &models.Rent{
		UnitID: unit.ID, TenantID: tenant.ID,
		RentStart: date(2026, 1, 1), RentEnd: date(2026, 1, 31),
		TotalAmount: decimal.NewFromInt(1000),
	}))

	payDate := Today()
	require.NoError(t, SaveOccasionalPayment(db, &models.OccasionalPayment{
		UnitID: unit.ID, Category: models.CategoryMaintenance,
		Amount: decimal.NewFromInt(200), PaymentMethod: models.MethodCash,
		PaymentDate: &payDate,
	}))

	require.NoError(t, db.First(unit, unit.ID).Error)
	assert.True(t, unit.TotalOccasional.Equal(decimal.NewFromInt(200)))
	assert.True(t, unit.TotalMyRevenue.Equal(decimal.NewFromInt(550)), unit.TotalMyRevenue.String())

	var revenue models.OwnerRevenue
	require.NoError(t, db.Where("owner_id = ?", owner.ID).First(&revenue).Error)
	assert.True(t, revenue.TotalOccasional.Equal(decimal.NewFromInt(200)))
	// The revenue row ignores occasional costs in the owner's share.
	assert.True(t, revenue.NetRevenue.Equal(decimal.NewFromInt(250)), revenue.NetRevenue.String())
}
