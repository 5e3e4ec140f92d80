package routes

import (
	"testing"

	"rental-office-server/models"
	"rental-office-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newPayloadTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Owner{}, &models.City{}, &models.District{},
		&models.Unit{}, &models.UnitImage{}, &models.Tenant{}, &models.Rent{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	storage.DB = db
	return db
}

// Rents survive the deletion of their tenant; the list payloads must not
// blow up on the dangling association.
func TestUnitPayloadsSurviveDeletedTenant(t *testing.T) {
	db := newPayloadTestDB(t)

	owner := models.Owner{FullName: "Sami Haddad", Phone: "0590000001", Rate: decimal.NewFromInt(5)}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	city := models.City{Name: "Ramallah"}
	if err := db.Create(&city).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}
	district := models.District{Name: "Al-Masyoun", CityID: city.ID}
	if err := db.Create(&district).Error; err != nil {
		t.Fatalf("seed district: %v", err)
	}

	unit := models.Unit{
		Name: "Masyoun Tower A3", OwnerID: owner.ID, CityID: city.ID,
		DistrictID: district.ID, LocationURL: "https://goo.gl/maps/abc123",
		Type: "apartment", Bedrooms: 2, Bathrooms: 1, Area: 120,
		Status: models.UnitOccupied, OwnerPercentage: decimal.NewFromInt(30),
	}
	if err := db.Create(&unit).Error; err != nil {
		t.Fatalf("seed unit: %v", err)
	}

	tenant := models.Tenant{FullName: "Nour Aburas", Phone: "0590000002", Rate: decimal.NewFromInt(5)}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("seed tenant: %v", err)
	}

	rent := models.Rent{
		UnitID: unit.ID, TenantID: tenant.ID,
		RentStart: unit.CreatedAt.AddDate(0, 0, -1), RentEnd: unit.CreatedAt.AddDate(0, 1, 0),
		TotalAmount: decimal.NewFromInt(1000), Status: models.RentActive,
	}
	if err := db.Create(&rent).Error; err != nil {
		t.Fatalf("seed rent: %v", err)
	}

	if err := db.Delete(&tenant).Error; err != nil {
		t.Fatalf("delete tenant: %v", err)
	}

	listPayload := unitListPayload(unit)
	if _, ok := listPayload["current_tenant_name"]; ok {
		t.Fatalf("expected no current_tenant_name after tenant deletion, got %v", listPayload["current_tenant_name"])
	}

	ownerUnit := ownerUnitPayload(unit)
	currentRent, ok := ownerUnit["current_rent"].(iris.Map)
	if !ok {
		t.Fatalf("expected current_rent in owner unit payload, got %T", ownerUnit["current_rent"])
	}
	if _, ok := currentRent["tenant_name"]; ok {
		t.Fatalf("expected no tenant_name after tenant deletion, got %v", currentRent["tenant_name"])
	}
}
