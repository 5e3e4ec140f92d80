package services

import (
	"fmt"
	"time"

	"rental-office-server/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ValidationError is a field-scoped rejection surfaced to the client as a 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Today returns the current date truncated to midnight UTC. All date-range
// checks in the engine compare at day granularity.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func sumDecimal(db *gorm.DB, model interface{}, column string, query string, args ...interface{}) (decimal.Decimal, error) {
	var out decimal.NullDecimal
	err := db.Model(model).Select("SUM(" + column + ")").Where(query, args...).Scan(&out).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !out.Valid {
		return decimal.Zero, nil
	}
	return out.Decimal, nil
}

// RefreshUnitStatus re-derives the unit's occupancy from the rent ledger:
// an active rent today forces occupied; no active rent reverts occupied to
// available. Maintenance is sticky and never touched. Only the status column
// is persisted.
func RefreshUnitStatus(db *gorm.DB, unit *models.Unit) error {
	if unit.Status == models.UnitInMaintenance {
		return nil
	}

	today := Today()
	var count int64
	err := db.Model(&models.Rent{}).
		Where("unit_id = ? AND rent_start <= ? AND rent_end >= ?", unit.ID, today, today).
		Count(&count).Error
	if err != nil {
		return err
	}
	active := count > 0

	var newStatus string
	switch {
	case active && unit.Status != models.UnitOccupied:
		newStatus = models.UnitOccupied
	case !active && unit.Status == models.UnitOccupied:
		newStatus = models.UnitAvailable
	}
	if newStatus == "" {
		return nil
	}

	if err := db.Model(&models.Unit{}).Where("id = ?", unit.ID).Update("status", newStatus).Error; err != nil {
		return err
	}
	unit.Status = newStatus
	return nil
}

// RefreshUnitFinancials recomputes the unit's cached totals wholesale from the
// ledger, so out-of-band edits are always absorbed by the next refresh.
// Invariant: total_my_revenue + total_owner_revenue + total_occasional ==
// total_rent.
func RefreshUnitFinancials(db *gorm.DB, unit *models.Unit) error {
	totalRent, err := sumDecimal(db, &models.Rent{}, "total_amount", "unit_id = ?", unit.ID)
	if err != nil {
		return err
	}
	totalOccasional, err := sumDecimal(db, &models.OccasionalPayment{}, "amount", "unit_id = ?", unit.ID)
	if err != nil {
		return err
	}

	ownerRevenue := totalRent.Mul(unit.OwnerPercentage.Shift(-2)).Round(2)
	myRevenue := totalRent.Sub(ownerRevenue).Sub(totalOccasional)

	err = db.Model(&models.Unit{}).Where("id = ?", unit.ID).Updates(map[string]interface{}{
		"total_rent":          totalRent,
		"total_occasional":    totalOccasional,
		"total_owner_revenue": ownerRevenue,
		"total_my_revenue":    myRevenue,
	}).Error
	if err != nil {
		return err
	}

	unit.TotalRent = totalRent
	unit.TotalOccasional = totalOccasional
	unit.TotalOwnerRevenue = ownerRevenue
	unit.TotalMyRevenue = myRevenue
	return nil
}

// RefreshOwnerRevenue recomputes the owner's revenue row (created lazily, one
// per owner). Net revenue is the per-unit rent share, deliberately NOT reduced
// by occasional payments; the reporting rollups use the deducting formula and
// the two figures are kept apart on purpose. still_not_paid floors at zero.
func RefreshOwnerRevenue(db *gorm.DB, ownerID uint) (*models.OwnerRevenue, error) {
	var revenue models.OwnerRevenue
	err := db.Where(models.OwnerRevenue{OwnerID: ownerID}).FirstOrCreate(&revenue).Error
	if err != nil {
		return nil, err
	}

	paidTotal, err := sumDecimal(db, &models.OwnerPayment{}, "amount", "owner_id = ?", ownerID)
	if err != nil {
		return nil, err
	}

	var units []models.Unit
	if err := db.Select("id", "owner_percentage").Where("owner_id = ?", ownerID).Find(&units).Error; err != nil {
		return nil, err
	}

	totalRent := decimal.Zero
	totalOccasional := decimal.Zero
	netRevenue := decimal.Zero
	for i := range units {
		unitRent, err := sumDecimal(db, &models.Rent{}, "total_amount", "unit_id = ?", units[i].ID)
		if err != nil {
			return nil, err
		}
		unitOccasional, err := sumDecimal(db, &models.OccasionalPayment{}, "amount", "unit_id = ?", units[i].ID)
		if err != nil {
			return nil, err
		}
		totalRent = totalRent.Add(unitRent)
		totalOccasional = totalOccasional.Add(unitOccasional)
		netRevenue = netRevenue.Add(unitRent.Mul(units[i].OwnerPercentage.Shift(-2)))
	}
	netRevenue = netRevenue.Round(2)

	stillNotPaid := netRevenue.Sub(paidTotal)
	if stillNotPaid.IsNegative() {
		stillNotPaid = decimal.Zero
	}

	revenue.TotalRent = totalRent
	revenue.PaidTotal = paidTotal
	revenue.StillNotPaid = stillNotPaid
	revenue.TotalOccasional = totalOccasional
	revenue.NetRevenue = netRevenue

	err = db.Model(&models.OwnerRevenue{}).Where("id = ?", revenue.ID).Updates(map[string]interface{}{
		"total_rent":       totalRent,
		"paid_total":       paidTotal,
		"still_not_paid":   stillNotPaid,
		"total_occasional": totalOccasional,
		"net_revenue":      netRevenue,
	}).Error
	if err != nil {
		return nil, err
	}
	return &revenue, nil
}

// RefreshTenantStatus derives the tenant lifecycle from its rent history:
// active when a rent covers today; completed when only past rents remain;
// inactive otherwise (no rents, only upcoming, or past+upcoming mixes).
func RefreshTenantStatus(db *gorm.DB, tenant *models.Tenant) error {
	today := Today()

	var activeCount int64
	err := db.Model(&models.Rent{}).
		Where("tenant_id = ? AND rent_start <= ? AND rent_end >= ?", tenant.ID, today, today).
		Count(&activeCount).Error
	if err != nil {
		return err
	}

	newStatus := models.TenantInactive
	if activeCount > 0 {
		newStatus = models.TenantActive
	} else {
		var pastCount, upcomingCount int64
		if err := db.Model(&models.Rent{}).Where("tenant_id = ? AND rent_end < ?", tenant.ID, today).Count(&pastCount).Error; err != nil {
			return err
		}
		if err := db.Model(&models.Rent{}).Where("tenant_id = ? AND rent_start > ?", tenant.ID, today).Count(&upcomingCount).Error; err != nil {
			return err
		}
		if pastCount > 0 && upcomingCount == 0 {
			newStatus = models.TenantCompleted
		}
	}

	if tenant.Status == newStatus {
		return nil
	}
	if err := db.Model(&models.Tenant{}).Where("id = ?", tenant.ID).Update("status", newStatus).Error; err != nil {
		return err
	}
	tenant.Status = newStatus
	return nil
}

// RecalcTenantRate recomputes the tenant's cached rating as the average review
// rate rounded to one decimal, falling back to 5.0 with no reviews.
func RecalcTenantRate(db *gorm.DB, tenantID uint) error {
	var avg decimal.NullDecimal
	err := db.Model(&models.Review{}).Select("AVG(rate)").Where("tenant_id = ?", tenantID).Scan(&avg).Error
	if err != nil {
		return err
	}

	newRate := decimal.NewFromFloat(5.0)
	if avg.Valid {
		newRate = avg.Decimal.Round(1)
	}
	return db.Model(&models.Tenant{}).Where("id = ?", tenantID).Update("rate", newRate).Error
}

// ComputeRentStatus derives the rent lifecycle from payment state and dates.
// Canceled is sticky and never overridden.
func ComputeRentStatus(rent *models.Rent, today time.Time) string {
	if rent.Status == models.RentCanceled {
		return models.RentCanceled
	}

	switch rent.PaymentStatus {
	case models.PaymentPaid:
		if today.After(rent.RentEnd) {
			return models.RentExpired
		}
		return models.RentActive
	case models.PaymentPending:
		return models.RentPending
	case models.PaymentOverdue:
		if rent.RentEnd.Before(today) {
			return models.RentExpired
		}
		return models.RentPending
	default:
		if rent.Status != "" {
			return rent.Status
		}
		return models.RentPending
	}
}

// ValidateRentWindow enforces date ordering and the double-booking invariants:
// rents on one unit must not overlap, and a tenant cannot hold two rents at
// once. Windows are inclusive on both ends. The rent's own row is excluded so
// updates do not collide with themselves.
func ValidateRentWindow(db *gorm.DB, rent *models.Rent) error {
	if rent.RentEnd.Before(rent.RentStart) {
		return &ValidationError{Field: "rentEnd", Message: "Rent end date cannot be earlier than rent start date."}
	}

	var unitOverlap int64
	err := db.Model(&models.Rent{}).
		Where("unit_id = ? AND id <> ? AND rent_start <= ? AND rent_end >= ?",
			rent.UnitID, rent.ID, rent.RentEnd, rent.RentStart).
		Count(&unitOverlap).Error
	if err != nil {
		return err
	}
	if unitOverlap > 0 {
		return &ValidationError{Field: "unit", Message: "This unit already has a rent overlapping the selected dates."}
	}

	var tenantOverlap int64
	err = db.Model(&models.Rent{}).
		Where("tenant_id = ? AND id <> ? AND rent_start <= ? AND rent_end >= ?",
			rent.TenantID, rent.ID, rent.RentEnd, rent.RentStart).
		Count(&tenantOverlap).Error
	if err != nil {
		return err
	}
	if tenantOverlap > 0 {
		return &ValidationError{Field: "tenant", Message: "This tenant already has a rent overlapping the selected dates."}
	}
	return nil
}

// SaveRent runs the fixed write pipeline for a rent row: derive the rent
// status, persist, then cascade unit status -> owner revenue -> unit
// financials, all inside one transaction so a partial cascade never persists.
func SaveRent(db *gorm.DB, rent *models.Rent) error {
	return db.Transaction(func(tx *gorm.DB) error {
		rent.Status = ComputeRentStatus(rent, Today())
		if err := tx.Save(rent).Error; err != nil {
			return err
		}

		var unit models.Unit
		if err := tx.First(&unit, rent.UnitID).Error; err != nil {
			return err
		}
		if err := RefreshUnitStatus(tx, &unit); err != nil {
			return err
		}
		if _, err := RefreshOwnerRevenue(tx, unit.OwnerID); err != nil {
			return err
		}
		return RefreshUnitFinancials(tx, &unit)
	})
}

// SaveOccasionalPayment persists a cost item and cascades to the unit's
// financial totals and the owning owner's revenue row.
func SaveOccasionalPayment(db *gorm.DB, payment *models.OccasionalPayment) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(payment).Error; err != nil {
			return err
		}

		var unit models.Unit
		if err := tx.First(&unit, payment.UnitID).Error; err != nil {
			return err
		}
		if err := RefreshUnitFinancials(tx, &unit); err != nil {
			return err
		}
		_, err := RefreshOwnerRevenue(tx, unit.OwnerID)
		return err
	})
}

// SaveOwnerPayment records a payout and recomputes the owner's revenue row.
func SaveOwnerPayment(db *gorm.DB, payment *models.OwnerPayment) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(payment).Error; err != nil {
			return err
		}
		_, err := RefreshOwnerRevenue(tx, payment.OwnerID)
		return err
	})
}
