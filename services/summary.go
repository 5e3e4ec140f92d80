package services

import (
	"time"

	"rental-office-server/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reporting rollups. These are pure read-side queries over the ledger: they
// never touch the cached totals the derivation engine maintains, and they
// recompute from scratch on every call. All money is kept at full precision
// through the intermediate sums and rounded to 2 decimals only at the edge;
// percentages are reported as 4-decimal fractions (30% -> 0.3000).

// startOfMonth returns the first instant of the current calendar month. Rent
// filters compare payment_date against this timestamp.
func startOfMonth() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// startOfMonthDate returns the first day of the current month as a date.
// Occasional-payment filters use the date form; same day as startOfMonth,
// kept as a separate helper because the two ledgers store different granularity.
func startOfMonthDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// StartOfMonth exposes the rent-side month boundary for callers outside the
// summary code, e.g. payload builders that show month-to-date figures.
func StartOfMonth() time.Time {
	return startOfMonth()
}

// SumPaidRent totals paid rent for a unit, optionally restricted to payments
// made at or after since.
func SumPaidRent(db *gorm.DB, unitID uint, since *time.Time) (decimal.Decimal, error) {
	query := "unit_id = ? AND payment_status = ?"
	args := []interface{}{unitID, models.PaymentPaid}
	if since != nil {
		query += " AND payment_date >= ?"
		args = append(args, *since)
	}
	return sumDecimal(db, &models.Rent{}, "total_amount", query, args...)
}

// Fraction is a percentage expressed as a fraction that always serializes
// with four decimal places (30% -> 0.3000).
type Fraction struct {
	decimal.Decimal
}

func (f Fraction) MarshalJSON() ([]byte, error) {
	return []byte(f.StringFixed(4)), nil
}

// OwnerUnitBreakdown is one per-unit row inside an owner summary.
type OwnerUnitBreakdown struct {
	UnitID          uint     `json:"unit_id"`
	UnitName        string   `json:"unit_name"`
	OwnerPercentage Fraction `json:"owner_percentage"`

	Total          decimal.Decimal `json:"total"`
	TotalThisMonth decimal.Decimal `json:"total_this_month"`

	TotalOccasional          decimal.Decimal `json:"total_occasional"`
	TotalOccasionalThisMonth decimal.Decimal `json:"total_occasional_this_month"`

	TotalAfterOccasional          decimal.Decimal `json:"total_after_occasional"`
	TotalAfterOccasionalThisMonth decimal.Decimal `json:"total_after_occasional_this_month"`

	OwnerTotal          decimal.Decimal `json:"owner_total"`
	OwnerTotalThisMonth decimal.Decimal `json:"owner_total_this_month"`
}

// OwnerSummary aggregates an owner's units, rent income, occasional
// deductions, share and payout state, month-to-date and all-time.
type OwnerSummary struct {
	OwnerID   uint   `json:"owner_id"`
	OwnerName string `json:"owner_name"`

	TotalThisMonth decimal.Decimal `json:"total_this_month"`
	Total          decimal.Decimal `json:"total"`

	TotalOccasionalThisMonth decimal.Decimal `json:"total_occasional_this_month"`
	TotalOccasional          decimal.Decimal `json:"total_occasional"`

	TotalAfterOccasionalThisMonth decimal.Decimal `json:"total_after_occasional_this_month"`
	TotalAfterOccasional          decimal.Decimal `json:"total_after_occasional"`

	OwnerTotalThisMonth decimal.Decimal `json:"owner_total_this_month"`
	OwnerTotal          decimal.Decimal `json:"owner_total"`

	PaidToOwnerTotal decimal.Decimal `json:"paid_to_owner_total"`
	// May go negative when the owner has been overpaid.
	StillNeedToPay decimal.Decimal `json:"still_need_to_pay"`

	Units           []OwnerUnitBreakdown  `json:"units"`
	PaymentsHistory []models.OwnerPayment `json:"payments_history"`
}

// UnitSummary reports one unit's income, deductions and the owner/company
// split.
type UnitSummary struct {
	UnitID          uint     `json:"unit_id"`
	UnitName        string   `json:"unit_name"`
	OwnerID         uint     `json:"owner_id"`
	OwnerName       string   `json:"owner_name"`
	OwnerPercentage Fraction `json:"owner_percentage"`

	TotalThisMonth decimal.Decimal `json:"total_this_month"`
	Total          decimal.Decimal `json:"total"`

	TotalOccasionalThisMonth decimal.Decimal `json:"total_occasional_this_month"`
	TotalOccasional          decimal.Decimal `json:"total_occasional"`

	TotalAfterOccasionalThisMonth decimal.Decimal `json:"total_after_occasional_this_month"`
	TotalAfterOccasional          decimal.Decimal `json:"total_after_occasional"`

	CompanyTotalThisMonth decimal.Decimal `json:"company_total_this_month"`
	CompanyTotal          decimal.Decimal `json:"company_total"`
}

// CompanySummary is the company-wide rollup, optionally scoped to one unit.
type CompanySummary struct {
	TotalThisMonth decimal.Decimal `json:"total_this_month"`
	Total          decimal.Decimal `json:"total"`

	TotalOccasionalThisMonth decimal.Decimal `json:"total_occasional_this_month"`
	TotalOccasional          decimal.Decimal `json:"total_occasional"`

	TotalAfterOccasionalThisMonth decimal.Decimal `json:"total_after_occasional_this_month"`
	TotalAfterOccasional          decimal.Decimal `json:"total_after_occasional"`

	OwnerTotalThisMonth decimal.Decimal `json:"owner_total_this_month"`
	OwnerTotal          decimal.Decimal `json:"owner_total"`

	CompanyTotalThisMonth decimal.Decimal `json:"company_total_this_month"`
	CompanyTotal          decimal.Decimal `json:"company_total"`

	UnitID *uint `json:"unit_id,omitempty"`
}

// OccasionalQuickSummary is the small rollup embedded in unit payloads:
// all-time occasional total, previous-calendar-month total and the matching
// rows.
type OccasionalQuickSummary struct {
	TotalOccasionalPayment          decimal.Decimal            `json:"total_occasional_payment"`
	TotalOccasionalPaymentLastMonth decimal.Decimal            `json:"total_occasional_payment_last_month"`
	LastMonthPayments               []models.OccasionalPayment `json:"last_month_payments"`
}

type unitAmount struct {
	UnitID uint
	S      decimal.NullDecimal
}

func sumByUnit(db *gorm.DB, model interface{}, column string, unitIDs []uint, query string, args ...interface{}) (map[uint]decimal.Decimal, error) {
	rows := []unitAmount{}
	q := db.Model(model).Select("unit_id, SUM("+column+") AS s").Where("unit_id IN ?", unitIDs)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Group("unit_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]decimal.Decimal, len(rows))
	for _, r := range rows {
		if r.S.Valid {
			out[r.UnitID] = r.S.Decimal
		} else {
			out[r.UnitID] = decimal.Zero
		}
	}
	return out, nil
}

// UnitOccasionalSummary builds the quick occasional-payment rollup for a unit.
func UnitOccasionalSummary(db *gorm.DB, unitID uint) (*OccasionalQuickSummary, error) {
	totalAll, err := sumDecimal(db, &models.OccasionalPayment{}, "amount", "unit_id = ?", unitID)
	if err != nil {
		return nil, err
	}

	// Previous calendar month window
	firstThisMonth := startOfMonthDate()
	lastPrevMonth := firstThisMonth.AddDate(0, 0, -1)
	firstPrevMonth := time.Date(lastPrevMonth.Year(), lastPrevMonth.Month(), 1, 0, 0, 0, 0, time.UTC)

	var lastMonth []models.OccasionalPayment
	err = db.Where("unit_id = ? AND payment_date >= ? AND payment_date <= ?", unitID, firstPrevMonth, lastPrevMonth).
		Order("id").Find(&lastMonth).Error
	if err != nil {
		return nil, err
	}

	totalLast := decimal.Zero
	for i := range lastMonth {
		totalLast = totalLast.Add(lastMonth[i].Amount)
	}

	return &OccasionalQuickSummary{
		TotalOccasionalPayment:          totalAll.Round(2),
		TotalOccasionalPaymentLastMonth: totalLast.Round(2),
		LastMonthPayments:               lastMonth,
	}, nil
}

// CalculateOwnerPaymentSummary builds the per-owner rollup. The owner share is
// computed per unit (occasional cost deducted before the unit's percentage)
// and then summed; percentages differ per unit so a single scope-wide
// percentage would be wrong.
func CalculateOwnerPaymentSummary(db *gorm.DB, ownerID uint) (*OwnerSummary, error) {
	var owner models.Owner
	if err := db.First(&owner, ownerID).Error; err != nil {
		return nil, err
	}

	startTS := startOfMonth()
	startD := startOfMonthDate()

	var units []models.Unit
	if err := db.Select("id", "name", "owner_percentage").Where("owner_id = ?", ownerID).Find(&units).Error; err != nil {
		return nil, err
	}
	unitIDs := make([]uint, len(units))
	for i := range units {
		unitIDs[i] = units[i].ID
	}

	summary := &OwnerSummary{
		OwnerID:   owner.ID,
		OwnerName: owner.FullName,
		Units:     []OwnerUnitBreakdown{},
	}

	if len(unitIDs) > 0 {
		totalAll, err := sumDecimal(db, &models.Rent{}, "total_amount", "unit_id IN ?", unitIDs)
		if err != nil {
			return nil, err
		}
		totalMonth, err := sumDecimal(db, &models.Rent{}, "total_amount", "unit_id IN ? AND payment_date >= ?", unitIDs, startTS)
		if err != nil {
			return nil, err
		}
		occAll, err := sumDecimal(db, &models.OccasionalPayment{}, "amount", "unit_id IN ?", unitIDs)
		if err != nil {
			return nil, err
		}
		occMonth, err := sumDecimal(db, &models.OccasionalPayment{}, "amount", "unit_id IN ? AND payment_date >= ?", unitIDs, startD)
		if err != nil {
			return nil, err
		}

		rentsByUnitAll, err := sumByUnit(db, &models.Rent{}, "total_amount", unitIDs, "")
		if err != nil {
			return nil, err
		}
		rentsByUnitMonth, err := sumByUnit(db, &models.Rent{}, "total_amount", unitIDs, "payment_date >= ?", startTS)
		if err != nil {
			return nil, err
		}
		occByUnitAll, err := sumByUnit(db, &models.OccasionalPayment{}, "amount", unitIDs, "")
		if err != nil {
			return nil, err
		}
		occByUnitMonth, err := sumByUnit(db, &models.OccasionalPayment{}, "amount", unitIDs, "payment_date >= ?", startD)
		if err != nil {
			return nil, err
		}

		ownerTotalAll := decimal.Zero
		ownerTotalMonth := decimal.Zero
		for i := range units {
			u := &units[i]
			beforeAll := rentsByUnitAll[u.ID]
			beforeMonth := rentsByUnitMonth[u.ID]
			unitOccAll := occByUnitAll[u.ID]
			unitOccMonth := occByUnitMonth[u.ID]
			afterAll := beforeAll.Sub(unitOccAll)
			afterMonth := beforeMonth.Sub(unitOccMonth)
			frac := u.OwnerPercentage.Shift(-2)
			oAll := afterAll.Mul(frac).Round(2)
			oMonth := afterMonth.Mul(frac).Round(2)

			summary.Units = append(summary.Units, OwnerUnitBreakdown{
				UnitID:                        u.ID,
				UnitName:                      u.Name,
				OwnerPercentage:               Fraction{frac.Round(4)},
				Total:                         beforeAll.Round(2),
				TotalThisMonth:                beforeMonth.Round(2),
				TotalOccasional:               unitOccAll.Round(2),
				TotalOccasionalThisMonth:      unitOccMonth.Round(2),
				TotalAfterOccasional:          afterAll.Round(2),
				TotalAfterOccasionalThisMonth: afterMonth.Round(2),
				OwnerTotal:                    oAll,
				OwnerTotalThisMonth:           oMonth,
			})
			ownerTotalAll = ownerTotalAll.Add(oAll)
			ownerTotalMonth = ownerTotalMonth.Add(oMonth)
		}

		summary.Total = totalAll.Round(2)
		summary.TotalThisMonth = totalMonth.Round(2)
		summary.TotalOccasional = occAll.Round(2)
		summary.TotalOccasionalThisMonth = occMonth.Round(2)
		summary.TotalAfterOccasional = totalAll.Sub(occAll).Round(2)
		summary.TotalAfterOccasionalThisMonth = totalMonth.Sub(occMonth).Round(2)
		summary.OwnerTotal = ownerTotalAll
		summary.OwnerTotalThisMonth = ownerTotalMonth
	}

	paidTotal, err := sumDecimal(db, &models.OwnerPayment{}, "amount", "owner_id = ?", ownerID)
	if err != nil {
		return nil, err
	}
	summary.PaidToOwnerTotal = paidTotal.Round(2)
	summary.StillNeedToPay = summary.OwnerTotal.Sub(paidTotal).Round(2)

	var history []models.OwnerPayment
	if err := db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&history).Error; err != nil {
		return nil, err
	}
	summary.PaymentsHistory = history

	return summary, nil
}

// CalculateUnitPaymentSummary builds the per-unit rollup with the
// owner/company split.
func CalculateUnitPaymentSummary(db *gorm.DB, unitID uint) (*UnitSummary, error) {
	var unit models.Unit
	if err := db.Preload("Owner").First(&unit, unitID).Error; err != nil {
		return nil, err
	}

	startTS := startOfMonth()
	startD := startOfMonthDate()

	totalAll, err := sumDecimal(db, &models.Rent{}, "total_amount", "unit_id = ?", unitID)
	if err != nil {
		return nil, err
	}
	totalMonth, err := sumDecimal(db, &models.Rent{}, "total_amount", "unit_id = ? AND payment_date >= ?", unitID, startTS)
	if err != nil {
		return nil, err
	}
	occAll, err := sumDecimal(db, &models.OccasionalPayment{}, "amount", "unit_id = ?", unitID)
	if err != nil {
		return nil, err
	}
	occMonth, err := sumDecimal(db, &models.OccasionalPayment{}, "amount", "unit_id = ? AND payment_date >= ?", unitID, startD)
	if err != nil {
		return nil, err
	}

	afterAll := totalAll.Sub(occAll)
	afterMonth := totalMonth.Sub(occMonth)
	frac := unit.OwnerPercentage.Shift(-2)
	ownerAll := afterAll.Mul(frac).Round(2)
	ownerMonth := afterMonth.Mul(frac).Round(2)

	ownerName := ""
	if unit.Owner != nil {
		ownerName = unit.Owner.FullName
	}

	return &UnitSummary{
		UnitID:                        unit.ID,
		UnitName:                      unit.Name,
		OwnerID:                       unit.OwnerID,
		OwnerName:                     ownerName,
		OwnerPercentage:               Fraction{frac.Round(4)},
		Total:                         totalAll.Round(2),
		TotalThisMonth:                totalMonth.Round(2),
		TotalOccasional:               occAll.Round(2),
		TotalOccasionalThisMonth:      occMonth.Round(2),
		TotalAfterOccasional:          afterAll.Round(2),
		TotalAfterOccasionalThisMonth: afterMonth.Round(2),
		CompanyTotal:                  afterAll.Round(2).Sub(ownerAll),
		CompanyTotalThisMonth:         afterMonth.Round(2).Sub(ownerMonth),
	}, nil
}

// CalculateCompanyPaymentSummary builds the company-wide rollup; pass a unit
// ID to scope it to a single unit.
func CalculateCompanyPaymentSummary(db *gorm.DB, unitID *uint) (*CompanySummary, error) {
	startTS := startOfMonth()
	startD := startOfMonthDate()

	unitsQ := db.Model(&models.Unit{}).Select("id", "owner_percentage")
	if unitID != nil {
		unitsQ = unitsQ.Where("id = ?", *unitID)
	}
	var units []models.Unit
	if err := unitsQ.Find(&units).Error; err != nil {
		return nil, err
	}

	summary := &CompanySummary{UnitID: unitID}
	if len(units) == 0 {
		return summary, nil
	}

	unitIDs := make([]uint, len(units))
	percByUnit := make(map[uint]decimal.Decimal, len(units))
	for i := range units {
		unitIDs[i] = units[i].ID
		percByUnit[units[i].ID] = units[i].OwnerPercentage
	}

	totalAll, err := sumDecimal(db, &models.Rent{}, "total_amount", "unit_id IN ?", unitIDs)
	if err != nil {
		return nil, err
	}
	totalMonth, err := sumDecimal(db, &models.Rent{}, "total_amount", "unit_id IN ? AND payment_date >= ?", unitIDs, startTS)
	if err != nil {
		return nil, err
	}
	occAll, err := sumDecimal(db, &models.OccasionalPayment{}, "amount", "unit_id IN ?", unitIDs)
	if err != nil {
		return nil, err
	}
	occMonth, err := sumDecimal(db, &models.OccasionalPayment{}, "amount", "unit_id IN ? AND payment_date >= ?", unitIDs, startD)
	if err != nil {
		return nil, err
	}

	rentsByUnitAll, err := sumByUnit(db, &models.Rent{}, "total_amount", unitIDs, "")
	if err != nil {
		return nil, err
	}
	rentsByUnitMonth, err := sumByUnit(db, &models.Rent{}, "total_amount", unitIDs, "payment_date >= ?", startTS)
	if err != nil {
		return nil, err
	}
	occByUnitAll, err := sumByUnit(db, &models.OccasionalPayment{}, "amount", unitIDs, "")
	if err != nil {
		return nil, err
	}
	occByUnitMonth, err := sumByUnit(db, &models.OccasionalPayment{}, "amount", unitIDs, "payment_date >= ?", startD)
	if err != nil {
		return nil, err
	}

	ownerTotalAll := decimal.Zero
	for uid, beforeAll := range rentsByUnitAll {
		afterAll := beforeAll.Sub(occByUnitAll[uid])
		ownerTotalAll = ownerTotalAll.Add(afterAll.Mul(percByUnit[uid].Shift(-2)))
	}
	ownerTotalMonth := decimal.Zero
	for uid, beforeMonth := range rentsByUnitMonth {
		afterMonth := beforeMonth.Sub(occByUnitMonth[uid])
		ownerTotalMonth = ownerTotalMonth.Add(afterMonth.Mul(percByUnit[uid].Shift(-2)))
	}
	ownerTotalAll = ownerTotalAll.Round(2)
	ownerTotalMonth = ownerTotalMonth.Round(2)

	afterAll := totalAll.Sub(occAll)
	afterMonth := totalMonth.Sub(occMonth)

	summary.Total = totalAll.Round(2)
	summary.TotalThisMonth = totalMonth.Round(2)
	summary.TotalOccasional = occAll.Round(2)
	summary.TotalOccasionalThisMonth = occMonth.Round(2)
	summary.TotalAfterOccasional = afterAll.Round(2)
	summary.TotalAfterOccasionalThisMonth = afterMonth.Round(2)
	summary.OwnerTotal = ownerTotalAll
	summary.OwnerTotalThisMonth = ownerTotalMonth
	summary.CompanyTotal = afterAll.Round(2).Sub(ownerTotalAll)
	summary.CompanyTotalThisMonth = afterMonth.Round(2).Sub(ownerTotalMonth)

	return summary, nil
}
