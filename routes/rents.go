package routes

import (
	"fmt"
	"log"
	"time"

	"rental-office-server/models"
	"rental-office-server/services"
	"rental-office-server/storage"
	"rental-office-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

type RentInput struct {
	Unit          uint            `json:"unit" validate:"required"`
	Tenant        uint            `json:"tenant" validate:"required"`
	RentStart     string          `json:"rentStart" validate:"required"`
	RentEnd       string          `json:"rentEnd" validate:"required"`
	TotalAmount   decimal.Decimal `json:"totalAmount" validate:"required"`
	PaymentStatus string          `json:"paymentStatus" validate:"omitempty,oneof=paid pending overdue"`
	PaymentMethod string          `json:"paymentMethod" validate:"omitempty,oneof=cash bank_transfer credit_card online_payment"`
	PaymentDate   string          `json:"paymentDate"`
	Status        string          `json:"status" validate:"omitempty,oneof=active expired pending canceled"`
	Notes         string          `json:"notes"`
	Attachment    string          `json:"attachment"`
}

// rentDuration renders the rented window as "N months M days".
func rentDuration(start, end time.Time) string {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 0 {
		days = 0
	}
	months := days / 30
	days = days % 30
	switch {
	case months == 0:
		return fmt.Sprintf("%d days", days)
	case days == 0:
		return fmt.Sprintf("%d months", months)
	default:
		return fmt.Sprintf("%d months %d days", months, days)
	}
}

func rentPayload(rent models.Rent) iris.Map {
	payload := iris.Map{
		"id":            rent.ID,
		"unit":          rent.UnitID,
		"tenant":        rent.TenantID,
		"rentStart":     rent.RentStart.Format("2006-01-02"),
		"rentEnd":       rent.RentEnd.Format("2006-01-02"),
		"duration":      rentDuration(rent.RentStart, rent.RentEnd),
		"totalAmount":   rent.TotalAmount,
		"paymentStatus": rent.PaymentStatus,
		"paymentMethod": rent.PaymentMethod,
		"status":        rent.Status,
		"notes":         rent.Notes,
		"attachment":    rent.Attachment,
		"createdAt":     rent.CreatedAt,
	}
	if rent.PaymentDate != nil {
		payload["paymentDate"] = rent.PaymentDate.Format("2006-01-02")
	}
	if rent.Unit != nil {
		payload["unit_name"] = rent.Unit.Name
		payload["unit_type"] = rent.Unit.Type
	}
	if rent.Tenant != nil {
		payload["tenant_name"] = rent.Tenant.FullName
		payload["tenant_phone"] = rent.Tenant.Phone
	}
	return payload
}

// refreshRentOnRead recomputes the persisted status so listings self-heal
// when a rent ran out since the last write. Failures are logged, never
// surfaced.
func refreshRentOnRead(rent *models.Rent) {
	derived := services.ComputeRentStatus(rent, services.Today())
	if derived == rent.Status {
		return
	}
	rent.Status = derived
	err := storage.DB.Model(rent).Update("status", derived).Error
	if err != nil {
		log.Printf("rent %d: refresh status: %v", rent.ID, err)
	}
}

func GetRents(ctx iris.Context) {
	query := storage.DB.Preload("Unit").Preload("Tenant").Order("rent_start desc")
	if unit := ctx.URLParam("unit_id"); unit != "" {
		query = query.Where("unit_id = ?", unit)
	}
	if tenant := ctx.URLParam("tenant_id"); tenant != "" {
		query = query.Where("tenant_id = ?", tenant)
	}
	if paymentStatus := ctx.URLParam("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	var rents []models.Rent
	if err := query.Find(&rents).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	payload := make([]iris.Map, 0, len(rents))
	for i := range rents {
		refreshRentOnRead(&rents[i])
		payload = append(payload, rentPayload(rents[i]))
	}
	ctx.JSON(payload)
}

func GetRent(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var rent models.Rent
	err := storage.DB.Preload("Unit").Preload("Tenant").First(&rent, id).Error
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	refreshRentOnRead(&rent)
	ctx.JSON(rentPayload(rent))
}

func applyRentInput(ctx iris.Context, rent *models.Rent, input *RentInput) bool {
	rentStart, err := utils.ParseDate(input.RentStart)
	if err != nil {
		utils.CreateFieldError(ctx, "rentStart", "expected YYYY-MM-DD")
		return false
	}
	rentEnd, err := utils.ParseDate(input.RentEnd)
	if err != nil {
		utils.CreateFieldError(ctx, "rentEnd", "expected YYYY-MM-DD")
		return false
	}
	if input.TotalAmount.IsNegative() {
		utils.CreateFieldError(ctx, "totalAmount", "total amount cannot be negative")
		return false
	}

	var unit models.Unit
	if err := storage.DB.First(&unit, input.Unit).Error; err != nil {
		utils.CreateFieldError(ctx, "unit", "unit does not exist")
		return false
	}
	var tenant models.Tenant
	if err := storage.DB.First(&tenant, input.Tenant).Error; err != nil {
		utils.CreateFieldError(ctx, "tenant", "tenant does not exist")
		return false
	}

	rent.UnitID = input.Unit
	rent.TenantID = input.Tenant
	rent.RentStart = rentStart
	rent.RentEnd = rentEnd
	rent.TotalAmount = input.TotalAmount
	rent.Notes = input.Notes
	if input.PaymentStatus != "" {
		rent.PaymentStatus = input.PaymentStatus
	}
	if input.PaymentMethod != "" {
		rent.PaymentMethod = input.PaymentMethod
	}
	if input.Status != "" {
		rent.Status = input.Status
	}

	if input.PaymentDate != "" {
		paymentDate, err := utils.ParseDate(input.PaymentDate)
		if err != nil {
			utils.CreateFieldError(ctx, "paymentDate", "expected YYYY-MM-DD")
			return false
		}
		rent.PaymentDate = &paymentDate
	}
	// A rent marked paid without a payment date defaults to now, so the
	// month windows in the summaries have something to bucket it by.
	if rent.PaymentStatus == models.PaymentPaid && rent.PaymentDate == nil {
		now := time.Now().UTC()
		rent.PaymentDate = &now
	}

	if input.Attachment != "" {
		publicID := fmt.Sprintf("rents/%d-%d", input.Unit, time.Now().UnixNano())
		url, err := storage.UploadBase64File(input.Attachment, publicID)
		if err != nil {
			log.Printf("rent attachment upload: %v", err)
		} else {
			rent.Attachment = url
		}
	}
	return true
}

func CreateRent(ctx iris.Context) {
	var input RentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var rent models.Rent
	if !applyRentInput(ctx, &rent, &input) {
		return
	}

	if err := services.ValidateRentWindow(storage.DB, &rent); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := services.SaveRent(storage.DB, &rent); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Preload("Unit").Preload("Tenant").First(&rent, rent.ID)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(rentPayload(rent))
}

func UpdateRent(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var rent models.Rent
	if err := storage.DB.First(&rent, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input RentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	previousUnitID := rent.UnitID
	previousTenantID := rent.TenantID
	previousStart := rent.RentStart
	previousEnd := rent.RentEnd

	if !applyRentInput(ctx, &rent, &input) {
		return
	}

	windowChanged := rent.UnitID != previousUnitID ||
		rent.TenantID != previousTenantID ||
		!rent.RentStart.Equal(previousStart) ||
		!rent.RentEnd.Equal(previousEnd)
	if windowChanged {
		if err := services.ValidateRentWindow(storage.DB, &rent); err != nil {
			utils.HandleValidationErrors(err, ctx)
			return
		}
	}

	if err := services.SaveRent(storage.DB, &rent); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Moving a rent off a unit leaves stale totals behind on the old one.
	if rent.UnitID != previousUnitID {
		var previousUnit models.Unit
		if err := storage.DB.First(&previousUnit, previousUnitID).Error; err == nil {
			if err := services.RefreshUnitStatus(storage.DB, &previousUnit); err != nil {
				log.Printf("unit %d: refresh status: %v", previousUnit.ID, err)
			}
			if err := services.RefreshUnitFinancials(storage.DB, &previousUnit); err != nil {
				log.Printf("unit %d: refresh financials: %v", previousUnit.ID, err)
			}
			if _, err := services.RefreshOwnerRevenue(storage.DB, previousUnit.OwnerID); err != nil {
				log.Printf("owner %d: refresh revenue: %v", previousUnit.OwnerID, err)
			}
		}
	}

	storage.DB.Preload("Unit").Preload("Tenant").First(&rent, rent.ID)
	ctx.JSON(rentPayload(rent))
}

func DeleteRent(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var rent models.Rent
	if err := storage.DB.First(&rent, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&rent).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var unit models.Unit
	if err := storage.DB.First(&unit, rent.UnitID).Error; err == nil {
		if err := services.RefreshUnitStatus(storage.DB, &unit); err != nil {
			log.Printf("unit %d: refresh status: %v", unit.ID, err)
		}
		if err := services.RefreshUnitFinancials(storage.DB, &unit); err != nil {
			log.Printf("unit %d: refresh financials: %v", unit.ID, err)
		}
		if _, err := services.RefreshOwnerRevenue(storage.DB, unit.OwnerID); err != nil {
			log.Printf("owner %d: refresh revenue: %v", unit.OwnerID, err)
		}
	}
	ctx.StatusCode(iris.StatusNoContent)
}
