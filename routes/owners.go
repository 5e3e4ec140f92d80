package routes

import (
	"log"

	"rental-office-server/models"
	"rental-office-server/services"
	"rental-office-server/storage"
	"rental-office-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

type OwnerInput struct {
	FullName string          `json:"fullName" validate:"required,max=100"`
	Phone    string          `json:"phone" validate:"required,max=20"`
	Email    *string         `json:"email" validate:"omitempty,email"`
	Address  string          `json:"address"`
	Rate     decimal.Decimal `json:"rate"`
}

func validateOwnerRate(ctx iris.Context, rate decimal.Decimal) bool {
	if rate.IsZero() {
		return true
	}
	if rate.LessThan(decimal.NewFromInt(1)) || rate.GreaterThan(decimal.NewFromInt(5)) {
		utils.CreateFieldError(ctx, "rate", "rate must be between 1.0 and 5.0")
		return false
	}
	return true
}

func ownerUnitPayload(unit models.Unit) iris.Map {
	payload := iris.Map{
		"id":          unit.ID,
		"name":        unit.Name,
		"status":      unit.Status,
		"type":        unit.Type,
		"pricePerDay": unit.PricePerDay,
		"totalRent":   unit.TotalRent,
	}

	if len(unit.Images) > 0 {
		payload["cover"] = unit.Images[0].URL
	}

	var rent models.Rent
	err := storage.DB.Preload("Tenant").
		Where("unit_id = ?", unit.ID).
		Order("rent_end desc").First(&rent).Error
	if err == nil {
		currentRent := iris.Map{
			"id":            rent.ID,
			"rentStart":     rent.RentStart.Format("2006-01-02"),
			"rentEnd":       rent.RentEnd.Format("2006-01-02"),
			"totalAmount":   rent.TotalAmount,
			"status":        rent.Status,
			"paymentStatus": rent.PaymentStatus,
		}
		// The tenant may have been deleted since the rent was written.
		if rent.Tenant != nil {
			currentRent["tenant_name"] = rent.Tenant.FullName
			currentRent["tenant_phone"] = rent.Tenant.Phone
		}
		payload["current_rent"] = currentRent
	}
	return payload
}

func ownerPayload(owner models.Owner) iris.Map {
	totalRevenue := decimal.Zero
	monthlyRevenue := decimal.Zero
	monthStart := services.StartOfMonth()

	units := make([]iris.Map, 0, len(owner.Units))
	for _, unit := range owner.Units {
		frac := unit.OwnerPercentage.Shift(-2)
		totalRevenue = totalRevenue.Add(unit.TotalRent.Mul(frac))

		monthRent, err := services.SumPaidRent(storage.DB, unit.ID, &monthStart)
		if err != nil {
			log.Printf("owner %d: month revenue for unit %d: %v", owner.ID, unit.ID, err)
		} else {
			monthlyRevenue = monthlyRevenue.Add(monthRent.Mul(frac))
		}

		units = append(units, ownerUnitPayload(unit))
	}

	return iris.Map{
		"id":              owner.ID,
		"fullName":        owner.FullName,
		"phone":           owner.Phone,
		"email":           owner.Email,
		"address":         owner.Address,
		"rate":            owner.Rate,
		"units_count":     len(owner.Units),
		"total_revenue":   totalRevenue.Round(2),
		"monthly_revenue": monthlyRevenue.Round(2),
		"units":           units,
		"createdAt":       owner.CreatedAt,
	}
}

func GetOwners(ctx iris.Context) {
	query := storage.DB.Preload("Units").Preload("Units.Images").Order("full_name asc")
	if search := ctx.URLParam("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR phone ILIKE ?", pattern, pattern)
	}

	var owners []models.Owner
	if err := query.Find(&owners).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	payload := make([]iris.Map, 0, len(owners))
	for _, owner := range owners {
		payload = append(payload, ownerPayload(owner))
	}
	ctx.JSON(payload)
}

func GetOwner(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var owner models.Owner
	err := storage.DB.Preload("Units").Preload("Units.Images").First(&owner, id).Error
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	payload := ownerPayload(owner)

	// Revenue figures heal on read so the dashboard never shows stale money.
	revenue, err := services.RefreshOwnerRevenue(storage.DB, owner.ID)
	if err != nil {
		log.Printf("owner %d: refresh revenue: %v", owner.ID, err)
	} else {
		payload["revenue"] = iris.Map{
			"totalRent":       revenue.TotalRent,
			"paidTotal":       revenue.PaidTotal,
			"stillNotPaid":    revenue.StillNotPaid,
			"totalOccasional": revenue.TotalOccasional,
			"netRevenue":      revenue.NetRevenue,
		}
	}

	ctx.JSON(payload)
}

func CreateOwner(ctx iris.Context) {
	var input OwnerInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !validateOwnerRate(ctx, input.Rate) {
		return
	}

	owner := models.Owner{
		FullName: input.FullName,
		Phone:    input.Phone,
		Email:    input.Email,
		Address:  input.Address,
	}
	if !input.Rate.IsZero() {
		owner.Rate = input.Rate
	}

	if err := storage.DB.Create(&owner).Error; err != nil {
		utils.CreateFieldError(ctx, "phone", "an owner with this phone or email already exists")
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(ownerPayload(owner))
}

func UpdateOwner(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var owner models.Owner
	if err := storage.DB.First(&owner, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input OwnerInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !validateOwnerRate(ctx, input.Rate) {
		return
	}

	owner.FullName = input.FullName
	owner.Phone = input.Phone
	owner.Email = input.Email
	owner.Address = input.Address
	if !input.Rate.IsZero() {
		owner.Rate = input.Rate
	}

	if err := storage.DB.Save(&owner).Error; err != nil {
		utils.CreateFieldError(ctx, "phone", "an owner with this phone or email already exists")
		return
	}

	storage.DB.Preload("Units").Preload("Units.Images").First(&owner, owner.ID)
	ctx.JSON(ownerPayload(owner))
}

func DeleteOwner(ctx iris.Context) {
	id := ctx.Params().Get("id")

	if err := storage.DB.Delete(&models.Owner{}, id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}
