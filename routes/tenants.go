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

type TenantInput struct {
	FullName string  `json:"fullName" validate:"required,max=100"`
	Phone    string  `json:"phone" validate:"required,max=20"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Address  string  `json:"address"`
}

// rentDisplayStatus is the snapshot state shown on tenant cards. It differs
// from the persisted rent status: a paid rent that ran out shows "completed",
// an unpaid one "overdue".
func rentDisplayStatus(rent *models.Rent) string {
	today := services.Today()
	switch {
	case rent.PaymentStatus == models.PaymentPaid && rent.RentEnd.Before(today):
		return "completed"
	case !rent.RentStart.After(today) && !rent.RentEnd.Before(today):
		return "active"
	case rent.RentEnd.Before(today):
		return "overdue"
	default:
		return "pending"
	}
}

func tenantPayload(tenant models.Tenant) iris.Map {
	payload := iris.Map{
		"id":        tenant.ID,
		"fullName":  tenant.FullName,
		"phone":     tenant.Phone,
		"email":     tenant.Email,
		"address":   tenant.Address,
		"rate":      tenant.Rate,
		"status":    tenant.Status,
		"createdAt": tenant.CreatedAt,
	}

	var rent models.Rent
	err := storage.DB.Preload("Unit").
		Where("tenant_id = ?", tenant.ID).
		Order("rent_end desc").First(&rent).Error
	if err == nil {
		rentInfo := iris.Map{
			"id":            rent.ID,
			"rentStart":     rent.RentStart.Format("2006-01-02"),
			"rentEnd":       rent.RentEnd.Format("2006-01-02"),
			"totalAmount":   rent.TotalAmount,
			"paymentStatus": rent.PaymentStatus,
			"status":        rentDisplayStatus(&rent),
		}
		if rent.Unit != nil {
			rentInfo["unit_name"] = rent.Unit.Name
		}
		payload["rent_info"] = rentInfo
	}
	return payload
}

// tenantMatchesStatus reports whether any of the tenant's rents currently
// shows the given display status.
func tenantMatchesStatus(tenantID uint, status string) bool {
	var rents []models.Rent
	if err := storage.DB.Where("tenant_id = ?", tenantID).Find(&rents).Error; err != nil {
		return false
	}
	for i := range rents {
		if rentDisplayStatus(&rents[i]) == status {
			return true
		}
	}
	return false
}

func GetTenants(ctx iris.Context) {
	query := storage.DB.Order("full_name asc")
	if name := ctx.URLParam("full_name"); name != "" {
		query = query.Where("full_name ILIKE ?", "%"+name+"%")
	}
	if email := ctx.URLParam("email"); email != "" {
		query = query.Where("email ILIKE ?", "%"+email+"%")
	}
	if phone := ctx.URLParam("phone"); phone != "" {
		query = query.Where("phone ILIKE ?", "%"+phone+"%")
	}
	if address := ctx.URLParam("address"); address != "" {
		query = query.Where("address ILIKE ?", "%"+address+"%")
	}
	if search := ctx.URLParam("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"full_name ILIKE ? OR phone ILIKE ? OR id IN (SELECT rents.tenant_id FROM rents JOIN units ON units.id = rents.unit_id WHERE units.name ILIKE ? AND rents.deleted_at IS NULL)",
			pattern, pattern, pattern,
		)
	}

	var tenants []models.Tenant
	if err := query.Find(&tenants).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	statusFilter := ctx.URLParam("status")
	payload := make([]iris.Map, 0, len(tenants))
	for i := range tenants {
		if err := services.RefreshTenantStatus(storage.DB, &tenants[i]); err != nil {
			log.Printf("tenant %d: refresh status: %v", tenants[i].ID, err)
		}
		if statusFilter != "" && !tenantMatchesStatus(tenants[i].ID, statusFilter) {
			continue
		}
		payload = append(payload, tenantPayload(tenants[i]))
	}
	ctx.JSON(payload)
}

func GetTenant(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var tenant models.Tenant
	if err := storage.DB.Preload("Reviews").First(&tenant, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := services.RefreshTenantStatus(storage.DB, &tenant); err != nil {
		log.Printf("tenant %d: refresh status: %v", tenant.ID, err)
	}

	payload := tenantPayload(tenant)

	reviews := make([]iris.Map, 0, len(tenant.Reviews))
	for _, review := range tenant.Reviews {
		reviews = append(reviews, iris.Map{
			"id":        review.ID,
			"comment":   review.Comment,
			"rate":      review.Rate,
			"createdAt": review.CreatedAt,
		})
	}
	payload["reviews"] = reviews

	var rents []models.Rent
	if err := storage.DB.Preload("Unit").
		Where("tenant_id = ?", tenant.ID).
		Order("rent_start desc").Find(&rents).Error; err == nil {
		history := make([]iris.Map, 0, len(rents))
		for i := range rents {
			entry := iris.Map{
				"id":            rents[i].ID,
				"rentStart":     rents[i].RentStart.Format("2006-01-02"),
				"rentEnd":       rents[i].RentEnd.Format("2006-01-02"),
				"totalAmount":   rents[i].TotalAmount,
				"paymentStatus": rents[i].PaymentStatus,
				"status":        rentDisplayStatus(&rents[i]),
			}
			if rents[i].Unit != nil {
				entry["unit_name"] = rents[i].Unit.Name
			}
			history = append(history, entry)
		}
		payload["rents"] = history
	}

	ctx.JSON(payload)
}

func CreateTenant(ctx iris.Context) {
	var input TenantInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	tenant := models.Tenant{
		FullName: input.FullName,
		Phone:    input.Phone,
		Email:    input.Email,
		Address:  input.Address,
		Rate:     decimal.NewFromInt(5),
		Status:   models.TenantInactive,
	}
	if err := storage.DB.Create(&tenant).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(tenantPayload(tenant))
}

func UpdateTenant(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var tenant models.Tenant
	if err := storage.DB.First(&tenant, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input TenantInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	tenant.FullName = input.FullName
	tenant.Phone = input.Phone
	tenant.Email = input.Email
	tenant.Address = input.Address

	if err := storage.DB.Save(&tenant).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(tenantPayload(tenant))
}

func DeleteTenant(ctx iris.Context) {
	id := ctx.Params().Get("id")

	if err := storage.DB.Delete(&models.Tenant{}, id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}
