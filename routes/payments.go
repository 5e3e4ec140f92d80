package routes

import (
	"strconv"

	"rental-office-server/models"
	"rental-office-server/services"
	"rental-office-server/storage"
	"rental-office-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

type OccasionalPaymentInput struct {
	Category      string          `json:"category" validate:"required,oneof=maintenance repair cleaning other"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string          `json:"paymentMethod" validate:"omitempty,oneof=cash bank_transfer credit_card online_payment"`
	PaymentDate   string          `json:"paymentDate"`
	Notes         string          `json:"notes"`
}

type OwnerPaymentInput struct {
	AmountPaid decimal.Decimal `json:"amount_paid" validate:"required"`
	Notes      string          `json:"notes"`
}

func occasionalPaymentPayload(payment models.OccasionalPayment) iris.Map {
	payload := iris.Map{
		"id":            payment.ID,
		"unit":          payment.UnitID,
		"category":      payment.Category,
		"amount":        payment.Amount,
		"paymentMethod": payment.PaymentMethod,
		"notes":         payment.Notes,
		"createdAt":     payment.CreatedAt,
	}
	if payment.PaymentDate != nil {
		payload["paymentDate"] = payment.PaymentDate.Format("2006-01-02")
	}
	return payload
}

func paramUnitID(ctx iris.Context) (uint, bool) {
	raw := ctx.Params().Get("unitID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		utils.CreateNotFound(ctx)
		return 0, false
	}
	var unit models.Unit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return 0, false
	}
	return uint(id), true
}

func GetUnitPayments(ctx iris.Context) {
	unitID, ok := paramUnitID(ctx)
	if !ok {
		return
	}

	query := storage.DB.Where("unit_id = ?", unitID).Order("payment_date desc")
	if category := ctx.URLParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var payments []models.OccasionalPayment
	if err := query.Find(&payments).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	rows := make([]iris.Map, 0, len(payments))
	for _, payment := range payments {
		rows = append(rows, occasionalPaymentPayload(payment))
	}

	payload := iris.Map{"payments": rows}
	if summary, err := services.UnitOccasionalSummary(storage.DB, unitID); err == nil {
		payload["summary"] = summary
	}
	ctx.JSON(payload)
}

func CreateUnitPayment(ctx iris.Context) {
	unitID, ok := paramUnitID(ctx)
	if !ok {
		return
	}

	var input OccasionalPaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !input.Amount.IsPositive() {
		utils.CreateFieldError(ctx, "amount", "amount must be positive")
		return
	}

	payment := models.OccasionalPayment{
		UnitID:        unitID,
		Category:      input.Category,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	}
	if input.PaymentDate != "" {
		paymentDate, err := utils.ParseDate(input.PaymentDate)
		if err != nil {
			utils.CreateFieldError(ctx, "paymentDate", "expected YYYY-MM-DD")
			return
		}
		payment.PaymentDate = &paymentDate
	} else {
		today := services.Today()
		payment.PaymentDate = &today
	}

	if err := services.SaveOccasionalPayment(storage.DB, &payment); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(occasionalPaymentPayload(payment))
}

func GetUnitPayment(ctx iris.Context) {
	unitID, ok := paramUnitID(ctx)
	if !ok {
		return
	}
	id := ctx.Params().Get("id")

	var payment models.OccasionalPayment
	err := storage.DB.Where("unit_id = ?", unitID).First(&payment, id).Error
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(occasionalPaymentPayload(payment))
}

func UpdateUnitPayment(ctx iris.Context) {
	unitID, ok := paramUnitID(ctx)
	if !ok {
		return
	}
	id := ctx.Params().Get("id")

	var payment models.OccasionalPayment
	err := storage.DB.Where("unit_id = ?", unitID).First(&payment, id).Error
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input OccasionalPaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !input.Amount.IsPositive() {
		utils.CreateFieldError(ctx, "amount", "amount must be positive")
		return
	}

	payment.Category = input.Category
	payment.Amount = input.Amount
	payment.PaymentMethod = input.PaymentMethod
	payment.Notes = input.Notes
	if input.PaymentDate != "" {
		paymentDate, err := utils.ParseDate(input.PaymentDate)
		if err != nil {
			utils.CreateFieldError(ctx, "paymentDate", "expected YYYY-MM-DD")
			return
		}
		payment.PaymentDate = &paymentDate
	}

	if err := services.SaveOccasionalPayment(storage.DB, &payment); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(occasionalPaymentPayload(payment))
}

func DeleteUnitPayment(ctx iris.Context) {
	unitID, ok := paramUnitID(ctx)
	if !ok {
		return
	}
	id := ctx.Params().Get("id")

	var payment models.OccasionalPayment
	err := storage.DB.Where("unit_id = ?", unitID).First(&payment, id).Error
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&payment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Deleting a deduction moves money back to both ledgers.
	var unit models.Unit
	if err := storage.DB.First(&unit, unitID).Error; err == nil {
		services.RefreshUnitFinancials(storage.DB, &unit)
		services.RefreshOwnerRevenue(storage.DB, unit.OwnerID)
	}
	ctx.StatusCode(iris.StatusNoContent)
}

// CreateOwnerPayment records a payout made to an owner and recomputes the
// owner's outstanding balance.
func CreateOwnerPayment(ctx iris.Context) {
	ownerID, err := strconv.ParseUint(ctx.Params().Get("ownerID"), 10, 32)
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var owner models.Owner
	if err := storage.DB.First(&owner, ownerID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input OwnerPaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !input.AmountPaid.IsPositive() {
		utils.CreateFieldError(ctx, "amount_paid", "amount must be positive")
		return
	}

	payment := models.OwnerPayment{
		OwnerID: owner.ID,
		Amount:  input.AmountPaid,
		Notes:   input.Notes,
	}
	if err := services.SaveOwnerPayment(storage.DB, &payment); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	summary, err := services.CalculateOwnerPaymentSummary(storage.DB, owner.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"message": "Payment recorded successfully",
		"payment": iris.Map{
			"id":        payment.ID,
			"owner":     payment.OwnerID,
			"amount":    payment.Amount,
			"notes":     payment.Notes,
			"createdAt": payment.CreatedAt,
		},
		"summary": summary,
	})
}

func GetOwnerPaymentSummary(ctx iris.Context) {
	ownerID, err := strconv.ParseUint(ctx.Params().Get("ownerID"), 10, 32)
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	summary, err := services.CalculateOwnerPaymentSummary(storage.DB, uint(ownerID))
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(summary)
}

func GetUnitPaymentSummary(ctx iris.Context) {
	unitID, ok := paramUnitID(ctx)
	if !ok {
		return
	}

	summary, err := services.CalculateUnitPaymentSummary(storage.DB, unitID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(summary)
}

func GetCompanyPaymentSummary(ctx iris.Context) {
	summary, err := services.CalculateCompanyPaymentSummary(storage.DB, nil)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(summary)
}

func GetCompanyUnitPaymentSummary(ctx iris.Context) {
	unitID, ok := paramUnitID(ctx)
	if !ok {
		return
	}

	summary, err := services.CalculateCompanyPaymentSummary(storage.DB, &unitID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(summary)
}
