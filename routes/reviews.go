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

type ReviewInput struct {
	Tenant  uint            `json:"tenant" validate:"required"`
	Comment string          `json:"comment"`
	Rate    decimal.Decimal `json:"rate" validate:"required"`
}

func validateReviewRate(ctx iris.Context, rate decimal.Decimal) bool {
	if rate.LessThan(decimal.NewFromInt(1)) || rate.GreaterThan(decimal.NewFromInt(5)) {
		utils.CreateFieldError(ctx, "rate", "rate must be between 1.0 and 5.0")
		return false
	}
	return true
}

func reviewPayload(review models.Review) iris.Map {
	return iris.Map{
		"id":        review.ID,
		"tenant":    review.TenantID,
		"comment":   review.Comment,
		"rate":      review.Rate,
		"createdAt": review.CreatedAt,
	}
}

func recalcTenantRate(tenantID uint) {
	if err := services.RecalcTenantRate(storage.DB, tenantID); err != nil {
		log.Printf("tenant %d: recalc rate: %v", tenantID, err)
	}
}

func GetReviews(ctx iris.Context) {
	query := storage.DB.Order("created_at desc")
	if tenant := ctx.URLParam("tenant"); tenant != "" {
		query = query.Where("tenant_id = ?", tenant)
	}

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	payload := make([]iris.Map, 0, len(reviews))
	for _, review := range reviews {
		payload = append(payload, reviewPayload(review))
	}
	ctx.JSON(payload)
}

func CreateReview(ctx iris.Context) {
	var input ReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !validateReviewRate(ctx, input.Rate) {
		return
	}

	var tenant models.Tenant
	if err := storage.DB.First(&tenant, input.Tenant).Error; err != nil {
		utils.CreateFieldError(ctx, "tenant", "tenant does not exist")
		return
	}

	review := models.Review{
		TenantID: input.Tenant,
		Comment:  input.Comment,
		Rate:     input.Rate,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	recalcTenantRate(review.TenantID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(reviewPayload(review))
}

func UpdateReview(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input ReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !validateReviewRate(ctx, input.Rate) {
		return
	}

	var tenant models.Tenant
	if err := storage.DB.First(&tenant, input.Tenant).Error; err != nil {
		utils.CreateFieldError(ctx, "tenant", "tenant does not exist")
		return
	}

	previousTenantID := review.TenantID
	review.TenantID = input.Tenant
	review.Comment = input.Comment
	review.Rate = input.Rate

	if err := storage.DB.Save(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	recalcTenantRate(review.TenantID)
	if previousTenantID != review.TenantID {
		recalcTenantRate(previousTenantID)
	}

	ctx.JSON(reviewPayload(review))
}

func DeleteReview(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	recalcTenantRate(review.TenantID)
	ctx.StatusCode(iris.StatusNoContent)
}
