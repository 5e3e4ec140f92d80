package routes

import (
	"strconv"

	"rental-office-server/services"
	"rental-office-server/storage"
	"rental-office-server/utils"

	"github.com/kataras/iris/v12"
)

func GetHomeMetrics(ctx iris.Context) {
	days := 30
	if raw := ctx.URLParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.CreateFieldError(ctx, "days", "days must be a positive integer")
			return
		}
		days = parsed
	}

	metrics, err := services.GetHomeMetrics(storage.DB, days)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(metrics)
}

func GetStockMetrics(ctx iris.Context) {
	metrics, err := services.GetStockMetrics(storage.DB)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(metrics)
}

func GetRentalMetrics(ctx iris.Context) {
	metrics, err := services.GetRentalMetrics(storage.DB)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(metrics)
}
