package routes

import (
	"log"

	"rental-office-server/models"
	"rental-office-server/services"
	"rental-office-server/storage"
	"rental-office-server/utils"

	"github.com/kataras/iris/v12"
)

// GetNotifications regenerates alerts before listing so the feed is current
// even between scheduler runs. A failed sweep still returns whatever exists.
func GetNotifications(ctx iris.Context) {
	if err := services.CheckAndCreateNotifications(storage.DB); err != nil {
		log.Printf("notification sweep: %v", err)
	}

	var notifications []models.Notification
	err := storage.DB.Order("created_at desc").Find(&notifications).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(notifications)
}

func DeleteNotification(ctx iris.Context) {
	id := ctx.Params().Get("id")

	if err := storage.DB.Delete(&models.Notification{}, id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}
