package routes

import (
	"rental-office-server/models"
	"rental-office-server/storage"
	"rental-office-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

type InventoryInput struct {
	Name          string          `json:"name" validate:"required,max=100"`
	Description   string          `json:"description"`
	Category      string          `json:"category" validate:"required,max=50"`
	Quantity      int             `json:"quantity" validate:"min=0"`
	LowerQuantity int             `json:"lowerQuantity" validate:"min=0"`
	UnitOfMeasure string          `json:"unitOfMeasure" validate:"max=50"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	SupplierName  string          `json:"supplierName" validate:"max=255"`
}

func GetInventoryItems(ctx iris.Context) {
	query := storage.DB.Order("name asc")
	if category := ctx.URLParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := ctx.URLParam("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"name ILIKE ? OR category ILIKE ? OR supplier_name ILIKE ? OR status ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var items []models.Inventory
	if err := query.Find(&items).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(items)
}

func GetInventoryItem(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var item models.Inventory
	if err := storage.DB.First(&item, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(item)
}

func CreateInventoryItem(ctx iris.Context) {
	var input InventoryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.UnitPrice.IsNegative() {
		utils.CreateFieldError(ctx, "unitPrice", "unit price cannot be negative")
		return
	}

	item := models.Inventory{
		Name:          input.Name,
		Description:   input.Description,
		Category:      input.Category,
		Quantity:      input.Quantity,
		LowerQuantity: input.LowerQuantity,
		UnitOfMeasure: input.UnitOfMeasure,
		UnitPrice:     input.UnitPrice,
		SupplierName:  input.SupplierName,
	}
	if err := storage.DB.Create(&item).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(item)
}

func UpdateInventoryItem(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var item models.Inventory
	if err := storage.DB.First(&item, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input InventoryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.UnitPrice.IsNegative() {
		utils.CreateFieldError(ctx, "unitPrice", "unit price cannot be negative")
		return
	}

	item.Name = input.Name
	item.Description = input.Description
	item.Category = input.Category
	item.Quantity = input.Quantity
	item.LowerQuantity = input.LowerQuantity
	item.UnitOfMeasure = input.UnitOfMeasure
	item.UnitPrice = input.UnitPrice
	item.SupplierName = input.SupplierName

	if err := storage.DB.Save(&item).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(item)
}

func DeleteInventoryItem(ctx iris.Context) {
	id := ctx.Params().Get("id")

	if err := storage.DB.Delete(&models.Inventory{}, id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}
