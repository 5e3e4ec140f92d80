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

type UnitInput struct {
	Name            string          `json:"name" validate:"required,max=100"`
	Owner           uint            `json:"owner" validate:"required"`
	City            uint            `json:"city" validate:"required"`
	District        uint            `json:"district" validate:"required"`
	LocationURL     string          `json:"locationURL" validate:"required,mapurl"`
	LocationText    string          `json:"locationText"`
	Status          string          `json:"status" validate:"omitempty,oneof=available occupied in_maintenance"`
	Type            string          `json:"type" validate:"required,oneof=apartment villa studio duplex other"`
	Bedrooms        int             `json:"bedrooms" validate:"min=0"`
	Bathrooms       int             `json:"bathrooms" validate:"min=0"`
	Area            int             `json:"area" validate:"min=0"`
	PricePerDay     decimal.Decimal `json:"pricePerDay"`
	OwnerPercentage decimal.Decimal `json:"ownerPercentage"`
	LeaseStart      string          `json:"leaseStart" validate:"required"`
	LeaseEnd        string          `json:"leaseEnd" validate:"required"`
	Images          []string        `json:"images"`
}

func validateUnitInput(ctx iris.Context, input *UnitInput) (leaseStart, leaseEnd time.Time, ok bool) {
	leaseStart, err := utils.ParseDate(input.LeaseStart)
	if err != nil {
		utils.CreateFieldError(ctx, "leaseStart", "expected YYYY-MM-DD")
		return leaseStart, leaseEnd, false
	}
	leaseEnd, err = utils.ParseDate(input.LeaseEnd)
	if err != nil {
		utils.CreateFieldError(ctx, "leaseEnd", "expected YYYY-MM-DD")
		return leaseStart, leaseEnd, false
	}
	if !leaseEnd.After(leaseStart) {
		utils.CreateFieldError(ctx, "leaseEnd", "lease end date must be after lease start date")
		return leaseStart, leaseEnd, false
	}
	if input.OwnerPercentage.IsNegative() || input.OwnerPercentage.GreaterThan(decimal.NewFromInt(100)) {
		utils.CreateFieldError(ctx, "ownerPercentage", "owner percentage must be between 0 and 100")
		return leaseStart, leaseEnd, false
	}
	if input.PricePerDay.IsNegative() {
		utils.CreateFieldError(ctx, "pricePerDay", "price per day cannot be negative")
		return leaseStart, leaseEnd, false
	}
	return leaseStart, leaseEnd, true
}

func unitListPayload(unit models.Unit) iris.Map {
	payload := iris.Map{
		"id":           unit.ID,
		"name":         unit.Name,
		"owner":        unit.OwnerID,
		"city":         unit.CityID,
		"district":     unit.DistrictID,
		"locationText": unit.LocationText,
		"status":       unit.Status,
		"type":         unit.Type,
		"bedrooms":     unit.Bedrooms,
		"bathrooms":    unit.Bathrooms,
		"area":         unit.Area,
		"pricePerDay":  unit.PricePerDay,
		"leaseStart":   unit.LeaseStart.Format("2006-01-02"),
		"leaseEnd":     unit.LeaseEnd.Format("2006-01-02"),
	}
	if unit.Owner != nil {
		payload["owner_name"] = unit.Owner.FullName
	}
	if unit.City != nil {
		payload["city_name"] = unit.City.Name
	}
	if unit.District != nil {
		payload["district_name"] = unit.District.Name
	}
	if len(unit.Images) > 0 {
		payload["cover"] = unit.Images[0].URL
	}

	var rent models.Rent
	err := storage.DB.Preload("Tenant").
		Where("unit_id = ? AND status = ?", unit.ID, models.RentActive).
		Order("rent_end desc").First(&rent).Error
	// The tenant may have been deleted since the rent was written.
	if err == nil && rent.Tenant != nil {
		payload["current_tenant_name"] = rent.Tenant.FullName
	}
	return payload
}

func unitDetailPayload(unit models.Unit) iris.Map {
	payload := unitListPayload(unit)

	images := make([]iris.Map, 0, len(unit.Images))
	for _, img := range unit.Images {
		images = append(images, iris.Map{"id": img.ID, "url": img.URL})
	}
	payload["images"] = images
	payload["locationURL"] = unit.LocationURL
	payload["ownerPercentage"] = unit.OwnerPercentage
	payload["totalRent"] = unit.TotalRent
	payload["totalOccasional"] = unit.TotalOccasional
	payload["totalOwnerRevenue"] = unit.TotalOwnerRevenue
	payload["totalMyRevenue"] = unit.TotalMyRevenue
	payload["createdAt"] = unit.CreatedAt

	if occasional, err := services.UnitOccasionalSummary(storage.DB, unit.ID); err != nil {
		log.Printf("unit %d: occasional summary: %v", unit.ID, err)
	} else {
		payload["payments_summary"] = occasional
	}
	if summary, err := services.CalculateUnitPaymentSummary(storage.DB, unit.ID); err != nil {
		log.Printf("unit %d: payment summary: %v", unit.ID, err)
	} else {
		payload["financials"] = summary
	}
	return payload
}

func GetUnits(ctx iris.Context) {
	query := storage.DB.Preload("Owner").Preload("City").Preload("District").
		Preload("Images").Order("name asc")

	if unitType := ctx.URLParam("type"); unitType != "" {
		query = query.Where("type = ?", unitType)
	}
	if city := ctx.URLParam("city"); city != "" {
		query = query.Where("city_id = ?", city)
	}
	if district := ctx.URLParam("district"); district != "" {
		query = query.Where("district_id = ?", district)
	}
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if owner := ctx.URLParam("owner"); owner != "" {
		query = query.Where("owner_id = ?", owner)
	}
	if search := ctx.URLParam("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if leaseFrom := ctx.URLParam("lease_from"); leaseFrom != "" {
		if parsed, err := utils.ParseDate(leaseFrom); err == nil {
			query = query.Where("lease_start >= ?", parsed)
		}
	}
	if leaseTo := ctx.URLParam("lease_to"); leaseTo != "" {
		if parsed, err := utils.ParseDate(leaseTo); err == nil {
			query = query.Where("lease_end <= ?", parsed)
		}
	}

	// from/to filters down to units free for the whole window: any rent
	// overlapping it, even partially, excludes the unit.
	from, fromErr := utils.ParseDate(ctx.URLParam("from"))
	to, toErr := utils.ParseDate(ctx.URLParam("to"))
	if fromErr == nil && toErr == nil {
		query = query.Where(
			"NOT EXISTS (SELECT 1 FROM rents WHERE rents.unit_id = units.id AND rents.deleted_at IS NULL AND rents.rent_start <= ? AND rents.rent_end >= ?)",
			to, from,
		)
	}

	var units []models.Unit
	if err := query.Find(&units).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	payload := make([]iris.Map, 0, len(units))
	for i := range units {
		if err := services.RefreshUnitStatus(storage.DB, &units[i]); err != nil {
			log.Printf("unit %d: refresh status: %v", units[i].ID, err)
		}
		payload = append(payload, unitListPayload(units[i]))
	}
	ctx.JSON(payload)
}

func GetUnit(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var unit models.Unit
	err := storage.DB.Preload("Owner").Preload("City").Preload("District").
		Preload("Images").First(&unit, id).Error
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := services.RefreshUnitStatus(storage.DB, &unit); err != nil {
		log.Printf("unit %d: refresh status: %v", unit.ID, err)
	}
	if err := services.RefreshUnitFinancials(storage.DB, &unit); err != nil {
		log.Printf("unit %d: refresh financials: %v", unit.ID, err)
	}

	ctx.JSON(unitDetailPayload(unit))
}

func uploadUnitImages(unitID uint, sources []string) []models.UnitImage {
	images := make([]models.UnitImage, 0, len(sources))
	for i, src := range sources {
		publicID := fmt.Sprintf("units/%d/%d-%d", unitID, time.Now().UnixNano(), i)
		url, err := storage.UploadBase64File(src, publicID)
		if err != nil {
			log.Printf("unit %d: image upload: %v", unitID, err)
			continue
		}
		images = append(images, models.UnitImage{UnitID: unitID, URL: url})
	}
	return images
}

func CreateUnit(ctx iris.Context) {
	var input UnitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	leaseStart, leaseEnd, ok := validateUnitInput(ctx, &input)
	if !ok {
		return
	}

	var owner models.Owner
	if err := storage.DB.First(&owner, input.Owner).Error; err != nil {
		utils.CreateFieldError(ctx, "owner", "owner does not exist")
		return
	}
	var district models.District
	if err := storage.DB.Where("id = ? AND city_id = ?", input.District, input.City).
		First(&district).Error; err != nil {
		utils.CreateFieldError(ctx, "district", "district does not exist in this city")
		return
	}

	unit := models.Unit{
		Name:            input.Name,
		OwnerID:         input.Owner,
		CityID:          input.City,
		DistrictID:      input.District,
		LocationURL:     input.LocationURL,
		LocationText:    input.LocationText,
		Type:            input.Type,
		Bedrooms:        input.Bedrooms,
		Bathrooms:       input.Bathrooms,
		Area:            input.Area,
		PricePerDay:     input.PricePerDay,
		OwnerPercentage: input.OwnerPercentage,
		LeaseStart:      leaseStart,
		LeaseEnd:        leaseEnd,
	}
	if input.Status != "" {
		unit.Status = input.Status
	}

	if err := storage.DB.Create(&unit).Error; err != nil {
		utils.CreateFieldError(ctx, "name", "a unit with this name already exists")
		return
	}

	if len(input.Images) > 0 {
		images := uploadUnitImages(unit.ID, input.Images)
		if len(images) > 0 {
			storage.DB.Create(&images)
			unit.Images = images
		}
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(unitDetailPayload(unit))
}

func UpdateUnit(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var unit models.Unit
	if err := storage.DB.Preload("Images").First(&unit, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input UnitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	leaseStart, leaseEnd, ok := validateUnitInput(ctx, &input)
	if !ok {
		return
	}

	var owner models.Owner
	if err := storage.DB.First(&owner, input.Owner).Error; err != nil {
		utils.CreateFieldError(ctx, "owner", "owner does not exist")
		return
	}
	var district models.District
	if err := storage.DB.Where("id = ? AND city_id = ?", input.District, input.City).
		First(&district).Error; err != nil {
		utils.CreateFieldError(ctx, "district", "district does not exist in this city")
		return
	}

	previousOwnerID := unit.OwnerID
	percentageChanged := !unit.OwnerPercentage.Equal(input.OwnerPercentage)

	unit.Name = input.Name
	unit.OwnerID = input.Owner
	unit.CityID = input.City
	unit.DistrictID = input.District
	unit.LocationURL = input.LocationURL
	unit.LocationText = input.LocationText
	unit.Type = input.Type
	unit.Bedrooms = input.Bedrooms
	unit.Bathrooms = input.Bathrooms
	unit.Area = input.Area
	unit.PricePerDay = input.PricePerDay
	unit.OwnerPercentage = input.OwnerPercentage
	unit.LeaseStart = leaseStart
	unit.LeaseEnd = leaseEnd
	if input.Status != "" {
		unit.Status = input.Status
	}

	if err := storage.DB.Save(&unit).Error; err != nil {
		utils.CreateFieldError(ctx, "name", "a unit with this name already exists")
		return
	}

	if len(input.Images) > 0 {
		for _, img := range unit.Images {
			storage.DeleteFile(img.URL)
		}
		storage.DB.Where("unit_id = ?", unit.ID).Delete(&models.UnitImage{})
		images := uploadUnitImages(unit.ID, input.Images)
		if len(images) > 0 {
			storage.DB.Create(&images)
		}
		unit.Images = images
	}

	if percentageChanged || previousOwnerID != unit.OwnerID {
		if err := services.RefreshUnitFinancials(storage.DB, &unit); err != nil {
			log.Printf("unit %d: refresh financials: %v", unit.ID, err)
		}
		if _, err := services.RefreshOwnerRevenue(storage.DB, unit.OwnerID); err != nil {
			log.Printf("owner %d: refresh revenue: %v", unit.OwnerID, err)
		}
		if previousOwnerID != unit.OwnerID {
			if _, err := services.RefreshOwnerRevenue(storage.DB, previousOwnerID); err != nil {
				log.Printf("owner %d: refresh revenue: %v", previousOwnerID, err)
			}
		}
	}

	ctx.JSON(unitDetailPayload(unit))
}

func DeleteUnit(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var unit models.Unit
	if err := storage.DB.Preload("Images").First(&unit, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	for _, img := range unit.Images {
		storage.DeleteFile(img.URL)
	}
	storage.DB.Where("unit_id = ?", unit.ID).Delete(&models.UnitImage{})

	if err := storage.DB.Delete(&unit).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if _, err := services.RefreshOwnerRevenue(storage.DB, unit.OwnerID); err != nil {
		log.Printf("owner %d: refresh revenue: %v", unit.OwnerID, err)
	}
	ctx.StatusCode(iris.StatusNoContent)
}

func DeleteUnitImage(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var image models.UnitImage
	if err := storage.DB.First(&image, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	storage.DeleteFile(image.URL)
	if err := storage.DB.Delete(&image).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}
