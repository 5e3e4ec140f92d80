package routes

import (
	"rental-office-server/models"
	"rental-office-server/storage"
	"rental-office-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type CityInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type DistrictInput struct {
	Name string `json:"name" validate:"required,max=100"`
	City uint   `json:"city" validate:"required"`
}

func cityPayload(city models.City) iris.Map {
	districts := make([]iris.Map, 0, len(city.Districts))
	for _, d := range city.Districts {
		districts = append(districts, iris.Map{"id": d.ID, "name": d.Name})
	}
	return iris.Map{
		"id":        city.ID,
		"name":      city.Name,
		"districts": districts,
	}
}

func GetCities(ctx iris.Context) {
	var cities []models.City
	if err := storage.DB.Preload("Districts").Order("name asc").Find(&cities).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	payload := make([]iris.Map, 0, len(cities))
	for _, city := range cities {
		payload = append(payload, cityPayload(city))
	}
	ctx.JSON(payload)
}

func GetCity(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var city models.City
	if err := storage.DB.Preload("Districts").First(&city, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(cityPayload(city))
}

func CreateCity(ctx iris.Context) {
	var input CityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	city := models.City{Name: input.Name}
	if err := storage.DB.Create(&city).Error; err != nil {
		utils.CreateFieldError(ctx, "name", "a city with this name already exists")
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(cityPayload(city))
}

func UpdateCity(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var city models.City
	if err := storage.DB.First(&city, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input CityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	city.Name = input.Name
	if err := storage.DB.Save(&city).Error; err != nil {
		utils.CreateFieldError(ctx, "name", "a city with this name already exists")
		return
	}
	ctx.JSON(cityPayload(city))
}

func DeleteCity(ctx iris.Context) {
	id := ctx.Params().Get("id")

	if err := storage.DB.Delete(&models.City{}, id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

func districtPayload(district models.District) iris.Map {
	return iris.Map{
		"id":        district.ID,
		"name":      district.Name,
		"city":      district.CityID,
		"city_name": district.City.Name,
	}
}

func GetDistricts(ctx iris.Context) {
	query := storage.DB.Preload("City").Order("name asc")
	if city := ctx.URLParam("city"); city != "" {
		query = query.Where("city_id = ?", city)
	}

	var districts []models.District
	if err := query.Find(&districts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	payload := make([]iris.Map, 0, len(districts))
	for _, d := range districts {
		payload = append(payload, districtPayload(d))
	}
	ctx.JSON(payload)
}

func GetDistrict(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var district models.District
	if err := storage.DB.Preload("City").First(&district, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(districtPayload(district))
}

func CreateDistrict(ctx iris.Context) {
	var input DistrictInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var city models.City
	if err := storage.DB.First(&city, input.City).Error; err != nil {
		utils.CreateFieldError(ctx, "city", "city does not exist")
		return
	}

	district := models.District{Name: input.Name, CityID: city.ID, City: city}
	if err := storage.DB.Create(&district).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(districtPayload(district))
}

func UpdateDistrict(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var district models.District
	if err := storage.DB.First(&district, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input DistrictInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var city models.City
	if err := storage.DB.First(&city, input.City).Error; err != nil {
		utils.CreateFieldError(ctx, "city", "city does not exist")
		return
	}

	district.Name = input.Name
	district.CityID = city.ID
	district.City = city
	if err := storage.DB.Save(&district).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(districtPayload(district))
}

func DeleteDistrict(ctx iris.Context) {
	id := ctx.Params().Get("id")

	result := storage.DB.Delete(&models.District{}, id)
	if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}
