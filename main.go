package main

import (
	"fmt"
	"log"
	"os"

	"rental-office-server/routes"
	"rental-office-server/services"
	"rental-office-server/storage"
	"rental-office-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/robfig/cron/v3"
)

// sweepSchedule runs the notification sweep every morning at 06:00.
const sweepSchedule = "0 6 * * *"

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	appValidator := validator.New()
	if err := utils.RegisterCustomValidations(appValidator); err != nil {
		log.Fatalf("register validations: %v", err)
	}
	app.Validator = appValidator

	// CORS for the back-office dashboard (http://localhost:3000)
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	adminOnly := []iris.Handler{accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware}

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/login", routes.Login)
		auth.Post("/logout", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.Logout)
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	cities := app.Party("/api/cities", adminOnly...)
	{
		cities.Get("/", routes.GetCities)
		cities.Post("/", routes.CreateCity)
		cities.Get("/{id:uint}", routes.GetCity)
		cities.Put("/{id:uint}", routes.UpdateCity)
		cities.Delete("/{id:uint}", routes.DeleteCity)
	}

	districts := app.Party("/api/districts", adminOnly...)
	{
		districts.Get("/", routes.GetDistricts)
		districts.Post("/", routes.CreateDistrict)
		districts.Get("/{id:uint}", routes.GetDistrict)
		districts.Put("/{id:uint}", routes.UpdateDistrict)
		districts.Delete("/{id:uint}", routes.DeleteDistrict)
	}

	owners := app.Party("/api/owners", adminOnly...)
	{
		owners.Get("/", routes.GetOwners)
		owners.Post("/", routes.CreateOwner)
		owners.Get("/{id:uint}", routes.GetOwner)
		owners.Put("/{id:uint}", routes.UpdateOwner)
		owners.Delete("/{id:uint}", routes.DeleteOwner)
	}

	units := app.Party("/api/units", adminOnly...)
	{
		units.Get("/", routes.GetUnits)
		units.Post("/", routes.CreateUnit)
		units.Get("/{id:uint}", routes.GetUnit)
		units.Put("/{id:uint}", routes.UpdateUnit)
		units.Delete("/{id:uint}", routes.DeleteUnit)
		units.Delete("/image/{id:uint}", routes.DeleteUnitImage)
	}

	tenants := app.Party("/api/tenants", adminOnly...)
	{
		tenants.Get("/reviews", routes.GetReviews)
		tenants.Post("/reviews", routes.CreateReview)
		tenants.Put("/reviews/{id:uint}", routes.UpdateReview)
		tenants.Delete("/reviews/{id:uint}", routes.DeleteReview)

		tenants.Get("/", routes.GetTenants)
		tenants.Post("/", routes.CreateTenant)
		tenants.Get("/{id:uint}", routes.GetTenant)
		tenants.Put("/{id:uint}", routes.UpdateTenant)
		tenants.Delete("/{id:uint}", routes.DeleteTenant)
	}

	rents := app.Party("/api/rents", adminOnly...)
	{
		rents.Get("/", routes.GetRents)
		rents.Post("/", routes.CreateRent)
		rents.Get("/{id:uint}", routes.GetRent)
		rents.Put("/{id:uint}", routes.UpdateRent)
		rents.Delete("/{id:uint}", routes.DeleteRent)
	}

	payments := app.Party("/api/payments", adminOnly...)
	{
		payments.Get("/all/owner/{ownerID:uint}", routes.GetOwnerPaymentSummary)
		payments.Get("/all/unit/{unitID:uint}", routes.GetUnitPaymentSummary)
		payments.Get("/all/payments/me", routes.GetCompanyPaymentSummary)
		payments.Get("/all/payments/me/{unitID:uint}", routes.GetCompanyUnitPaymentSummary)
		payments.Post("/owner/{ownerID:uint}/pay", routes.CreateOwnerPayment)

		payments.Get("/{unitID:uint}", routes.GetUnitPayments)
		payments.Post("/{unitID:uint}", routes.CreateUnitPayment)
		payments.Get("/{unitID:uint}/{id:uint}", routes.GetUnitPayment)
		payments.Put("/{unitID:uint}/{id:uint}", routes.UpdateUnitPayment)
		payments.Delete("/{unitID:uint}/{id:uint}", routes.DeleteUnitPayment)
	}

	inventory := app.Party("/api/inventory", adminOnly...)
	{
		inventory.Get("/", routes.GetInventoryItems)
		inventory.Post("/", routes.CreateInventoryItem)
		inventory.Get("/{id:uint}", routes.GetInventoryItem)
		inventory.Put("/{id:uint}", routes.UpdateInventoryItem)
		inventory.Delete("/{id:uint}", routes.DeleteInventoryItem)
	}

	notifications := app.Party("/api/notifications", adminOnly...)
	{
		notifications.Get("/", routes.GetNotifications)
		notifications.Delete("/{id:uint}", routes.DeleteNotification)
	}

	dashboard := app.Party("/dashboard", adminOnly...)
	{
		dashboard.Get("/home/metrics", routes.GetHomeMetrics)
		dashboard.Get("/stock/metrics", routes.GetStockMetrics)
		dashboard.Get("/rental/metrics", routes.GetRentalMetrics)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(sweepSchedule, func() {
		if err := services.CheckAndCreateNotifications(storage.DB); err != nil {
			log.Printf("notification sweep: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule notification sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
