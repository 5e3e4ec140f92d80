package routes

import (
	"rental-office-server/models"
	"rental-office-server/storage"
	"rental-office-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LogoutInput struct {
	Refresh string `json:"refresh"`
}

// Login exchanges admin credentials for an access/refresh token pair.
func Login(ctx iris.Context) {
	var input LoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "Invalid credentials or not an admin"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "Invalid credentials or not an admin"})
		return
	}

	if user.Role != "admin" && user.Role != "super_admin" {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "Invalid credentials or not an admin"})
		return
	}

	tokenPair, err := utils.CreateTokenPair(user.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"message": "Logged in successfully",
		"access":  string(tokenPair.AccessToken),
		"refresh": string(tokenPair.RefreshToken),
	})
}

// Logout blacklists the refresh token. Invalid, expired or already
// blacklisted tokens come back as a 400 with the reason; anything unexpected
// degrades to a generic invalid-token response.
func Logout(ctx iris.Context) {
	var input LogoutInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid token"})
		return
	}
	if input.Refresh == "" {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Refresh token required"})
		return
	}

	if !utils.BlacklistRefreshToken(input.Refresh) {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Token is invalid, expired or already blacklisted"})
		return
	}

	ctx.JSON(iris.Map{"message": "Logged out successfully"})
}
