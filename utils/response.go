package utils

import (
	"errors"

	"rental-office-server/services"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func CreateNotFound(ctx iris.Context) {
	ctx.StatusCode(iris.StatusNotFound)
	ctx.JSON(iris.Map{"error": "not_found", "message": "Resource not found"})
}

func CreateInternalServerError(ctx iris.Context) {
	ctx.StatusCode(iris.StatusInternalServerError)
	ctx.JSON(iris.Map{"error": "internal", "message": "Internal server error"})
}

func CreateError(ctx iris.Context, status int, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": "error", "message": message})
}

// CreateFieldError writes a 400 with a message scoped to one field, the shape
// used for all domain validation rejections.
func CreateFieldError(ctx iris.Context, field, message string) {
	ctx.StatusCode(iris.StatusBadRequest)
	ctx.JSON(iris.Map{"errors": iris.Map{field: message}})
}

// HandleValidationErrors maps ReadJSON/validator failures to a 400 response
// with per-field details.
func HandleValidationErrors(err error, ctx iris.Context) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := iris.Map{}
		for _, fe := range validationErrs {
			fields[fe.Field()] = "failed on the '" + fe.Tag() + "' rule"
		}
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"errors": fields})
		return
	}

	var domainErr *services.ValidationError
	if errors.As(err, &domainErr) {
		CreateFieldError(ctx, domainErr.Field, domainErr.Message)
		return
	}

	ctx.StatusCode(iris.StatusBadRequest)
	ctx.JSON(iris.Map{"message": err.Error()})
}
