package middleware

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/schoolbook/marksdesk/internal/pkg/apperrors"
	"github.com/schoolbook/marksdesk/internal/pkg/validation"
)

// RegisterValidators installs the custom rules on gin's binding engine
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not validator/v10")
	}
	return validation.Register(v)
}

// BindJSON decodes and validates the request body into obj. On failure it
// writes the error response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, bindingError(err))
		return false
	}
	return true
}

// BindQuery decodes and validates query parameters into obj
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		HandleAPIError(c, bindingError(err))
		return false
	}
	return true
}

// bindingError turns decoder and validator failures into validation errors
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validation.Translate(err)
	}
	if errors.Is(err, io.EOF) {
		return apperrors.NewValidationError(apperrors.FieldError{Field: "body", Message: "is required"})
	}
	return &apperrors.CustomError{
		Err:     apperrors.ErrValidationFailed,
		Message: "Invalid request format: " + err.Error(),
	}
}
