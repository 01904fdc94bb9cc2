package middleware

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateJSON binds the JSON body to req and validates its struct tags
func ValidateJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return err
	}
	return getValidator().Struct(req)
}

// ValidateQuery binds query parameters to req and validates them
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return err
	}
	return getValidator().Struct(req)
}

// RespondWithValidationError sends a standardized validation error response
func RespondWithValidationError(c *gin.Context, err error) {
	if valErrs, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]string, len(valErrs))
		for _, fe := range valErrs {
			fields[strings.ToLower(fe.Field())] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"fields": fields,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request format",
		"details": err.Error(),
	})
}

// ValidateAndBind validates and binds request to the provided struct.
// Returns true if validation passes, false otherwise (and sends error response).
func ValidateAndBind(c *gin.Context, req interface{}) bool {
	if err := ValidateJSON(c, req); err != nil {
		RespondWithValidationError(c, err)
		return false
	}
	return true
}
