package handler

import (
	"errors"
	"net/http"
	"reflect"

	"verttraue/internal/apierror"
	"verttraue/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps typed service errors onto the HTTP error taxonomy.
// Unrecognized errors are attached to the context for the ErrorHandler
// middleware, which logs them and replies 500 without leaking details.
func respondError(c *gin.Context, err error) {
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, apierror.New(nf.Error()))
		return
	}
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, apierror.NewConflict(conflict.Msg, conflict.Count))
		return
	}
	var invalid *service.ValidationError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(invalid.Msg))
		return
	}
	_ = c.Error(err)
}
