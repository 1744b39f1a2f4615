package handler

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/middleware"
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
		c.JSON(http.StatusBadRequest, apierror.NewValidationResponse(fields))
		return false
	}
	return true
}

// envelope is the uniform success body: the payload under data, plus an
// optional human message.
type envelope struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Data: data})
}

func respondMsg(c *gin.Context, status int, data interface{}, msg string) {
	c.JSON(status, envelope{Data: data, Message: msg})
}

// writeError maps a service error onto the HTTP taxonomy: the status comes
// from the error kind, the body never carries internal detail.
func writeError(c *gin.Context, err error) {
	c.JSON(apierror.StatusCode(err), apierror.NewResponse(err))
}

// pathID parses the :id route parameter. Writes the 400 itself on failure.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// companyID extracts the tenant scope from the JWT claims.
func companyID(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, _ := uuid.Parse(claims.CompanyID)
	return id
}

// actorID extracts the authenticated user's id, nil-able for audit fields.
func actorID(c *gin.Context) *uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &id
}
