package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	adjustmentdomain "github.com/opencanteen/mensa/internal/adjustment/domain"
	"github.com/opencanteen/mensa/internal/auth"
	budgetdomain "github.com/opencanteen/mensa/internal/budget/domain"
	bulkimportdomain "github.com/opencanteen/mensa/internal/bulkimport/domain"
	"github.com/opencanteen/mensa/internal/directory"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	ingredientdomain "github.com/opencanteen/mensa/internal/ingredient/domain"
	leavedomain "github.com/opencanteen/mensa/internal/leave/domain"
	mealdomain "github.com/opencanteen/mensa/internal/meal/domain"
	mealtypedomain "github.com/opencanteen/mensa/internal/mealtype/domain"
	orderdomain "github.com/opencanteen/mensa/internal/order/domain"
	organizationdomain "github.com/opencanteen/mensa/internal/organization/domain"
	payedomain "github.com/opencanteen/mensa/internal/paye/domain"
	payrolldomain "github.com/opencanteen/mensa/internal/payroll/domain"
	scheduledomain "github.com/opencanteen/mensa/internal/schedule/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrNotConfigured):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, employeedomain.ErrCodeTaken),
		errors.Is(err, mealdomain.ErrNameTaken),
		errors.Is(err, mealtypedomain.ErrNameTaken),
		errors.Is(err, ingredientdomain.ErrNameTaken),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, directory.ErrProvider):
		return http.StatusBadGateway, errorPayload{
			Type:    "provider_error",
			Message: "identity provider unavailable",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case errors.Is(err, organizationdomain.ErrInvalidName),
		errors.Is(err, organizationdomain.ErrInvalidID):
		return true
	case errors.Is(err, employeedomain.ErrInvalidCode),
		errors.Is(err, employeedomain.ErrInvalidName),
		errors.Is(err, employeedomain.ErrInvalidEmail),
		errors.Is(err, employeedomain.ErrInvalidRole),
		errors.Is(err, employeedomain.ErrInvalidSalary),
		errors.Is(err, employeedomain.ErrInvalidOrganization),
		errors.Is(err, employeedomain.ErrPasskeyExhausted):
		return true
	case errors.Is(err, mealdomain.ErrInvalidName),
		errors.Is(err, mealdomain.ErrInvalidPrice),
		errors.Is(err, mealdomain.ErrInvalidID),
		errors.Is(err, mealdomain.ErrInvalidIngredient):
		return true
	case errors.Is(err, mealtypedomain.ErrInvalidName),
		errors.Is(err, mealtypedomain.ErrInvalidWindow),
		errors.Is(err, mealtypedomain.ErrInvalidID):
		return true
	case errors.Is(err, ingredientdomain.ErrInvalidName),
		errors.Is(err, ingredientdomain.ErrInvalidPrice),
		errors.Is(err, ingredientdomain.ErrInvalidQuantity),
		errors.Is(err, ingredientdomain.ErrInvalidPriority),
		errors.Is(err, ingredientdomain.ErrInvalidID):
		return true
	case errors.Is(err, orderdomain.ErrInvalidEmployee),
		errors.Is(err, orderdomain.ErrInvalidOrganization),
		errors.Is(err, orderdomain.ErrInvalidMealType),
		errors.Is(err, orderdomain.ErrInvalidItems),
		errors.Is(err, orderdomain.ErrInvalidDate),
		errors.Is(err, orderdomain.ErrInvalidID):
		return true
	case errors.Is(err, scheduledomain.ErrInvalidDate),
		errors.Is(err, scheduledomain.ErrInvalidMealType),
		errors.Is(err, scheduledomain.ErrInvalidMeals),
		errors.Is(err, scheduledomain.ErrInvalidID),
		errors.Is(err, scheduledomain.ErrSlotTaken):
		return true
	case errors.Is(err, budgetdomain.ErrInvalidName),
		errors.Is(err, budgetdomain.ErrInvalidAmount),
		errors.Is(err, budgetdomain.ErrInvalidPeriod),
		errors.Is(err, budgetdomain.ErrInvalidOrganization),
		errors.Is(err, budgetdomain.ErrInvalidID):
		return true
	case errors.Is(err, adjustmentdomain.ErrInvalidLabel),
		errors.Is(err, adjustmentdomain.ErrInvalidValue),
		errors.Is(err, adjustmentdomain.ErrInvalidKind),
		errors.Is(err, adjustmentdomain.ErrInvalidMonth),
		errors.Is(err, adjustmentdomain.ErrInvalidEmployee),
		errors.Is(err, adjustmentdomain.ErrInvalidID):
		return true
	case errors.Is(err, payedomain.ErrInvalidSlab):
		return true
	case errors.Is(err, leavedomain.ErrInvalidEmployee),
		errors.Is(err, leavedomain.ErrInvalidDates),
		errors.Is(err, leavedomain.ErrInvalidKind),
		errors.Is(err, leavedomain.ErrInvalidID),
		errors.Is(err, leavedomain.ErrNotPending):
		return true
	case errors.Is(err, payrolldomain.ErrInvalidMonth):
		return true
	case errors.Is(err, bulkimportdomain.ErrMissingColumns),
		errors.Is(err, bulkimportdomain.ErrEmptyFile):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	case errors.Is(err, organizationdomain.ErrNotFound),
		errors.Is(err, employeedomain.ErrNotFound),
		errors.Is(err, mealdomain.ErrNotFound),
		errors.Is(err, mealtypedomain.ErrNotFound),
		errors.Is(err, ingredientdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, scheduledomain.ErrNotFound),
		errors.Is(err, budgetdomain.ErrNotFound),
		errors.Is(err, adjustmentdomain.ErrNotFound),
		errors.Is(err, leavedomain.ErrNotFound),
		errors.Is(err, payrolldomain.ErrEmployeeMissing):
		return true
	default:
		return false
	}
}
