package dto

import "net/http"

// Error codes used outside the domain layer
const (
	ErrCodeInternal     = "INTERNAL"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing from the map fall back to 500 so a new domain error
// never leaks as a false client error.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// input validation -> 400
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_NAME":           http.StatusBadRequest,
	"INVALID_PRICE":          http.StatusBadRequest,
	"INVALID_GENDER":         http.StatusBadRequest,
	"INVALID_IMAGE":          http.StatusBadRequest,
	"INVALID_VARIANT":        http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_PRODUCT":        http.StatusBadRequest,
	"INVALID_BUYER":          http.StatusBadRequest,
	"INVALID_ADDRESS":        http.StatusBadRequest,
	"INVALID_SHIPPING":       http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_ORDER_NUMBER":   http.StatusBadRequest,
	"INVALID_STATUS":         http.StatusBadRequest,
	"INVALID_TRACKING":       http.StatusBadRequest,

	// auth
	ErrCodeUnauthorized: http.StatusUnauthorized,

	// missing resources -> 404
	ErrCodeNotFound:     http.StatusNotFound,
	"VARIANT_NOT_FOUND": http.StatusNotFound,
	"IMAGE_NOT_FOUND":   http.StatusNotFound,

	// conflicts -> 409
	"ALREADY_EXISTS":       http.StatusConflict,
	"DUPLICATE_VARIANT":    http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// business rules -> 422
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"TRACKING_REQUIRED":  http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"EMPTY_CART":         http.StatusUnprocessableEntity,
	"EMPTY_ORDER":        http.StatusUnprocessableEntity,
	"GALLERY_FULL":       http.StatusUnprocessableEntity,

	// upstream providers -> 502
	"EXTERNAL_SERVICE": http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
