package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_FAILED"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeCartChanged       = "CART_CHANGED"
	ErrCodeVoucherNotFound   = "VOUCHER_NOT_FOUND"
	ErrCodeVoucherExpired    = "VOUCHER_EXPIRED"
	ErrCodeAddressNotFound   = "ADDRESS_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeInvalidPostalCode = "INVALID_POSTAL_CODE"
	ErrCodeInvalidLocation   = "INVALID_LOCATION"
	ErrCodeUnknownSection    = "UNKNOWN_SECTION"
	ErrCodeMissingUser       = "MISSING_USER"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be between 1 and 99")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrCartChanged       = NewDomainError(ErrCodeCartChanged, "Cart changed during checkout, please review it and retry")
	ErrVoucherNotFound   = NewDomainError(ErrCodeVoucherNotFound, "Voucher does not exist")
	ErrVoucherExpired    = NewDomainError(ErrCodeVoucherExpired, "Voucher has expired")
	ErrAddressNotFound   = NewDomainError(ErrCodeAddressNotFound, "Address not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidPostalCode = NewDomainError(ErrCodeInvalidPostalCode, "Postal code must be a valid 6 digit PIN")
	ErrInvalidLocation   = NewDomainError(ErrCodeInvalidLocation, "Location must be a valid latitude and longitude")
	ErrUnknownSection    = NewDomainError(ErrCodeUnknownSection, "Unknown content section")
	ErrMissingUser       = NewDomainError(ErrCodeMissingUser, "X-User-ID header must carry a valid user ID")
)
