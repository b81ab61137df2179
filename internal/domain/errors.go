package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrNotConfigured = errors.New("database is not configured")

	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrAmbiguousItem      = errors.New("product has only variant entries, variant id is required")
	ErrCurrencyMismatch   = errors.New("currency mismatch")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductUnavailable = errors.New("product is not available")
	ErrVariantMismatch    = errors.New("variant does not belong to product")
	ErrDuplicateVariant   = errors.New("variant for this weight already exists")

	ErrEmptyCart            = errors.New("cart is empty")
	ErrPhoneRequired        = errors.New("Please enter your phone number")
	ErrAddressRequired      = errors.New("Please enter your delivery address")
	ErrSubmissionInProgress = errors.New("order submission already in progress")

	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrInvalidTheme  = errors.New("invalid theme")
)

// IsValidation reports whether err should be surfaced to the customer as-is.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidQuantity, ErrAmbiguousItem, ErrCurrencyMismatch, ErrInsufficientStock,
		ErrProductUnavailable, ErrVariantMismatch, ErrDuplicateVariant, ErrEmptyCart, ErrPhoneRequired,
		ErrAddressRequired, ErrInvalidInput, ErrInvalidStatus, ErrInvalidTheme,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
