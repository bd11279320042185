package booking

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrClassNotFound       = errors.New("class not found")
	ErrClassNotAvailable   = errors.New("class not open for booking")
	ErrCapacityFull        = errors.New("class is full")
	ErrDuplicateBooking    = errors.New("user already has a reservation for this class")
	ErrAmountMismatch      = errors.New("amount does not match class price")
	ErrPaymentNotSucceeded = errors.New("payment has not succeeded")
	ErrMetadataMismatch    = errors.New("payment intent does not belong to this booking")

	// ErrConfirmationFailed is the opaque error for infrastructure
	// failures. Details go to the log, never to the client.
	ErrConfirmationFailed = errors.New("confirmation failed")
)
