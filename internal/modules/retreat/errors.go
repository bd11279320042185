package retreat

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrRetreatNotFound     = errors.New("retreat not found")
	ErrRetreatNotAvailable = errors.New("retreat not open for booking")
	ErrCapacityFull        = errors.New("retreat is full")
	ErrDuplicateBooking    = errors.New("user already holds a spot on this retreat")
	ErrAmountMismatch      = errors.New("amount does not match deposit price")
	ErrPaymentNotSucceeded = errors.New("payment has not succeeded")
	ErrMetadataMismatch    = errors.New("payment intent does not belong to this booking")
	ErrBookingNotFound     = errors.New("no booking found for this retreat")

	// ErrAlreadyProcessed guards against re-confirming a booking that has
	// progressed past the deposit stage.
	ErrAlreadyProcessed = errors.New("booking is no longer awaiting a deposit")

	ErrConfirmationFailed = errors.New("confirmation failed")
)
