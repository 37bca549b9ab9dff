package booking

import (
	"stayfinder/internal/app/middleware"
	"stayfinder/internal/app/policies"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	domainrange "stayfinder/internal/domain/shared/daterange"
)

// ReplayCatalog registers the booking flow's rejection sentinels, so a
// retried request replays its original rejection rather than an anonymous
// failure.
func ReplayCatalog() *middleware.FailureCatalog {
	return middleware.NewFailureCatalog().
		Register("booking/date-conflict", domainbooking.ErrDateConflict).
		Register("booking/check-in-past", domainbooking.ErrCheckInInPast).
		Register("booking/over-capacity", domainbooking.ErrOverCapacity).
		Register("booking/guest-required", domainbooking.ErrGuestRequired).
		Register("booking/invalid-adults", domainbooking.ErrInvalidAdults).
		Register("booking/invalid-children", domainbooking.ErrInvalidChilds).
		Register("booking/payment-missing", domainbooking.ErrPaymentMissing).
		Register("booking/invalid-range", domainrange.ErrInvalidRange).
		Register("hotel/not-found", domainhotel.ErrNotFound).
		Register("payment/not-found", policies.ErrPaymentNotFound).
		Register("payment/mismatch", ErrPaymentMismatch).
		Register("payment/not-succeeded", ErrPaymentNotSucceeded)
}
