package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayfinder/internal/app/commands"
	bookingapp "stayfinder/internal/app/handlers/booking"
	"stayfinder/internal/app/policies"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
)

type BookingHandler struct {
	Commands commands.Bus
}

type createBookingRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	AdultCount      int    `json:"adultCount"`
	ChildCount      int    `json:"childCount"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	PaymentIntentID string `json:"paymentIntentId"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bookings unavailable"})
		return
	}
	hotelID := c.Param("hotelID")
	if hotelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hotel id is required"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, okIn := parseFlexibleTime(req.CheckIn)
	checkOut, okOut := parseFlexibleTime(req.CheckOut)
	if !okIn || !okOut {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkIn and checkOut are required dates"})
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		CommandID:  uuid.NewString(),
		HotelID:    hotelID,
		UserID:     user.ID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		AdultCount: req.AdultCount,
		ChildCount: req.ChildCount,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		PaymentRef: req.PaymentIntentID,
		RequestKey: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		c.JSON(bookingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// bookingErrorStatus keeps the precondition failures distinguishable for
// clients.
func bookingErrorStatus(err error) int {
	switch {
	case errors.Is(err, domainbooking.ErrDateConflict):
		return http.StatusConflict
	case errors.Is(err, domainhotel.ErrNotFound),
		errors.Is(err, policies.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, bookingapp.ErrPaymentNotSucceeded):
		return http.StatusPaymentRequired
	case errors.Is(err, bookingapp.ErrPaymentMismatch):
		return http.StatusForbidden
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrCheckInInPast),
		errors.Is(err, domainbooking.ErrOverCapacity),
		errors.Is(err, domainbooking.ErrGuestRequired),
		errors.Is(err, domainbooking.ErrInvalidAdults),
		errors.Is(err, domainbooking.ErrInvalidChilds),
		errors.Is(err, domainbooking.ErrPaymentMissing):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var _ BookingHTTP = BookingHandler{}
