package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/events"
)

var (
	ErrNotFound       = errors.New("booking: not found")
	ErrGuestRequired  = errors.New("booking: guest name and email are required")
	ErrUserRequired   = errors.New("booking: user id is required")
	ErrInvalidAdults  = errors.New("booking: adult count must be at least 1")
	ErrInvalidChilds  = errors.New("booking: child count must not be negative")
	ErrTotalCost      = errors.New("booking: total cost must be positive")
	ErrDateConflict   = errors.New("booking: dates conflict with an existing booking")
	ErrCheckInInPast  = errors.New("booking: check-in date is in the past")
	ErrOverCapacity   = errors.New("booking: party exceeds hotel occupancy capacity")
	ErrPaymentMissing = errors.New("booking: payment reference is required")
)

type BookingID string

// Booking is a confirmed reservation of one hotel for a contiguous date
// range. It is immutable once persisted.
type Booking struct {
	ID         BookingID
	HotelID    hotel.HotelID
	UserID     string
	FirstName  string
	LastName   string
	Email      string
	AdultCount int
	ChildCount int
	Range      daterange.DateRange
	TotalCost  int64
	PaymentRef string
	CreatedAt  time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// Insert persists a new booking. Implementations must never overwrite an
	// existing record.
	Insert(ctx context.Context, b *Booking) error
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)
	ListByHotel(ctx context.Context, hotelID hotel.HotelID) ([]*Booking, error)
	// AnyOverlapping reports whether the hotel has a booking whose half-open
	// interval intersects dr.
	AnyOverlapping(ctx context.Context, hotelID hotel.HotelID, dr daterange.DateRange) (bool, error)
}

type CreateParams struct {
	ID         BookingID
	HotelID    hotel.HotelID
	UserID     string
	FirstName  string
	LastName   string
	Email      string
	AdultCount int
	ChildCount int
	Range      daterange.DateRange
	TotalCost  int64
	PaymentRef string
	CreatedAt  time.Time
}

func New(params CreateParams) (*Booking, error) {
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.UserID) == "" {
		return nil, ErrUserRequired
	}
	if strings.TrimSpace(params.FirstName) == "" || strings.TrimSpace(params.LastName) == "" || strings.TrimSpace(params.Email) == "" {
		return nil, ErrGuestRequired
	}
	if params.AdultCount < 1 {
		return nil, ErrInvalidAdults
	}
	if params.ChildCount < 0 {
		return nil, ErrInvalidChilds
	}
	if params.TotalCost <= 0 {
		return nil, ErrTotalCost
	}
	if strings.TrimSpace(params.PaymentRef) == "" {
		return nil, ErrPaymentMissing
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:         params.ID,
		HotelID:    params.HotelID,
		UserID:     params.UserID,
		FirstName:  strings.TrimSpace(params.FirstName),
		LastName:   strings.TrimSpace(params.LastName),
		Email:      strings.TrimSpace(params.Email),
		AdultCount: params.AdultCount,
		ChildCount: params.ChildCount,
		Range:      params.Range,
		TotalCost:  params.TotalCost,
		PaymentRef: params.PaymentRef,
		CreatedAt:  now,
	}
	b.Record(BookingCreated{BookingID: b.ID, HotelID: b.HotelID, UserID: b.UserID, Range: b.Range, TotalCost: b.TotalCost, At: now})
	return b, nil
}

// ValidateDateRange rejects stays that start before today.
func ValidateDateRange(dr daterange.DateRange, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dr.CheckIn.Before(today) {
		return ErrCheckInInPast
	}
	return nil
}
