package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stayfinder/internal/app/commands"
	"stayfinder/internal/app/handlers/support"
	"stayfinder/internal/app/middleware"
	"stayfinder/internal/app/outbox"
	"stayfinder/internal/app/policies"
	"stayfinder/internal/app/uow"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	domainrange "stayfinder/internal/domain/shared/daterange"
)

const createBookingKey = "booking.create"

var (
	// ErrPaymentMismatch is returned when the payment's recorded metadata does
	// not match the target hotel and the authenticated caller.
	ErrPaymentMismatch = errors.New("booking: payment reference does not match hotel and user")
	// ErrPaymentNotSucceeded is returned when the payment resolved but is not
	// in the succeeded state.
	ErrPaymentNotSucceeded = errors.New("booking: payment not succeeded")
)

type CreateBookingCommand struct {
	CommandID  string
	HotelID    string
	UserID     string
	FirstName  string
	LastName   string
	Email      string
	AdultCount int
	ChildCount int
	CheckIn    time.Time
	CheckOut   time.Time
	PaymentRef string
	RequestKey string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.RequestKey }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

// HotelScope serializes conflicting booking attempts for the same hotel.
func (c CreateBookingCommand) HotelScope() string { return c.HotelID }

type CreateBookingResult struct {
	BookingID  string    `json:"bookingId"`
	HotelID    string    `json:"hotelId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	TotalCost  int64     `json:"totalCost"`
	PaymentRef string    `json:"paymentRef"`
}

// CreateBookingHandler is the final gate before a booking is persisted. The
// overlap check and the insert run inside one unit of work so concurrent
// requests for the same hotel cannot both pass the check.
type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Payments   policies.PaymentsPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	unit, ctx, tx, err := support.BeginWriteUnit(ctx, h.UoWFactory, uow.TxOptions{HotelID: cmd.HotelID})
	if err != nil {
		return nil, err
	}
	defer tx.RollbackUnlessCommitted(ctx)

	dr, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := domainbooking.ValidateDateRange(dr, now); err != nil {
		return nil, err
	}

	if h.Payments == nil {
		return nil, errors.New("booking: payments port not configured")
	}
	payment, err := h.Payments.Retrieve(ctx, cmd.PaymentRef)
	if err != nil {
		return nil, err
	}
	if payment.HotelID != cmd.HotelID || payment.UserID != cmd.UserID {
		return nil, ErrPaymentMismatch
	}
	if payment.Status != policies.PaymentSucceeded {
		return nil, fmt.Errorf("%w: status %s", ErrPaymentNotSucceeded, payment.Status)
	}

	target, err := unit.Hotels().ByID(ctx, domainhotel.HotelID(cmd.HotelID))
	if err != nil {
		return nil, err
	}
	if !target.FitsOccupancy(cmd.AdultCount, cmd.ChildCount) {
		return nil, domainbooking.ErrOverCapacity
	}

	// The conflict check must stay adjacent to the insert; both run inside
	// the unit's transaction.
	conflict, err := unit.Bookings().AnyOverlapping(ctx, target.ID, dr)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, domainbooking.ErrDateConflict
	}

	bookingID := cmd.CommandID
	if bookingID == "" {
		bookingID = uuid.NewString()
	}
	totalCost := int64(dr.Nights()) * target.PricePerNight
	created, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(bookingID),
		HotelID:    target.ID,
		UserID:     cmd.UserID,
		FirstName:  cmd.FirstName,
		LastName:   cmd.LastName,
		Email:      cmd.Email,
		AdultCount: cmd.AdultCount,
		ChildCount: cmd.ChildCount,
		Range:      dr,
		TotalCost:  totalCost,
		PaymentRef: cmd.PaymentRef,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Insert(ctx, created); err != nil {
		return nil, err
	}

	pending := created.PendingEvents()
	created.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &CreateBookingResult{
		BookingID:  string(created.ID),
		HotelID:    string(created.HotelID),
		CheckIn:    created.Range.CheckIn,
		CheckOut:   created.Range.CheckOut,
		TotalCost:  created.TotalCost,
		PaymentRef: created.PaymentRef,
	}, nil
}

func (h *CreateBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
var _ middleware.HotelScopedCommand = (*CreateBookingCommand)(nil)
