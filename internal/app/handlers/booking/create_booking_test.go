package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"stayfinder/internal/app/policies"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/infra/storage/memory"
)

type bookingFixture struct {
	handler  *CreateBookingHandler
	hotels   *memory.HotelRepository
	bookings *memory.BookingRepository
	payments *memory.PaymentsStore
	outbox   *memory.Outbox
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	bookings := memory.NewBookingRepository()
	hotels := memory.NewHotelRepository(bookings)
	payments := memory.NewPaymentsStore()
	box := memory.NewOutbox()

	h, err := domainhotel.New(domainhotel.CreateParams{
		ID:            "h1",
		Owner:         "owner-1",
		Name:          "Harbor View",
		Type:          "Budget",
		AdultCount:    2,
		ChildCount:    1,
		PricePerNight: 120,
		StarRating:    3,
		Address:       domainhotel.Address{Street: "1 Quay St", City: "Galway", Country: "Ireland"},
		RoomCount:     4,
		Now:           time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}
	h.ClearEvents()
	if err := hotels.Save(context.Background(), h); err != nil {
		t.Fatal(err)
	}

	payments.Register(policies.Payment{
		Ref:         "pi_ok",
		Status:      policies.PaymentSucceeded,
		AmountCents: 24000,
		HotelID:     "h1",
		UserID:      "u1",
	})

	return &bookingFixture{
		handler: &CreateBookingHandler{
			UoWFactory: memory.NewFactory(hotels, bookings),
			Payments:   payments,
			Outbox:     box,
		},
		hotels:   hotels,
		bookings: bookings,
		payments: payments,
		outbox:   box,
	}
}

func futureDay(offset int) time.Time {
	base := time.Now().UTC().AddDate(0, 1, 0)
	day := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, offset)
}

func validCommand() CreateBookingCommand {
	return CreateBookingCommand{
		CommandID:  "cmd-1",
		HotelID:    "h1",
		UserID:     "u1",
		FirstName:  "Ann",
		LastName:   "Smith",
		Email:      "ann@example.com",
		AdultCount: 2,
		ChildCount: 1,
		CheckIn:    futureDay(0),
		CheckOut:   futureDay(2),
		PaymentRef: "pi_ok",
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	fx := newBookingFixture(t)

	result, err := fx.handler.Handle(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.BookingID != "cmd-1" {
		t.Errorf("BookingID = %q", result.BookingID)
	}
	if result.TotalCost != 2*120 {
		t.Errorf("TotalCost = %d, want nights times rate", result.TotalCost)
	}

	stored, err := fx.bookings.ListByHotel(context.Background(), "h1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Fatalf("persisted %d bookings, want 1", len(stored))
	}
	if stored[0].PaymentRef != "pi_ok" {
		t.Errorf("PaymentRef = %q", stored[0].PaymentRef)
	}
	if pending := fx.outbox.Pending(); len(pending) != 1 {
		t.Errorf("outbox has %d records, want 1", len(pending))
	}
}

func TestCreateBookingGeneratesIDWhenMissing(t *testing.T) {
	fx := newBookingFixture(t)
	cmd := validCommand()
	cmd.CommandID = ""

	result, err := fx.handler.Handle(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.BookingID == "" {
		t.Error("expected a generated booking id")
	}
}

func TestCreateBookingPreconditions(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*CreateBookingCommand)
		prepare func(*bookingFixture)
		want    error
	}{
		{
			name:   "inverted range",
			mutate: func(c *CreateBookingCommand) { c.CheckIn, c.CheckOut = c.CheckOut, c.CheckIn },
			want:   daterange.ErrInvalidRange,
		},
		{
			name: "check-in in the past",
			mutate: func(c *CreateBookingCommand) {
				c.CheckIn = time.Now().UTC().AddDate(0, 0, -3)
				c.CheckOut = time.Now().UTC().AddDate(0, 0, -1)
			},
			want: domainbooking.ErrCheckInInPast,
		},
		{
			name:   "payment does not resolve",
			mutate: func(c *CreateBookingCommand) { c.PaymentRef = "pi_unknown" },
			want:   policies.ErrPaymentNotFound,
		},
		{
			name: "payment metadata mismatch",
			prepare: func(fx *bookingFixture) {
				fx.payments.Register(policies.Payment{Ref: "pi_other", Status: policies.PaymentSucceeded, HotelID: "h2", UserID: "u1"})
			},
			mutate: func(c *CreateBookingCommand) { c.PaymentRef = "pi_other" },
			want:   ErrPaymentMismatch,
		},
		{
			name: "payment not succeeded",
			prepare: func(fx *bookingFixture) {
				fx.payments.Register(policies.Payment{Ref: "pi_pending", Status: policies.PaymentPending, HotelID: "h1", UserID: "u1"})
			},
			mutate: func(c *CreateBookingCommand) { c.PaymentRef = "pi_pending" },
			want:   ErrPaymentNotSucceeded,
		},
		{
			name: "hotel missing",
			prepare: func(fx *bookingFixture) {
				fx.payments.Register(policies.Payment{Ref: "pi_gone", Status: policies.PaymentSucceeded, HotelID: "ghost", UserID: "u1"})
			},
			mutate: func(c *CreateBookingCommand) {
				c.HotelID = "ghost"
				c.PaymentRef = "pi_gone"
			},
			want: domainhotel.ErrNotFound,
		},
		{
			name:   "party over capacity",
			mutate: func(c *CreateBookingCommand) { c.AdultCount = 3 },
			want:   domainbooking.ErrOverCapacity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newBookingFixture(t)
			if tc.prepare != nil {
				tc.prepare(fx)
			}
			cmd := validCommand()
			tc.mutate(&cmd)

			if _, err := fx.handler.Handle(context.Background(), cmd); !errors.Is(err, tc.want) {
				t.Errorf("Handle error = %v, want %v", err, tc.want)
			}

			stored, err := fx.bookings.ListByHotel(context.Background(), "h1")
			if err != nil {
				t.Fatal(err)
			}
			if len(stored) != 0 {
				t.Errorf("rejected command persisted %d bookings", len(stored))
			}
			if pending := fx.outbox.Pending(); len(pending) != 0 {
				t.Errorf("rejected command queued %d events", len(pending))
			}
		})
	}
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	fx := newBookingFixture(t)

	if _, err := fx.handler.Handle(context.Background(), validCommand()); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	second := validCommand()
	second.CommandID = "cmd-2"
	second.CheckIn = futureDay(1)
	second.CheckOut = futureDay(3)
	if _, err := fx.handler.Handle(context.Background(), second); !errors.Is(err, domainbooking.ErrDateConflict) {
		t.Fatalf("overlapping booking error = %v, want date conflict", err)
	}

	stored, err := fx.bookings.ListByHotel(context.Background(), "h1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Errorf("conflicting attempt changed stored bookings: %d", len(stored))
	}
}

func TestCreateBookingConcurrentOverlapAdmitsOne(t *testing.T) {
	fx := newBookingFixture(t)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		cmd := validCommand()
		cmd.CommandID = fmt.Sprintf("cmd-%d", i)
		wg.Add(1)
		go func(cmd CreateBookingCommand) {
			defer wg.Done()
			_, err := fx.handler.Handle(context.Background(), cmd)
			results <- err
		}(cmd)
	}
	wg.Wait()
	close(results)

	succeeded, conflicted := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainbooking.ErrDateConflict):
			conflicted++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicted != attempts-1 {
		t.Errorf("succeeded=%d conflicted=%d, want exactly one winner", succeeded, conflicted)
	}

	stored, err := fx.bookings.ListByHotel(context.Background(), "h1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Errorf("persisted %d bookings, want 1", len(stored))
	}
}

func TestCreateBookingAllowsBackToBackStays(t *testing.T) {
	fx := newBookingFixture(t)

	if _, err := fx.handler.Handle(context.Background(), validCommand()); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// checkout day equals the next check-in, the intervals do not intersect
	second := validCommand()
	second.CommandID = "cmd-2"
	second.CheckIn = futureDay(2)
	second.CheckOut = futureDay(4)
	if _, err := fx.handler.Handle(context.Background(), second); err != nil {
		t.Fatalf("back-to-back booking: %v", err)
	}

	stored, err := fx.bookings.ListByHotel(context.Background(), "h1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Errorf("stored %d bookings, want 2", len(stored))
	}
}
