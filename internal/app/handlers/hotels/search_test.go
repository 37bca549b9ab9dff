package hotels

import (
	"context"
	"fmt"
	"testing"
	"time"

	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/infra/storage/memory"
)

type searchFixture struct {
	handler  *SearchHotelsHandler
	hotels   *memory.HotelRepository
	bookings *memory.BookingRepository
}

func newSearchFixture() *searchFixture {
	bookings := memory.NewBookingRepository()
	hotels := memory.NewHotelRepository(bookings)
	return &searchFixture{
		handler:  &SearchHotelsHandler{UoWFactory: memory.NewFactory(hotels, bookings)},
		hotels:   hotels,
		bookings: bookings,
	}
}

func (fx *searchFixture) addHotel(t *testing.T, id, city string, price int64, stars int, updated time.Time) {
	t.Helper()
	h, err := domainhotel.New(domainhotel.CreateParams{
		ID:            domainhotel.HotelID(id),
		Owner:         "owner-1",
		Name:          "Hotel " + id,
		Type:          "Budget",
		AdultCount:    2,
		ChildCount:    1,
		PricePerNight: price,
		StarRating:    stars,
		Address:       domainhotel.Address{Street: "1 Main St", City: city, Country: "Ireland"},
		RoomCount:     2,
		Now:           updated,
	})
	if err != nil {
		t.Fatal(err)
	}
	h.ClearEvents()
	if err := fx.hotels.Save(context.Background(), h); err != nil {
		t.Fatal(err)
	}
}

func (fx *searchFixture) addBooking(t *testing.T, id, hotelID string, in, out time.Time) {
	t.Helper()
	dr, err := daterange.New(in, out)
	if err != nil {
		t.Fatal(err)
	}
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(id),
		HotelID:    domainhotel.HotelID(hotelID),
		UserID:     "u1",
		FirstName:  "Ann",
		LastName:   "Smith",
		Email:      "ann@example.com",
		AdultCount: 1,
		Range:      dr,
		TotalCost:  100,
		PaymentRef: "pi_test",
		CreatedAt:  in,
	})
	if err != nil {
		t.Fatal(err)
	}
	b.ClearEvents()
	if err := fx.bookings.Insert(context.Background(), b); err != nil {
		t.Fatal(err)
	}
}

func TestSearchHotelsPaginatesAndSorts(t *testing.T) {
	fx := newSearchFixture()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		fx.addHotel(t, fmt.Sprintf("h%d", i), "Dublin", int64(100+i*10), 3, base.Add(time.Duration(i)*time.Hour))
	}

	page1, err := fx.handler.Handle(context.Background(), SearchHotelsQuery{Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page1.Data) != 5 {
		t.Errorf("page 1 carries %d hotels", len(page1.Data))
	}
	if page1.Pagination.TotalHotelNum != 6 || page1.Pagination.Pages != 2 || page1.Pagination.Page != 1 {
		t.Errorf("pagination = %+v", page1.Pagination)
	}
	// default ordering is most recently updated first
	if page1.Data[0].ID != "h5" {
		t.Errorf("first hotel = %s, want most recently updated", page1.Data[0].ID)
	}

	page2, err := fx.handler.Handle(context.Background(), SearchHotelsQuery{Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page2.Data) != 1 || page2.Pagination.Page != 2 {
		t.Errorf("page 2 carries %d hotels, page %d", len(page2.Data), page2.Pagination.Page)
	}

	asc, err := fx.handler.Handle(context.Background(), SearchHotelsQuery{Sort: "pricePerNightAsc"})
	if err != nil {
		t.Fatal(err)
	}
	if asc.Data[0].ID != "h0" {
		t.Errorf("cheapest first, got %s", asc.Data[0].ID)
	}
}

func TestSearchHotelsNormalizesInput(t *testing.T) {
	fx := newSearchFixture()
	fx.addHotel(t, "dub", "Dublin", 100, 3, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	// page 0, padded destination and an unknown sort all fall back to defaults
	result, err := fx.handler.Handle(context.Background(), SearchHotelsQuery{
		Destination: "  dubLIN  ",
		Sort:        "bogus",
		Page:        0,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Page != 1 || result.Pagination.TotalHotelNum != 1 {
		t.Errorf("pagination = %+v", result.Pagination)
	}
	if len(result.Data) != 1 || result.Data[0].ID != "dub" {
		t.Errorf("data = %+v", result.Data)
	}
}

func TestSearchHotelsAvailabilityWindow(t *testing.T) {
	fx := newSearchFixture()
	updated := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fx.addHotel(t, "busy", "Dublin", 100, 3, updated)
	fx.addHotel(t, "free", "Dublin", 100, 3, updated)

	day := func(d int) time.Time { return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC) }
	fx.addBooking(t, "b1", "busy", day(10), day(15))

	result, err := fx.handler.Handle(context.Background(), SearchHotelsQuery{
		CheckIn:  day(12),
		CheckOut: day(14),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Pagination.TotalHotelNum != 1 {
		t.Fatalf("availability total = %d", result.Pagination.TotalHotelNum)
	}
	if result.Data[0].ID != "free" {
		t.Errorf("expected only the free hotel, got %s", result.Data[0].ID)
	}

	// a window missing one bound filters nothing
	open, err := fx.handler.Handle(context.Background(), SearchHotelsQuery{CheckIn: day(12)})
	if err != nil {
		t.Fatal(err)
	}
	if open.Pagination.TotalHotelNum != 2 {
		t.Errorf("half-specified window total = %d", open.Pagination.TotalHotelNum)
	}
}
