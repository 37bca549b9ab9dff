package booking

import (
	"time"

	"stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
)

type BookingCreated struct {
	BookingID BookingID
	HotelID   hotel.HotelID
	UserID    string
	Range     daterange.DateRange
	TotalCost int64
	At        time.Time
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }
