package dto

import (
	"time"

	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
)

// BookingView is the wire representation of a booking record.
type BookingView struct {
	ID         string    `json:"id"`
	HotelID    string    `json:"hotelId"`
	UserID     string    `json:"userId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	AdultCount int       `json:"adultCount"`
	ChildCount int       `json:"childCount"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	TotalCost  int64     `json:"totalCost"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MyBookingSummary joins a booking with a snapshot of its hotel.
type MyBookingSummary struct {
	Booking BookingView `json:"booking"`
	Hotel   *HotelView  `json:"hotel"`
}

type MyBookingCollection struct {
	Items []MyBookingSummary `json:"items"`
}

func MapBooking(b *domainbooking.Booking) BookingView {
	if b == nil {
		return BookingView{}
	}
	return BookingView{
		ID:         string(b.ID),
		HotelID:    string(b.HotelID),
		UserID:     b.UserID,
		FirstName:  b.FirstName,
		LastName:   b.LastName,
		Email:      b.Email,
		AdultCount: b.AdultCount,
		ChildCount: b.ChildCount,
		CheckIn:    b.Range.CheckIn,
		CheckOut:   b.Range.CheckOut,
		TotalCost:  b.TotalCost,
		CreatedAt:  b.CreatedAt,
	}
}

func MapMyBookingSummary(b *domainbooking.Booking, h *domainhotel.Hotel) MyBookingSummary {
	summary := MyBookingSummary{Booking: MapBooking(b)}
	if h != nil {
		view := MapHotel(h)
		summary.Hotel = &view
	}
	return summary
}
