package me

import (
	"context"
	"errors"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/handlers/support"
	"stayfinder/internal/app/queries"
	"stayfinder/internal/app/uow"
	domainhotel "stayfinder/internal/domain/hotel"
)

const listMyBookingsKey = "me.bookings"

type ListMyBookingsQuery struct {
	UserID string
}

func (q ListMyBookingsQuery) Key() string { return listMyBookingsKey }

// ListMyBookingsHandler returns the caller's bookings together with a
// snapshot of each booked hotel. Hotels are looked up once per distinct id.
type ListMyBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListMyBookingsHandler) Handle(ctx context.Context, q ListMyBookingsQuery) (*dto.MyBookingCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Bookings().ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	hotelCache := make(map[domainhotel.HotelID]*domainhotel.Hotel, len(bookings))
	summaries := make([]dto.MyBookingSummary, 0, len(bookings))
	for _, b := range bookings {
		booked, ok := hotelCache[b.HotelID]
		if !ok {
			booked, err = unit.Hotels().ByID(ctx, b.HotelID)
			if err != nil {
				// A deleted hotel must not hide the booking itself.
				if errors.Is(err, domainhotel.ErrNotFound) {
					booked = nil
				} else {
					return nil, err
				}
			}
			hotelCache[b.HotelID] = booked
		}
		summaries = append(summaries, dto.MapMyBookingSummary(b, booked))
	}
	return &dto.MyBookingCollection{Items: summaries}, nil
}

var _ queries.Handler[ListMyBookingsQuery, *dto.MyBookingCollection] = (*ListMyBookingsHandler)(nil)
