package hotels

import (
	"context"
	"errors"
	"strings"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/handlers/support"
	"stayfinder/internal/app/queries"
	"stayfinder/internal/app/uow"
	domainhotel "stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
)

const getHotelDetailKey = "hotels.detail"

type GetHotelDetailQuery struct {
	HotelID string
}

func (q GetHotelDetailQuery) Key() string { return getHotelDetailKey }

// GetHotelDetailHandler loads one hotel together with the busy intervals of
// its existing bookings, for the booking date picker.
type GetHotelDetailHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetHotelDetailHandler) Handle(ctx context.Context, q GetHotelDetailQuery) (dto.HotelDetail, error) {
	hotelID := strings.TrimSpace(q.HotelID)
	if hotelID == "" {
		return dto.HotelDetail{}, errors.New("hotel id is required")
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HotelDetail{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	found, err := unit.Hotels().ByID(execCtx, domainhotel.HotelID(hotelID))
	if err != nil {
		return dto.HotelDetail{}, err
	}

	bookings, err := unit.Bookings().ListByHotel(execCtx, found.ID)
	if err != nil {
		return dto.HotelDetail{}, err
	}
	busy := make([]daterange.DateRange, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, b.Range)
	}

	return dto.HotelDetail{
		Hotel:                dto.MapHotel(found),
		ExcludeDateIntervals: dto.MapBusyIntervals(busy),
	}, nil
}

var _ queries.Handler[GetHotelDetailQuery, dto.HotelDetail] = (*GetHotelDetailHandler)(nil)
