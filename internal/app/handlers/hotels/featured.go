package hotels

import (
	"context"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/handlers/support"
	"stayfinder/internal/app/queries"
	"stayfinder/internal/app/uow"
)

const (
	latestHotelsKey  = "hotels.latest"
	popularHotelsKey = "hotels.popular"

	featuredLimit = 5
)

type LatestHotelsQuery struct{}

func (q LatestHotelsQuery) Key() string { return latestHotelsKey }

// LatestHotelsHandler returns the most recently updated hotels for the
// landing page carousel.
type LatestHotelsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *LatestHotelsHandler) Handle(ctx context.Context, q LatestHotelsQuery) (dto.HotelCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HotelCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	hotels, err := unit.Hotels().LatestUpdated(execCtx, featuredLimit)
	if err != nil {
		return dto.HotelCollection{}, err
	}
	return dto.HotelCollection{Items: dto.MapHotels(hotels)}, nil
}

type PopularHotelsQuery struct{}

func (q PopularHotelsQuery) Key() string { return popularHotelsKey }

// PopularHotelsHandler ranks hotels by how many bookings they carry.
type PopularHotelsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *PopularHotelsHandler) Handle(ctx context.Context, q PopularHotelsQuery) (dto.HotelCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HotelCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	hotels, err := unit.Hotels().MostBooked(execCtx, featuredLimit)
	if err != nil {
		return dto.HotelCollection{}, err
	}
	return dto.HotelCollection{Items: dto.MapHotels(hotels)}, nil
}

var _ queries.Handler[LatestHotelsQuery, dto.HotelCollection] = (*LatestHotelsHandler)(nil)
var _ queries.Handler[PopularHotelsQuery, dto.HotelCollection] = (*PopularHotelsHandler)(nil)
