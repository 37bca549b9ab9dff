package myhotels

import (
	"context"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/handlers/support"
	"stayfinder/internal/app/queries"
	"stayfinder/internal/app/uow"
	domainhotel "stayfinder/internal/domain/hotel"
)

const (
	listMyHotelsKey = "myhotels.list"
	getMyHotelKey   = "myhotels.get"
)

type ListMyHotelsQuery struct {
	OwnerID string
}

func (q ListMyHotelsQuery) Key() string { return listMyHotelsKey }

type GetMyHotelQuery struct {
	HotelID string
	OwnerID string
}

func (q GetMyHotelQuery) Key() string { return getMyHotelKey }

type ListMyHotelsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListMyHotelsHandler) Handle(ctx context.Context, q ListMyHotelsQuery) (*dto.HotelCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	hotels, err := unit.Hotels().ListByOwner(ctx, domainhotel.OwnerID(q.OwnerID))
	if err != nil {
		return nil, err
	}
	return &dto.HotelCollection{Items: dto.MapHotels(hotels)}, nil
}

type GetMyHotelHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetMyHotelHandler) Handle(ctx context.Context, q GetMyHotelQuery) (*dto.HotelView, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	target, err := unit.Hotels().ByID(ctx, domainhotel.HotelID(q.HotelID))
	if err != nil {
		return nil, err
	}
	if target.Owner != domainhotel.OwnerID(q.OwnerID) {
		return nil, domainhotel.ErrNotFound
	}
	view := dto.MapHotel(target)
	return &view, nil
}

var _ queries.Handler[ListMyHotelsQuery, *dto.HotelCollection] = (*ListMyHotelsHandler)(nil)
var _ queries.Handler[GetMyHotelQuery, *dto.HotelView] = (*GetMyHotelHandler)(nil)
