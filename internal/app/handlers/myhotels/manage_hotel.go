package myhotels

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stayfinder/internal/app/commands"
	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/handlers/support"
	"stayfinder/internal/app/outbox"
	"stayfinder/internal/app/uow"
	domainhotel "stayfinder/internal/domain/hotel"
)

const (
	createHotelKey = "myhotels.create"
	updateHotelKey = "myhotels.update"
)

// HotelAttributes carries the owner-editable fields shared by create and
// update.
type HotelAttributes struct {
	Name          string
	Description   string
	Type          string
	AdultCount    int
	ChildCount    int
	Facilities    []string
	PricePerNight int64
	StarRating    int
	ImageURLs     []string
	Street        string
	City          string
	Country       string
	RoomCount     int
}

type CreateHotelCommand struct {
	OwnerID string
	HotelAttributes
}

func (c CreateHotelCommand) Key() string { return createHotelKey }

type UpdateHotelCommand struct {
	HotelID string
	OwnerID string
	HotelAttributes
}

func (c UpdateHotelCommand) Key() string { return updateHotelKey }

// HotelScope serializes updates against bookings targeting the same hotel.
func (c UpdateHotelCommand) HotelScope() string { return c.HotelID }

type CreateHotelHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Clock      func() time.Time
}

func (h *CreateHotelHandler) Handle(ctx context.Context, cmd CreateHotelCommand) (*dto.HotelView, error) {
	unit, ctx, tx, err := support.BeginWriteUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.RollbackUnlessCommitted(ctx)

	created, err := domainhotel.New(domainhotel.CreateParams{
		ID:            domainhotel.HotelID(uuid.NewString()),
		Owner:         domainhotel.OwnerID(cmd.OwnerID),
		Name:          cmd.Name,
		Description:   cmd.Description,
		Type:          cmd.Type,
		AdultCount:    cmd.AdultCount,
		ChildCount:    cmd.ChildCount,
		Facilities:    cmd.Facilities,
		PricePerNight: cmd.PricePerNight,
		StarRating:    cmd.StarRating,
		ImageURLs:     cmd.ImageURLs,
		Address:       domainhotel.Address{Street: cmd.Street, City: cmd.City, Country: cmd.Country},
		RoomCount:     cmd.RoomCount,
		Now:           h.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Hotels().Save(ctx, created); err != nil {
		return nil, err
	}

	pending := created.PendingEvents()
	created.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, nil, pending); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	view := dto.MapHotel(created)
	return &view, nil
}

func (h *CreateHotelHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now().UTC()
}

type UpdateHotelHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Clock      func() time.Time
}

func (h *UpdateHotelHandler) Handle(ctx context.Context, cmd UpdateHotelCommand) (*dto.HotelView, error) {
	unit, ctx, tx, err := support.BeginWriteUnit(ctx, h.UoWFactory, uow.TxOptions{HotelID: cmd.HotelID})
	if err != nil {
		return nil, err
	}
	defer tx.RollbackUnlessCommitted(ctx)

	target, err := unit.Hotels().ByID(ctx, domainhotel.HotelID(cmd.HotelID))
	if err != nil {
		return nil, err
	}
	// Owner mismatch is indistinguishable from a missing hotel on purpose.
	if target.Owner != domainhotel.OwnerID(cmd.OwnerID) {
		return nil, domainhotel.ErrNotFound
	}

	if err := target.UpdateAttributes(domainhotel.UpdateParams{
		Name:          cmd.Name,
		Description:   cmd.Description,
		Type:          cmd.Type,
		AdultCount:    cmd.AdultCount,
		ChildCount:    cmd.ChildCount,
		Facilities:    cmd.Facilities,
		PricePerNight: cmd.PricePerNight,
		StarRating:    cmd.StarRating,
		ImageURLs:     cmd.ImageURLs,
		Address:       domainhotel.Address{Street: cmd.Street, City: cmd.City, Country: cmd.Country},
		RoomCount:     cmd.RoomCount,
		Now:           h.now(),
	}); err != nil {
		return nil, err
	}
	if err := unit.Hotels().Save(ctx, target); err != nil {
		return nil, err
	}

	pending := target.PendingEvents()
	target.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, nil, pending); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	view := dto.MapHotel(target)
	return &view, nil
}

func (h *UpdateHotelHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateHotelCommand, *dto.HotelView] = (*CreateHotelHandler)(nil)
var _ commands.Handler[UpdateHotelCommand, *dto.HotelView] = (*UpdateHotelHandler)(nil)
