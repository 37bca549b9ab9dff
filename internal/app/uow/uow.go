package uow

import (
	"context"
	"errors"

	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
)

// UnitOfWork coordinates repositories inside a transaction boundary. The
// booking-conflict check and the subsequent insert must both run through the
// same unit so no other writer can slip a conflicting booking in between.
type UnitOfWork interface {
	Hotels() domainhotel.Repository
	Bookings() domainbooking.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
	// HotelID scopes write transactions to one hotel so implementations can
	// serialize conflicting booking attempts per hotel.
	HotelID string
}

// ErrUnitOfWorkMissing is returned by handlers that require an ambient unit
// but find none on the context.
var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type ctxKey struct{}

// ContextWithUnitOfWork attaches the unit, so handler layers below the
// transaction middleware share its repositories.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

// FromContext returns the ambient unit of work, if any.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(ctxKey{}).(UnitOfWork)
	return unit, ok
}
