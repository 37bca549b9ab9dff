package memory

import (
	"context"
	"errors"
	"sync"

	"stayfinder/internal/app/uow"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary. Write
// units scoped to a hotel take that hotel's lock, which serializes the
// conflict check against concurrent booking attempts.
type Factory struct {
	HotelRepo   domainhotel.Repository
	BookingRepo domainbooking.Repository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFactory(hotels domainhotel.Repository, bookings domainbooking.Repository) *Factory {
	return &Factory{
		HotelRepo:   hotels,
		BookingRepo: bookings,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.HotelRepo == nil || f.BookingRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	unit := &Unit{hotels: f.HotelRepo, bookings: f.BookingRepo}
	if opts.HotelID != "" && !opts.ReadOnly {
		lock := f.hotelLock(opts.HotelID)
		lock.Lock()
		unit.release = lock.Unlock
	}
	return unit, nil
}

func (f *Factory) hotelLock(hotelID string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks == nil {
		f.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := f.locks[hotelID]
	if !ok {
		lock = &sync.Mutex{}
		f.locks[hotelID] = lock
	}
	return lock
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores. Commit and
// Rollback only release the per-hotel lock; writes apply immediately.
type Unit struct {
	hotels   domainhotel.Repository
	bookings domainbooking.Repository

	once    sync.Once
	release func()
}

func (u *Unit) Hotels() domainhotel.Repository { return u.hotels }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Commit(ctx context.Context) error {
	u.unlock()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.unlock()
	return nil
}

func (u *Unit) unlock() {
	u.once.Do(func() {
		if u.release != nil {
			u.release()
		}
	})
}

var _ uow.UoWFactory = (*Factory)(nil)
var _ uow.UnitOfWork = (*Unit)(nil)
