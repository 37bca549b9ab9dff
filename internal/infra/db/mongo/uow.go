package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayfinder/internal/app/uow"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
// Repositories read the session from context, so the overlap check and the
// booking insert observe one snapshot.
type Factory struct {
	DB *mongo.Database

	HotelRepo   domainhotel.Repository
	BookingRepo domainbooking.Repository
}

// Begin starts a MongoDB session/transaction. A hotel-scoped write unit
// claims the hotel before anything else: snapshot isolation alone would let
// two overlap checks read past each other, since neither the read nor the
// booking insert touches a document the other transaction modifies.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	if opts.HotelID != "" && !opts.ReadOnly {
		if err := f.claimHotel(mongo.NewSessionContext(ctx, session), opts.HotelID); err != nil {
			_ = session.AbortTransaction(ctx)
			session.EndSession(ctx)
			return nil, err
		}
	}
	return &Unit{
		db:       f.DB,
		session:  session,
		hotels:   f.HotelRepo,
		bookings: f.BookingRepo,
	}, nil
}

// claimHotel writes the hotel document inside the open transaction so a
// concurrent transaction scoped to the same hotel aborts with a write
// conflict instead of committing a double booking. A missing hotel is not an
// error here; the handler reports it after its own lookup.
func (f Factory) claimHotel(sessCtx context.Context, hotelID string) error {
	res := f.DB.Collection("hotels").FindOneAndUpdate(
		sessCtx,
		bson.M{"_id": hotelID},
		bson.M{"$inc": bson.M{"booking_seq": 1}},
	)
	if err := res.Err(); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	return nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	hotels   domainhotel.Repository
	bookings domainbooking.Repository
}

func (u *Unit) Hotels() domainhotel.Repository { return u.hotels }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
