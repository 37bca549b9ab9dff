package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	domainrange "stayfinder/internal/domain/shared/daterange"
)

var ErrBookingExists = errors.New("mongo: booking already exists")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Insert writes a new booking. Bookings are immutable, so an id collision is
// an error rather than an upsert.
func (r *BookingRepository) Insert(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrBookingExists
		}
		return err
	}
	return nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*domainbooking.Booking, error) {
	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID domainhotel.HotelID) ([]*domainbooking.Booking, error) {
	cursor, err := r.col.Find(ctx, bson.M{"hotel_id": string(hotelID)})
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

// AnyOverlapping matches the half-open interval rule: stays that merely touch
// at a boundary do not conflict, so the comparisons are strict.
func (r *BookingRepository) AnyOverlapping(ctx context.Context, hotelID domainhotel.HotelID, dr domainrange.DateRange) (bool, error) {
	filter := bson.M{
		"hotel_id":        string(hotelID),
		"range.check_in":  bson.M{"$lt": dr.CheckOut.UnixMilli()},
		"range.check_out": bson.M{"$gt": dr.CheckIn.UnixMilli()},
	}
	err := r.col.FindOne(ctx, filter).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

func decodeBookings(ctx context.Context, cursor *mongo.Cursor) ([]*domainbooking.Booking, error) {
	defer cursor.Close(ctx)
	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type bookingDocument struct {
	ID         string        `bson:"_id"`
	HotelID    string        `bson:"hotel_id"`
	UserID     string        `bson:"user_id"`
	FirstName  string        `bson:"first_name"`
	LastName   string        `bson:"last_name"`
	Email      string        `bson:"email"`
	AdultCount int           `bson:"adult_count"`
	ChildCount int           `bson:"child_count"`
	Range      rangeDocument `bson:"range"`
	TotalCost  int64         `bson:"total_cost"`
	PaymentRef string        `bson:"payment_ref"`
	CreatedAt  int64         `bson:"created_at"`
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:         string(b.ID),
		HotelID:    string(b.HotelID),
		UserID:     b.UserID,
		FirstName:  b.FirstName,
		LastName:   b.LastName,
		Email:      b.Email,
		AdultCount: b.AdultCount,
		ChildCount: b.ChildCount,
		Range:      rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
		TotalCost:  b.TotalCost,
		PaymentRef: b.PaymentRef,
		CreatedAt:  b.CreatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:         domainbooking.BookingID(d.ID),
		HotelID:    domainhotel.HotelID(d.HotelID),
		UserID:     d.UserID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		AdultCount: d.AdultCount,
		ChildCount: d.ChildCount,
		Range: domainrange.DateRange{
			CheckIn:  timestampToTime(d.Range.CheckIn),
			CheckOut: timestampToTime(d.Range.CheckOut),
		},
		TotalCost:  d.TotalCost,
		PaymentRef: d.PaymentRef,
		CreatedAt:  timestampToTime(d.CreatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
