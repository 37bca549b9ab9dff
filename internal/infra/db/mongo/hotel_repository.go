package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhotel "stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type HotelRepository struct {
	col      *mongo.Collection
	bookings *mongo.Collection
}

func NewHotelRepository(db *mongo.Database) *HotelRepository {
	return &HotelRepository{
		col:      db.Collection("hotels"),
		bookings: db.Collection("bookings"),
	}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.HotelID) (*domainhotel.Hotel, error) {
	var doc hotelDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainhotel.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	doc := newHotelDocument(h)
	filter := bson.M{"_id": doc.ID, "version": h.Version}
	doc.Version = h.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	h.Version = doc.Version
	return nil
}

// Search runs one aggregation that filters, joins bookings for the
// availability window, sorts and paginates. The total is counted after the
// availability stage so page math matches what the client can actually book.
func (r *HotelRepository) Search(ctx context.Context, params domainhotel.SearchParams) (domainhotel.SearchResult, error) {
	opts := params.Normalized()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: buildMatch(opts)}},
	}
	if window, ok := opts.Window(); ok {
		pipeline = append(pipeline, availabilityStages(window)...)
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: sortSpec(opts.Sort)}},
		bson.D{{Key: "$facet", Value: bson.M{
			"data": bson.A{
				bson.M{"$skip": (opts.Page - 1) * domainhotel.PageSize},
				bson.M{"$limit": domainhotel.PageSize},
			},
			"total": bson.A{bson.M{"$count": "count"}},
		}}},
	)

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return domainhotel.SearchResult{}, err
	}
	defer cursor.Close(ctx)

	var pages []struct {
		Data  []hotelDocument `bson:"data"`
		Total []struct {
			Count int `bson:"count"`
		} `bson:"total"`
	}
	if err := cursor.All(ctx, &pages); err != nil {
		return domainhotel.SearchResult{}, err
	}
	result := domainhotel.SearchResult{}
	if len(pages) == 0 {
		return result, nil
	}
	for _, doc := range pages[0].Data {
		result.Items = append(result.Items, doc.toAggregate())
	}
	if len(pages[0].Total) > 0 {
		result.Total = pages[0].Total[0].Count
	}
	return result, nil
}

func (r *HotelRepository) ListByOwner(ctx context.Context, owner domainhotel.OwnerID) ([]*domainhotel.Hotel, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "last_updated", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"owner_id": string(owner)}, findOpts)
	if err != nil {
		return nil, err
	}
	return decodeHotels(ctx, cursor)
}

func (r *HotelRepository) LatestUpdated(ctx context.Context, limit int) ([]*domainhotel.Hotel, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "last_updated", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := r.col.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	return decodeHotels(ctx, cursor)
}

// MostBooked ranks hotels by booking volume, counting on the bookings
// collection and joining hotel documents back in.
func (r *HotelRepository) MostBooked(ctx context.Context, limit int) ([]*domainhotel.Hotel, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{"_id": "$hotel_id", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "hotels",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "hotel",
		}}},
		bson.D{{Key: "$unwind", Value: "$hotel"}},
		bson.D{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$hotel"}}},
	}
	cursor, err := r.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return decodeHotels(ctx, cursor)
}

// buildMatch translates the typed predicate clauses into one $match document.
// Clause variants combine with AND; the destination text group stays a nested
// $or.
func buildMatch(opts domainhotel.SearchParams) bson.M {
	match := bson.M{}
	for _, clause := range opts.Clauses() {
		switch c := clause.(type) {
		case domainhotel.TextMatchAny:
			pattern := primitive.Regex{Pattern: regexp.QuoteMeta(c.Needle), Options: "i"}
			group := make(bson.A, 0, len(c.Fields))
			for _, f := range c.Fields {
				group = append(group, bson.M{fieldPath(f): pattern})
			}
			match["$or"] = group
		case domainhotel.MinInt:
			match[fieldPath(c.Field)] = bson.M{"$gte": c.Value}
		case domainhotel.MaxInt:
			match[fieldPath(c.Field)] = bson.M{"$lte": c.Value}
		case domainhotel.AnyOfText:
			match[fieldPath(c.Field)] = bson.M{"$in": foldCase(c.Values)}
		case domainhotel.AnyOfInt:
			match[fieldPath(c.Field)] = bson.M{"$in": c.Values}
		case domainhotel.ContainsAll:
			match[fieldPath(c.Field)] = bson.M{"$all": foldCase(c.Values)}
		}
	}
	return match
}

// foldCase turns text set members into anchored case-insensitive patterns,
// so stored values match regardless of casing, the same way the in-memory
// store compares them.
func foldCase(values []string) bson.A {
	out := make(bson.A, 0, len(values))
	for _, v := range values {
		out = append(out, primitive.Regex{Pattern: "^" + regexp.QuoteMeta(v) + "$", Options: "i"})
	}
	return out
}

func fieldPath(f domainhotel.Field) string {
	switch f {
	case domainhotel.FieldStreet:
		return "address.street"
	case domainhotel.FieldCity:
		return "address.city"
	case domainhotel.FieldCountry:
		return "address.country"
	case domainhotel.FieldAdultCount:
		return "adult_count"
	case domainhotel.FieldChildCount:
		return "child_count"
	case domainhotel.FieldFacilities:
		return "facilities"
	case domainhotel.FieldType:
		return "type"
	case domainhotel.FieldStarRating:
		return "star_rating"
	case domainhotel.FieldPricePerNight:
		return "price_per_night"
	default:
		return string(f)
	}
}

// availabilityStages drops hotels that carry a booking overlapping the
// requested half-open window. Strict comparisons let back-to-back stays share
// a boundary day.
func availabilityStages(window daterange.DateRange) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from": "bookings",
			"let":  bson.M{"hid": "$_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$hotel_id", "$$hid"}},
					bson.M{"$lt": bson.A{"$range.check_in", window.CheckOut.UnixMilli()}},
					bson.M{"$gt": bson.A{"$range.check_out", window.CheckIn.UnixMilli()}},
				}}}},
				bson.M{"$limit": 1},
			},
			"as": "conflicts",
		}}},
		{{Key: "$match", Value: bson.M{"conflicts": bson.M{"$size": 0}}}},
	}
}

func sortSpec(order domainhotel.SearchSort) bson.D {
	switch order {
	case domainhotel.SortByStarRating:
		return bson.D{{Key: "star_rating", Value: -1}, {Key: "_id", Value: 1}}
	case domainhotel.SortByPriceAsc:
		return bson.D{{Key: "price_per_night", Value: 1}, {Key: "_id", Value: 1}}
	case domainhotel.SortByPriceDesc:
		return bson.D{{Key: "price_per_night", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "last_updated", Value: -1}, {Key: "_id", Value: 1}}
	}
}

func decodeHotels(ctx context.Context, cursor *mongo.Cursor) ([]*domainhotel.Hotel, error) {
	defer cursor.Close(ctx)
	var out []*domainhotel.Hotel
	for cursor.Next(ctx) {
		var doc hotelDocument
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

type hotelDocument struct {
	ID            string          `bson:"_id"`
	OwnerID       string          `bson:"owner_id"`
	Name          string          `bson:"name"`
	Description   string          `bson:"description"`
	Type          string          `bson:"type"`
	AdultCount    int             `bson:"adult_count"`
	ChildCount    int             `bson:"child_count"`
	Facilities    []string        `bson:"facilities"`
	PricePerNight int64           `bson:"price_per_night"`
	StarRating    int             `bson:"star_rating"`
	ImageURLs     []string        `bson:"image_urls"`
	Address       addressDocument `bson:"address"`
	RoomCount     int             `bson:"room_count"`
	LastUpdated   int64           `bson:"last_updated"`
	Version       int64           `bson:"version"`
}

type addressDocument struct {
	Street  string `bson:"street"`
	City    string `bson:"city"`
	Country string `bson:"country"`
}

func newHotelDocument(h *domainhotel.Hotel) hotelDocument {
	return hotelDocument{
		ID:            string(h.ID),
		OwnerID:       string(h.Owner),
		Name:          h.Name,
		Description:   h.Description,
		Type:          h.Type,
		AdultCount:    h.AdultCount,
		ChildCount:    h.ChildCount,
		Facilities:    h.Facilities,
		PricePerNight: h.PricePerNight,
		StarRating:    h.StarRating,
		ImageURLs:     h.ImageURLs,
		Address: addressDocument{
			Street:  h.Address.Street,
			City:    h.Address.City,
			Country: h.Address.Country,
		},
		RoomCount:   h.RoomCount,
		LastUpdated: h.LastUpdated.UnixMilli(),
		Version:     h.Version,
	}
}

func (d hotelDocument) toAggregate() *domainhotel.Hotel {
	return &domainhotel.Hotel{
		ID:            domainhotel.HotelID(d.ID),
		Owner:         domainhotel.OwnerID(d.OwnerID),
		Name:          d.Name,
		Description:   d.Description,
		Type:          d.Type,
		AdultCount:    d.AdultCount,
		ChildCount:    d.ChildCount,
		Facilities:    d.Facilities,
		PricePerNight: d.PricePerNight,
		StarRating:    d.StarRating,
		ImageURLs:     d.ImageURLs,
		Address: domainhotel.Address{
			Street:  d.Address.Street,
			City:    d.Address.City,
			Country: d.Address.Country,
		},
		RoomCount:   d.RoomCount,
		LastUpdated: timestampToTime(d.LastUpdated),
		Version:     d.Version,
	}
}
