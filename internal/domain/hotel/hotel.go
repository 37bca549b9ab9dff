package hotel

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayfinder/internal/domain/shared/events"
)

var (
	ErrNotFound         = errors.New("hotel: not found")
	ErrNameRequired     = errors.New("hotel: name is required")
	ErrOwnerRequired    = errors.New("hotel: owner is required")
	ErrUnknownType      = errors.New("hotel: unknown hotel type")
	ErrAdultCountRange  = errors.New("hotel: adult count must be between 1 and 6")
	ErrChildCountRange  = errors.New("hotel: child count must be between 0 and 2")
	ErrStarRatingRange  = errors.New("hotel: star rating must be between 1 and 5")
	ErrPriceNotPositive = errors.New("hotel: price per night must be positive")
	ErrRoomCount        = errors.New("hotel: room count must be at least 1")
	ErrAddressRequired  = errors.New("hotel: street address, city and country are required")
)

type HotelID string
type OwnerID string

// KnownTypes is the fixed vocabulary a hotel category must belong to.
var KnownTypes = []string{
	"Budget",
	"Boutique",
	"Luxury",
	"Ski Resort",
	"Business",
	"Family",
	"Romantic",
	"Hiking Resort",
	"Cabin",
	"Beach Resort",
	"Golf Resort",
	"Motel",
	"All Inclusive",
	"Pet Friendly",
	"Self Catering",
}

type Address struct {
	Street  string
	City    string
	Country string
}

func (a Address) Valid() bool {
	return strings.TrimSpace(a.Street) != "" && strings.TrimSpace(a.City) != "" && strings.TrimSpace(a.Country) != ""
}

// Hotel is a bookable property listing owned by a single user.
type Hotel struct {
	ID            HotelID
	Owner         OwnerID
	Name          string
	Description   string
	Type          string
	AdultCount    int
	ChildCount    int
	Facilities    []string
	PricePerNight int64
	StarRating    int
	ImageURLs     []string
	Address       Address
	RoomCount     int
	LastUpdated   time.Time
	Version       int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id HotelID) (*Hotel, error)
	Save(ctx context.Context, h *Hotel) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
	ListByOwner(ctx context.Context, owner OwnerID) ([]*Hotel, error)
	LatestUpdated(ctx context.Context, limit int) ([]*Hotel, error)
	MostBooked(ctx context.Context, limit int) ([]*Hotel, error)
}

type CreateParams struct {
	ID            HotelID
	Owner         OwnerID
	Name          string
	Description   string
	Type          string
	AdultCount    int
	ChildCount    int
	Facilities    []string
	PricePerNight int64
	StarRating    int
	ImageURLs     []string
	Address       Address
	RoomCount     int
	Now           time.Time
}

func New(params CreateParams) (*Hotel, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("hotel: id is required")
	}
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, ErrOwnerRequired
	}
	if err := validateAttributes(attributeSet{
		Name:          params.Name,
		Type:          params.Type,
		AdultCount:    params.AdultCount,
		ChildCount:    params.ChildCount,
		PricePerNight: params.PricePerNight,
		StarRating:    params.StarRating,
		RoomCount:     params.RoomCount,
		Address:       params.Address,
	}); err != nil {
		return nil, err
	}

	h := &Hotel{
		ID:            params.ID,
		Owner:         params.Owner,
		Name:          strings.TrimSpace(params.Name),
		Description:   strings.TrimSpace(params.Description),
		Type:          strings.TrimSpace(params.Type),
		AdultCount:    params.AdultCount,
		ChildCount:    params.ChildCount,
		Facilities:    append([]string(nil), params.Facilities...),
		PricePerNight: params.PricePerNight,
		StarRating:    params.StarRating,
		ImageURLs:     append([]string(nil), params.ImageURLs...),
		Address:       params.Address,
		RoomCount:     params.RoomCount,
		LastUpdated:   params.Now.UTC(),
	}
	h.Record(HotelCreated{HotelID: h.ID, Owner: h.Owner, At: h.LastUpdated})
	return h, nil
}

type UpdateParams struct {
	Name          string
	Description   string
	Type          string
	AdultCount    int
	ChildCount    int
	Facilities    []string
	PricePerNight int64
	StarRating    int
	ImageURLs     []string
	Address       Address
	RoomCount     int
	Now           time.Time
}

func (h *Hotel) UpdateAttributes(params UpdateParams) error {
	if err := validateAttributes(attributeSet{
		Name:          params.Name,
		Type:          params.Type,
		AdultCount:    params.AdultCount,
		ChildCount:    params.ChildCount,
		PricePerNight: params.PricePerNight,
		StarRating:    params.StarRating,
		RoomCount:     params.RoomCount,
		Address:       params.Address,
	}); err != nil {
		return err
	}
	h.Name = strings.TrimSpace(params.Name)
	h.Description = strings.TrimSpace(params.Description)
	h.Type = strings.TrimSpace(params.Type)
	h.AdultCount = params.AdultCount
	h.ChildCount = params.ChildCount
	h.Facilities = append([]string(nil), params.Facilities...)
	h.PricePerNight = params.PricePerNight
	h.StarRating = params.StarRating
	h.ImageURLs = append([]string(nil), params.ImageURLs...)
	h.Address = params.Address
	h.RoomCount = params.RoomCount
	h.LastUpdated = params.Now.UTC()
	h.Record(HotelUpdated{HotelID: h.ID, At: h.LastUpdated})
	return nil
}

// FitsOccupancy reports whether the requested party fits the hotel capacity.
func (h *Hotel) FitsOccupancy(adults, children int) bool {
	return adults <= h.AdultCount && children <= h.ChildCount
}

type attributeSet struct {
	Name          string
	Type          string
	AdultCount    int
	ChildCount    int
	PricePerNight int64
	StarRating    int
	RoomCount     int
	Address       Address
}

func validateAttributes(attrs attributeSet) error {
	if strings.TrimSpace(attrs.Name) == "" {
		return ErrNameRequired
	}
	if !typeKnown(attrs.Type) {
		return ErrUnknownType
	}
	if attrs.AdultCount < 1 || attrs.AdultCount > 6 {
		return ErrAdultCountRange
	}
	if attrs.ChildCount < 0 || attrs.ChildCount > 2 {
		return ErrChildCountRange
	}
	if attrs.PricePerNight <= 0 {
		return ErrPriceNotPositive
	}
	if attrs.StarRating < 1 || attrs.StarRating > 5 {
		return ErrStarRatingRange
	}
	if attrs.RoomCount < 1 {
		return ErrRoomCount
	}
	if !attrs.Address.Valid() {
		return ErrAddressRequired
	}
	return nil
}

func typeKnown(value string) bool {
	value = strings.TrimSpace(value)
	for _, known := range KnownTypes {
		if strings.EqualFold(value, known) {
			return true
		}
	}
	return false
}
