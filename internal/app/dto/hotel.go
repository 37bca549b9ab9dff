package dto

import (
	"time"

	domainhotel "stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
)

// HotelView is the wire representation of a hotel.
type HotelView struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	AdultCount    int       `json:"adultCount"`
	ChildCount    int       `json:"childCount"`
	Facilities    []string  `json:"facilities"`
	PricePerNight int64     `json:"pricePerNight"`
	StarRating    int       `json:"starRating"`
	ImageURLs     []string  `json:"imageUrls"`
	StreetAddress string    `json:"streetAddress"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	RoomCount     int       `json:"roomNumber"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// Pagination reports the availability-filtered total and page layout.
type Pagination struct {
	TotalHotelNum int `json:"totalHotelNum"`
	Page          int `json:"page"`
	Pages         int `json:"pages"`
}

// HotelSearchResponse is the search endpoint payload.
type HotelSearchResponse struct {
	Data       []HotelView `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// BusyInterval marks a span during which a hotel cannot be booked.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HotelDetail pairs a hotel with the intervals its date picker must exclude.
type HotelDetail struct {
	Hotel                HotelView      `json:"hotel"`
	ExcludeDateIntervals []BusyInterval `json:"excludeDateIntervals"`
}

// HotelCollection is a plain list of hotels.
type HotelCollection struct {
	Items []HotelView `json:"items"`
}

func MapHotel(h *domainhotel.Hotel) HotelView {
	if h == nil {
		return HotelView{}
	}
	return HotelView{
		ID:            string(h.ID),
		OwnerID:       string(h.Owner),
		Name:          h.Name,
		Description:   h.Description,
		Type:          h.Type,
		AdultCount:    h.AdultCount,
		ChildCount:    h.ChildCount,
		Facilities:    append([]string(nil), h.Facilities...),
		PricePerNight: h.PricePerNight,
		StarRating:    h.StarRating,
		ImageURLs:     append([]string(nil), h.ImageURLs...),
		StreetAddress: h.Address.Street,
		City:          h.Address.City,
		Country:       h.Address.Country,
		RoomCount:     h.RoomCount,
		LastUpdated:   h.LastUpdated,
	}
}

func MapHotels(hotels []*domainhotel.Hotel) []HotelView {
	items := make([]HotelView, 0, len(hotels))
	for _, h := range hotels {
		items = append(items, MapHotel(h))
	}
	return items
}

func MapSearchResponse(result domainhotel.SearchResult, page int) HotelSearchResponse {
	return HotelSearchResponse{
		Data: MapHotels(result.Items),
		Pagination: Pagination{
			TotalHotelNum: result.Total,
			Page:          page,
			Pages:         result.Pages(),
		},
	}
}

func MapBusyIntervals(ranges []daterange.DateRange) []BusyInterval {
	intervals := make([]BusyInterval, 0, len(ranges))
	for _, dr := range ranges {
		intervals = append(intervals, BusyInterval{Start: dr.CheckIn, End: dr.CheckOut})
	}
	return intervals
}
