package hotel

import (
	"time"
)

type HotelCreated struct {
	HotelID HotelID
	Owner   OwnerID
	At      time.Time
}

func (e HotelCreated) EventName() string     { return "hotel.created" }
func (e HotelCreated) AggregateID() string   { return string(e.HotelID) }
func (e HotelCreated) OccurredAt() time.Time { return e.At }

type HotelUpdated struct {
	HotelID HotelID
	At      time.Time
}

func (e HotelUpdated) EventName() string     { return "hotel.updated" }
func (e HotelUpdated) AggregateID() string   { return string(e.HotelID) }
func (e HotelUpdated) OccurredAt() time.Time { return e.At }
