package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
)

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return b, nil
}

// Insert stores a new booking and refuses to overwrite an existing one.
func (r *BookingRepository) Insert(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[b.ID]; exists {
		return errors.New("memory: booking already exists")
	}
	r.items[b.ID] = b
	return nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(userID)
	if id == "" {
		return nil, errors.New("memory: user id required")
	}
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.UserID == id {
			matches = append(matches, b)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID domainhotel.HotelID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.HotelID == hotelID {
			matches = append(matches, b)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Range.CheckIn.Before(matches[j].Range.CheckIn)
	})
	return matches, nil
}

// AnyOverlapping reports whether the hotel has a booking whose stay intersects
// the half-open interval dr.
func (r *BookingRepository) AnyOverlapping(ctx context.Context, hotelID domainhotel.HotelID, dr daterange.DateRange) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.items {
		if b.HotelID != hotelID {
			continue
		}
		if b.Range.Overlaps(dr) {
			return true, nil
		}
	}
	return false, nil
}

func (r *BookingRepository) countByHotel() map[domainhotel.HotelID]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[domainhotel.HotelID]int, len(r.items))
	for _, b := range r.items {
		counts[b.HotelID]++
	}
	return counts
}

func (r *BookingRepository) overlapsLocked(hotelID domainhotel.HotelID, dr daterange.DateRange) bool {
	for _, b := range r.items {
		if b.HotelID == hotelID && b.Range.Overlaps(dr) {
			return true
		}
	}
	return false
}

// HotelRepository is an in-memory hotel store. It consults the booking store
// for availability filtering and popularity ranking.
type HotelRepository struct {
	mu       sync.RWMutex
	items    map[domainhotel.HotelID]*domainhotel.Hotel
	bookings *BookingRepository
}

func NewHotelRepository(bookings *BookingRepository) *HotelRepository {
	return &HotelRepository{
		items:    make(map[domainhotel.HotelID]*domainhotel.Hotel),
		bookings: bookings,
	}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.HotelID) (*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.items[id]
	if !ok {
		return nil, domainhotel.ErrNotFound
	}
	return h, nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h.Version++
	r.items[h.ID] = h
	return nil
}

// Search applies all filters before counting, so pagination totals reflect
// the availability window as well.
func (r *HotelRepository) Search(ctx context.Context, params domainhotel.SearchParams) (domainhotel.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	clauses := opts.Clauses()
	window, hasWindow := opts.Window()

	matches := make([]*domainhotel.Hotel, 0, len(r.items))
	for _, h := range r.items {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return domainhotel.SearchResult{}, ctx.Err()
			default:
			}
		}

		if !h.Matches(clauses) {
			continue
		}
		if hasWindow && r.bookings != nil {
			r.bookings.mu.RLock()
			busy := r.bookings.overlapsLocked(h.ID, window)
			r.bookings.mu.RUnlock()
			if busy {
				continue
			}
		}
		matches = append(matches, h)
	}

	sortHotels(matches, opts.Sort)

	total := len(matches)
	start := (opts.Page - 1) * domainhotel.PageSize
	if start > total {
		start = total
	}
	end := start + domainhotel.PageSize
	if end > total {
		end = total
	}

	return domainhotel.SearchResult{
		Items: matches[start:end],
		Total: total,
	}, nil
}

func (r *HotelRepository) ListByOwner(ctx context.Context, owner domainhotel.OwnerID) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainhotel.Hotel, 0)
	for _, h := range r.items {
		if h.Owner == owner {
			matches = append(matches, h)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].LastUpdated.After(matches[j].LastUpdated)
	})
	return matches, nil
}

func (r *HotelRepository) LatestUpdated(ctx context.Context, limit int) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domainhotel.Hotel, 0, len(r.items))
	for _, h := range r.items {
		all = append(all, h)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].LastUpdated.Equal(all[j].LastUpdated) {
			return all[i].ID < all[j].ID
		}
		return all[i].LastUpdated.After(all[j].LastUpdated)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *HotelRepository) MostBooked(ctx context.Context, limit int) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var counts map[domainhotel.HotelID]int
	if r.bookings != nil {
		counts = r.bookings.countByHotel()
	}
	all := make([]*domainhotel.Hotel, 0, len(r.items))
	for _, h := range r.items {
		all = append(all, h)
	}
	sort.Slice(all, func(i, j int) bool {
		ci, cj := counts[all[i].ID], counts[all[j].ID]
		if ci == cj {
			return all[i].LastUpdated.After(all[j].LastUpdated)
		}
		return ci > cj
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func sortHotels(hotels []*domainhotel.Hotel, order domainhotel.SearchSort) {
	sort.Slice(hotels, func(i, j int) bool {
		switch order {
		case domainhotel.SortByStarRating:
			if hotels[i].StarRating == hotels[j].StarRating {
				return hotels[i].ID < hotels[j].ID
			}
			return hotels[i].StarRating > hotels[j].StarRating
		case domainhotel.SortByPriceAsc:
			if hotels[i].PricePerNight == hotels[j].PricePerNight {
				return hotels[i].ID < hotels[j].ID
			}
			return hotels[i].PricePerNight < hotels[j].PricePerNight
		case domainhotel.SortByPriceDesc:
			if hotels[i].PricePerNight == hotels[j].PricePerNight {
				return hotels[i].ID < hotels[j].ID
			}
			return hotels[i].PricePerNight > hotels[j].PricePerNight
		default:
			if hotels[i].LastUpdated.Equal(hotels[j].LastUpdated) {
				return hotels[i].ID < hotels[j].ID
			}
			return hotels[i].LastUpdated.After(hotels[j].LastUpdated)
		}
	})
}
