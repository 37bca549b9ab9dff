package hotels

import (
	"context"
	"time"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/handlers/support"
	"stayfinder/internal/app/queries"
	"stayfinder/internal/app/uow"
	domainhotel "stayfinder/internal/domain/hotel"
)

const searchHotelsKey = "hotels.search"

// SearchHotelsQuery describes request filters. Zero values mean "no filter".
type SearchHotelsQuery struct {
	Destination string
	AdultCount  int
	ChildCount  int
	Facilities  []string
	Types       []string
	Stars       []int
	MaxPrice    int64
	CheckIn     time.Time
	CheckOut    time.Time
	Sort        string
	Page        int
}

func (q SearchHotelsQuery) Key() string { return searchHotelsKey }

// SearchHotelsHandler loads hotels with applied filters, availability
// filtering and pagination.
type SearchHotelsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SearchHotelsHandler) Handle(ctx context.Context, q SearchHotelsQuery) (dto.HotelSearchResponse, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HotelSearchResponse{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	params := domainhotel.SearchParams{
		Destination: q.Destination,
		AdultCount:  q.AdultCount,
		ChildCount:  q.ChildCount,
		Facilities:  append([]string(nil), q.Facilities...),
		Types:       append([]string(nil), q.Types...),
		Stars:       append([]int(nil), q.Stars...),
		MaxPrice:    q.MaxPrice,
		CheckIn:     q.CheckIn,
		CheckOut:    q.CheckOut,
		Sort:        domainhotel.SearchSort(q.Sort),
		Page:        q.Page,
	}.Normalized()

	result, err := unit.Hotels().Search(execCtx, params)
	if err != nil {
		return dto.HotelSearchResponse{}, err
	}

	return dto.MapSearchResponse(result, params.Page), nil
}

var _ queries.Handler[SearchHotelsQuery, dto.HotelSearchResponse] = (*SearchHotelsHandler)(nil)
