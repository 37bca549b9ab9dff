package hotel

import (
	"strings"
	"time"

	"stayfinder/internal/domain/shared/daterange"
)

// SearchSort defines a supported ordering.
type SearchSort string

const (
	SortByStarRating SearchSort = "starRating"
	SortByPriceAsc   SearchSort = "pricePerNightAsc"
	SortByPriceDesc  SearchSort = "pricePerNightDesc"
	SortByUpdated    SearchSort = "lastUpdated"

	// PageSize is the fixed number of hotels per result page.
	PageSize = 5
)

// SearchParams describe catalog filters, sort and page selection. Zero-valued
// fields impose no constraint.
type SearchParams struct {
	Destination string
	AdultCount  int
	ChildCount  int
	Facilities  []string
	Types       []string
	Stars       []int
	MaxPrice    int64
	CheckIn     time.Time
	CheckOut    time.Time
	Sort        SearchSort
	Page        int
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	normalized := p
	normalized.Destination = strings.TrimSpace(strings.ToLower(normalized.Destination))
	normalized.Facilities = normalizeTokens(normalized.Facilities)
	normalized.Types = normalizeTokens(normalized.Types)
	normalized.Stars = normalizeStars(normalized.Stars)
	if normalized.AdultCount < 0 {
		normalized.AdultCount = 0
	}
	if normalized.ChildCount < 0 {
		normalized.ChildCount = 0
	}
	if normalized.MaxPrice < 0 {
		normalized.MaxPrice = 0
	}
	normalized.CheckIn = normalizeDate(normalized.CheckIn)
	normalized.CheckOut = normalizeDate(normalized.CheckOut)
	if normalized.CheckIn.IsZero() || normalized.CheckOut.IsZero() || !normalized.CheckOut.After(normalized.CheckIn) {
		normalized.CheckIn = time.Time{}
		normalized.CheckOut = time.Time{}
	}
	if normalized.Page < 1 {
		normalized.Page = 1
	}
	switch normalized.Sort {
	case SortByStarRating, SortByPriceAsc, SortByPriceDesc:
	default:
		normalized.Sort = SortByUpdated
	}
	return normalized
}

// Window returns the requested availability window, if both dates are set.
func (p SearchParams) Window() (daterange.DateRange, bool) {
	if p.CheckIn.IsZero() || p.CheckOut.IsZero() {
		return daterange.DateRange{}, false
	}
	dr, err := daterange.New(p.CheckIn, p.CheckOut)
	if err != nil {
		return daterange.DateRange{}, false
	}
	return dr, true
}

func normalizeTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key := strings.ToLower(token)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, token)
	}
	return out
}

func normalizeStars(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	out := make([]int, 0, len(values))
	seen := make(map[int]struct{}, len(values))
	for _, value := range values {
		if value < 1 || value > 5 {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func normalizeDate(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	y, m, d := value.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SearchResult wraps search hits with the availability-filtered total.
type SearchResult struct {
	Items []*Hotel
	Total int
}

// Pages reports the page count for the fixed page size.
func (r SearchResult) Pages() int {
	return (r.Total + PageSize - 1) / PageSize
}
