package hotel

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNormalizedSanitizesFilters(t *testing.T) {
	params := SearchParams{
		Destination: "  DubLIN  ",
		AdultCount:  -1,
		ChildCount:  -2,
		Facilities:  []string{" Wifi ", "wifi", "", "Parking"},
		Types:       []string{"Budget", "budget", "Motel"},
		Stars:       []int{0, 3, 3, 5, 9},
		MaxPrice:    -100,
		Sort:        SearchSort("bogus"),
		Page:        0,
	}
	got := params.Normalized()

	if got.Destination != "dublin" {
		t.Errorf("Destination = %q", got.Destination)
	}
	if got.AdultCount != 0 || got.ChildCount != 0 {
		t.Errorf("negative counts not cleared: %d/%d", got.AdultCount, got.ChildCount)
	}
	if want := []string{"Wifi", "Parking"}; !reflect.DeepEqual(got.Facilities, want) {
		t.Errorf("Facilities = %v, want %v", got.Facilities, want)
	}
	if want := []string{"Budget", "Motel"}; !reflect.DeepEqual(got.Types, want) {
		t.Errorf("Types = %v, want %v", got.Types, want)
	}
	if want := []int{3, 5}; !reflect.DeepEqual(got.Stars, want) {
		t.Errorf("Stars = %v, want %v", got.Stars, want)
	}
	if got.MaxPrice != 0 {
		t.Errorf("MaxPrice = %d", got.MaxPrice)
	}
	if got.Sort != SortByUpdated {
		t.Errorf("Sort = %q, want default", got.Sort)
	}
	if got.Page != 1 {
		t.Errorf("Page = %d, want 1", got.Page)
	}
}

func TestNormalizedClearsIncompleteWindow(t *testing.T) {
	in := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	out := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		checkIn    time.Time
		checkOut   time.Time
		wantWindow bool
	}{
		{"both set", in, out, true},
		{"missing check-out", in, time.Time{}, false},
		{"missing check-in", time.Time{}, out, false},
		{"inverted", out, in, false},
		{"equal", in, in, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SearchParams{CheckIn: tc.checkIn, CheckOut: tc.checkOut}.Normalized()
			if _, ok := got.Window(); ok != tc.wantWindow {
				t.Errorf("Window() present = %v, want %v", ok, tc.wantWindow)
			}
		})
	}
}

func TestSearchResultPages(t *testing.T) {
	cases := []struct {
		total int
		pages int
	}{
		{0, 0},
		{1, 1},
		{5, 1},
		{6, 2},
		{10, 2},
		{11, 3},
	}
	for _, tc := range cases {
		if got := (SearchResult{Total: tc.total}).Pages(); got != tc.pages {
			t.Errorf("Pages(total=%d) = %d, want %d", tc.total, got, tc.pages)
		}
	}
}

func TestValidateAttributesBounds(t *testing.T) {
	valid := CreateParams{
		ID:            "h1",
		Owner:         "o1",
		Name:          "Harbor View",
		Type:          "Budget",
		AdultCount:    2,
		ChildCount:    1,
		PricePerNight: 120,
		StarRating:    3,
		RoomCount:     4,
		Address:       Address{Street: "1 Quay St", City: "Dublin", Country: "Ireland"},
		Now:           time.Now(),
	}

	if _, err := New(valid); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*CreateParams)
		wantErr error
	}{
		{"adults too low", func(p *CreateParams) { p.AdultCount = 0 }, ErrAdultCountRange},
		{"adults too high", func(p *CreateParams) { p.AdultCount = 7 }, ErrAdultCountRange},
		{"children negative", func(p *CreateParams) { p.ChildCount = -1 }, ErrChildCountRange},
		{"children too high", func(p *CreateParams) { p.ChildCount = 3 }, ErrChildCountRange},
		{"zero price", func(p *CreateParams) { p.PricePerNight = 0 }, ErrPriceNotPositive},
		{"stars too low", func(p *CreateParams) { p.StarRating = 0 }, ErrStarRatingRange},
		{"stars too high", func(p *CreateParams) { p.StarRating = 6 }, ErrStarRatingRange},
		{"unknown type", func(p *CreateParams) { p.Type = "Treehouse" }, ErrUnknownType},
		{"no name", func(p *CreateParams) { p.Name = "  " }, ErrNameRequired},
		{"no rooms", func(p *CreateParams) { p.RoomCount = 0 }, ErrRoomCount},
		{"no city", func(p *CreateParams) { p.Address.City = "" }, ErrAddressRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := valid
			tc.mutate(&params)
			if _, err := New(params); !errors.Is(err, tc.wantErr) {
				t.Errorf("New() err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestFitsOccupancy(t *testing.T) {
	h := &Hotel{AdultCount: 2, ChildCount: 1}
	if !h.FitsOccupancy(2, 1) {
		t.Error("exact capacity should fit")
	}
	if !h.FitsOccupancy(1, 0) {
		t.Error("below capacity should fit")
	}
	if h.FitsOccupancy(3, 0) {
		t.Error("too many adults should not fit")
	}
	if h.FitsOccupancy(2, 2) {
		t.Error("too many children should not fit")
	}
}
