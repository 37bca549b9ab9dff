package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	domainhotel "stayfinder/internal/domain/hotel"
)

func TestBuildMatchTranslatesClauses(t *testing.T) {
	params := domainhotel.SearchParams{
		Destination: "paris",
		AdultCount:  2,
		Facilities:  []string{"WiFi", "Parking"},
		Types:       []string{"Budget"},
		Stars:       []int{4, 5},
		MaxPrice:    300,
	}

	match := buildMatch(params.Normalized())

	or, ok := match["$or"].(bson.A)
	if !ok || len(or) != 3 {
		t.Fatalf("destination group = %#v", match["$or"])
	}
	if got := match["adult_count"]; !sameDoc(got, bson.M{"$gte": int64(2)}) {
		t.Errorf("adult_count = %#v", got)
	}
	if got := match["price_per_night"]; !sameDoc(got, bson.M{"$lte": int64(300)}) {
		t.Errorf("price_per_night = %#v", got)
	}
	stars, ok := match["star_rating"].(bson.M)
	if !ok {
		t.Fatalf("star_rating = %#v", match["star_rating"])
	}
	if in, ok := stars["$in"].([]int); !ok || len(in) != 2 {
		t.Errorf("star_rating $in = %#v", stars["$in"])
	}
}

func TestBuildMatchFoldsTextSetCase(t *testing.T) {
	params := domainhotel.SearchParams{
		Facilities: []string{"wifi"},
		Types:      []string{"luxury"},
	}

	match := buildMatch(params.Normalized())

	facilities, ok := match["facilities"].(bson.M)
	if !ok {
		t.Fatalf("facilities = %#v", match["facilities"])
	}
	all, ok := facilities["$all"].(bson.A)
	if !ok || len(all) != 1 {
		t.Fatalf("facilities $all = %#v", facilities["$all"])
	}
	rx, ok := all[0].(primitive.Regex)
	if !ok {
		t.Fatalf("facility member = %#v", all[0])
	}
	if rx.Pattern != "^wifi$" || rx.Options != "i" {
		t.Errorf("facility pattern = %q options %q", rx.Pattern, rx.Options)
	}

	types, ok := match["type"].(bson.M)
	if !ok {
		t.Fatalf("type = %#v", match["type"])
	}
	in, ok := types["$in"].(bson.A)
	if !ok || len(in) != 1 {
		t.Fatalf("type $in = %#v", types["$in"])
	}
	rx, ok = in[0].(primitive.Regex)
	if !ok {
		t.Fatalf("type member = %#v", in[0])
	}
	if rx.Pattern != "^luxury$" || rx.Options != "i" {
		t.Errorf("type pattern = %q options %q", rx.Pattern, rx.Options)
	}
}

func TestBuildMatchEmptyParams(t *testing.T) {
	if match := buildMatch(domainhotel.SearchParams{}.Normalized()); len(match) != 0 {
		t.Errorf("empty params produced %#v", match)
	}
}

func sameDoc(got any, want bson.M) bool {
	doc, ok := got.(bson.M)
	if !ok || len(doc) != len(want) {
		return false
	}
	for k, v := range want {
		if doc[k] != v {
			return false
		}
	}
	return true
}
