package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/dto"
	hotelapp "stayfinder/internal/app/handlers/hotels"
	"stayfinder/internal/app/queries"
	domainhotel "stayfinder/internal/domain/hotel"
)

// HotelHandler wires public hotel queries to HTTP.
type HotelHandler struct {
	Queries queries.Bus
}

// Search responds with one page of filtered, availability-aware results.
func (h HotelHandler) Search(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel handler unavailable"})
		return
	}
	checkIn, checkOut := parseStayWindow(c.Query("checkIn"), c.Query("checkOut"))
	query := hotelapp.SearchHotelsQuery{
		Destination: c.Query("destination"),
		AdultCount:  parseInt(c.Query("adultCount")),
		ChildCount:  parseInt(c.Query("childCount")),
		Facilities:  collectMulti(c, "facilities"),
		Types:       collectMulti(c, "types"),
		Stars:       parseIntList(collectMulti(c, "stars")),
		MaxPrice:    parseInt64(c.Query("maxPrice")),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Sort:        c.Query("sortOption"),
		Page:        parseIntWithDefault(c.Query("page"), 1),
	}
	result, err := queries.Ask[hotelapp.SearchHotelsQuery, dto.HotelSearchResponse](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HotelHandler) Latest(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel handler unavailable"})
		return
	}
	result, err := queries.Ask[hotelapp.LatestHotelsQuery, dto.HotelCollection](c.Request.Context(), h.Queries, hotelapp.LatestHotelsQuery{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HotelHandler) Popular(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel handler unavailable"})
		return
	}
	result, err := queries.Ask[hotelapp.PopularHotelsQuery, dto.HotelCollection](c.Request.Context(), h.Queries, hotelapp.PopularHotelsQuery{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HotelHandler) Detail(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel handler unavailable"})
		return
	}
	hotelID := c.Param("hotelID")
	if hotelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hotel id is required"})
		return
	}
	query := hotelapp.GetHotelDetailQuery{HotelID: hotelID}
	result, err := queries.Ask[hotelapp.GetHotelDetailQuery, dto.HotelDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		if errors.Is(err, domainhotel.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hotel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ HotelHTTP = HotelHandler{}

// collectMulti accepts both repeated query params and a single CSV value.
func collectMulti(c *gin.Context, key string) []string {
	values := c.QueryArray(key)
	if len(values) == 1 && strings.Contains(values[0], ",") {
		return splitCSV(values[0])
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseStayWindow(fromRaw, toRaw string) (time.Time, time.Time) {
	from, okFrom := parseFlexibleTime(fromRaw)
	to, okTo := parseFlexibleTime(toRaw)
	if !okFrom || !okTo {
		return time.Time{}, time.Time{}
	}
	return from, to
}

func parseFlexibleTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseIntList(values []string) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseIntWithDefault(raw string, fallback int) int {
	value := parseInt(raw)
	if value == 0 {
		return fallback
	}
	return value
}

func parseInt64(raw string) int64 {
	value, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if value < 0 {
		return 0
	}
	return value
}
