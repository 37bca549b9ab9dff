package ginserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/commands"
	"stayfinder/internal/app/dto"
	myhotelapp "stayfinder/internal/app/handlers/myhotels"
	"stayfinder/internal/app/queries"
	domainhotel "stayfinder/internal/domain/hotel"
)

type MyHotelHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type myHotelRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Type          string   `json:"type"`
	AdultCount    int      `json:"adultCount"`
	ChildCount    int      `json:"childCount"`
	Facilities    []string `json:"facilities"`
	PricePerNight int64    `json:"pricePerNight"`
	StarRating    int      `json:"starRating"`
	ImageURLs     []string `json:"imageUrls"`
	StreetAddress string   `json:"streetAddress"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	RoomCount     int      `json:"roomNumber"`
}

func (r myHotelRequest) attributes() myhotelapp.HotelAttributes {
	return myhotelapp.HotelAttributes{
		Name:          r.Name,
		Description:   r.Description,
		Type:          r.Type,
		AdultCount:    r.AdultCount,
		ChildCount:    r.ChildCount,
		Facilities:    r.Facilities,
		PricePerNight: r.PricePerNight,
		StarRating:    r.StarRating,
		ImageURLs:     r.ImageURLs,
		Street:        r.StreetAddress,
		City:          r.City,
		Country:       r.Country,
		RoomCount:     r.RoomCount,
	}
}

func (h MyHotelHandler) List(c *gin.Context) {
	principal, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries bus unavailable"})
		return
	}
	query := myhotelapp.ListMyHotelsQuery{OwnerID: principal.ID}
	result, err := queries.Ask[myhotelapp.ListMyHotelsQuery, *dto.HotelCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MyHotelHandler) Create(c *gin.Context) {
	principal, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands bus unavailable"})
		return
	}
	var req myHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := myhotelapp.CreateHotelCommand{
		OwnerID:         principal.ID,
		HotelAttributes: req.attributes(),
	}
	result, err := commands.Dispatch[myhotelapp.CreateHotelCommand, *dto.HotelView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/my/hotels/%s", result.ID))
	c.JSON(http.StatusCreated, result)
}

func (h MyHotelHandler) Get(c *gin.Context) {
	principal, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries bus unavailable"})
		return
	}
	query := myhotelapp.GetMyHotelQuery{
		HotelID: c.Param("hotelID"),
		OwnerID: principal.ID,
	}
	result, err := queries.Ask[myhotelapp.GetMyHotelQuery, *dto.HotelView](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MyHotelHandler) Update(c *gin.Context) {
	principal, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands bus unavailable"})
		return
	}
	var req myHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := myhotelapp.UpdateHotelCommand{
		HotelID:         c.Param("hotelID"),
		OwnerID:         principal.ID,
		HotelAttributes: req.attributes(),
	}
	result, err := commands.Dispatch[myhotelapp.UpdateHotelCommand, *dto.HotelView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MyHotelHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainhotel.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "hotel not found"})
	case isHotelValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("my hotels request failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isHotelValidationError(err error) bool {
	for _, target := range []error{
		domainhotel.ErrNameRequired,
		domainhotel.ErrOwnerRequired,
		domainhotel.ErrUnknownType,
		domainhotel.ErrAdultCountRange,
		domainhotel.ErrChildCountRange,
		domainhotel.ErrStarRatingRange,
		domainhotel.ErrPriceNotPositive,
		domainhotel.ErrRoomCount,
		domainhotel.ErrAddressRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var _ MyHotelHTTP = MyHotelHandler{}
