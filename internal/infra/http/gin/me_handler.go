package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/dto"
	meapp "stayfinder/internal/app/handlers/me"
	"stayfinder/internal/app/queries"
)

type MeHandler struct {
	Queries queries.Bus
}

func (h MeHandler) ListBookings(c *gin.Context) {
	principal, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries bus unavailable"})
		return
	}
	query := meapp.ListMyBookingsQuery{UserID: principal.ID}
	result, err := queries.Ask[meapp.ListMyBookingsQuery, *dto.MyBookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ MeHTTP = MeHandler{}
