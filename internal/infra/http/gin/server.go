package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/infra/config"
	"stayfinder/internal/infra/obs"
)

type HotelHTTP interface {
	Search(c *gin.Context)
	Latest(c *gin.Context)
	Popular(c *gin.Context)
	Detail(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
}

type MyHotelHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
}

type MeHTTP interface {
	ListBookings(c *gin.Context)
}

type Handlers struct {
	Hotel          HotelHTTP
	Booking        BookingHTTP
	MyHotel        MyHotelHTTP
	Me             MeHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins(cfg),
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Hotel != nil {
		api.GET("/hotels/search", h.Hotel.Search)
		api.GET("/hotels/latest", h.Hotel.Latest)
		api.GET("/hotels/popular", h.Hotel.Popular)
		api.GET("/hotels/:hotelID", h.Hotel.Detail)
	}
	if h.Booking != nil {
		api.POST("/hotels/:hotelID/bookings", h.Booking.Create)
	}
	if h.MyHotel != nil {
		myGroup := api.Group("/my/hotels")
		myGroup.GET("", h.MyHotel.List)
		myGroup.POST("", h.MyHotel.Create)
		myGroup.GET("/:hotelID", h.MyHotel.Get)
		myGroup.PUT("/:hotelID", h.MyHotel.Update)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/bookings", h.Me.ListBookings)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func allowedOrigins(cfg config.Config) []string {
	if len(cfg.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.AllowedOrigins
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
