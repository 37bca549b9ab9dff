package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"

	"stayfinder/internal/app/commands"
	appoutbox "stayfinder/internal/app/outbox"
	"stayfinder/internal/app/policies"
	"stayfinder/internal/app/queries"
	"stayfinder/internal/app/uow"

	bookingapp "stayfinder/internal/app/handlers/booking"
	hotelapp "stayfinder/internal/app/handlers/hotels"
	meapp "stayfinder/internal/app/handlers/me"
	myhotelapp "stayfinder/internal/app/handlers/myhotels"
	"stayfinder/internal/app/middleware"
	domainhotel "stayfinder/internal/domain/hotel"
	"stayfinder/internal/infra/broker/kafka"
	"stayfinder/internal/infra/config"
	mongodb "stayfinder/internal/infra/db/mongo"
	ginserver "stayfinder/internal/infra/http/gin"
	"stayfinder/internal/infra/obs"
	infraoutbox "stayfinder/internal/infra/outbox"
	stripeclient "stayfinder/internal/infra/payments/stripe"
	"stayfinder/internal/infra/storage/memory"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.StorageMode = "memory"
		cfg.PaymentsMode = "memory"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.memoryHotels != nil {
		fixturesPath := getenv("HOTEL_FIXTURES", "")
		if fixturesPath == "" {
			fixturesPath = defaultHotelFixturesPath()
		}
		if err := app.loadHotelFixtures(ctx, fixturesPath, logger); err != nil {
			logger.Warn("hotel fixtures load failed", "error", err, "path", fixturesPath)
		}
	}

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers     ginserver.Handlers
	worker       *infraoutbox.Worker
	ready        func() error
	memoryHotels *memory.HotelRepository
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		factory      uow.UoWFactory
		outboxStore  appoutbox.Outbox
		worker       *infraoutbox.Worker
		ready        = func() error { return nil }
		memoryHotels *memory.HotelRepository
	)

	switch cfg.StorageMode {
	case "memory":
		bookingRepo := memory.NewBookingRepository()
		hotelRepo := memory.NewHotelRepository(bookingRepo)
		factory = memory.NewFactory(hotelRepo, bookingRepo)
		outboxStore = memory.NewOutbox()
		memoryHotels = hotelRepo
	default:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		hotelRepo := mongodb.NewHotelRepository(client.DB)
		bookingRepo := mongodb.NewBookingRepository(client.DB)
		factory = mongodb.Factory{
			DB:          client.DB,
			HotelRepo:   hotelRepo,
			BookingRepo: bookingRepo,
		}
		store := infraoutbox.NewStore(client.DB)
		outboxStore = store
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, sarama.NewConfig())
			if err != nil {
				return application{}, fmt.Errorf("kafka producer: %w", err)
			}
			worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
		} else {
			logger.Warn("no kafka brokers configured, outbox events will accumulate")
		}
	}

	var payments policies.PaymentsPort
	if cfg.PaymentsMode == "stripe" {
		payments = stripeclient.New(cfg.StripeAPIKey)
	} else {
		payments = devPaymentsStore()
	}

	idStore := memory.NewIdempotencyStore()

	commandBus := commands.NewInMemoryBus()
	createBooking := &bookingapp.CreateBookingHandler{
		UoWFactory: factory,
		Payments:   payments,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
	}
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), createBooking)
	createHotel := &myhotelapp.CreateHotelHandler{UoWFactory: factory, Outbox: outboxStore}
	commands.RegisterHandler(commandBus, myhotelapp.CreateHotelCommand{}.Key(), createHotel)
	updateHotel := &myhotelapp.UpdateHotelHandler{UoWFactory: factory, Outbox: outboxStore}
	commands.RegisterHandler(commandBus, myhotelapp.UpdateHotelCommand{}.Key(), updateHotel)

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, hotelapp.SearchHotelsQuery{}.Key(), &hotelapp.SearchHotelsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, hotelapp.GetHotelDetailQuery{}.Key(), &hotelapp.GetHotelDetailHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, hotelapp.LatestHotelsQuery{}.Key(), &hotelapp.LatestHotelsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, hotelapp.PopularHotelsQuery{}.Key(), &hotelapp.PopularHotelsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, myhotelapp.ListMyHotelsQuery{}.Key(), &myhotelapp.ListMyHotelsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, myhotelapp.GetMyHotelQuery{}.Key(), &myhotelapp.GetMyHotelHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, meapp.ListMyBookingsQuery{}.Key(), &meapp.ListMyBookingsHandler{UoWFactory: factory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil, bookingapp.ReplayCatalog()),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	sessions := memory.NewSessionStore()
	loadDevSessions(sessions, logger)

	return application{
		handlers: ginserver.Handlers{
			Hotel:   ginserver.HotelHandler{Queries: queryBusWithMiddleware},
			Booking: ginserver.BookingHandler{Commands: commandBusWithMiddleware},
			MyHotel: ginserver.MyHotelHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			Me: ginserver.MeHandler{Queries: queryBusWithMiddleware},
			AuthMiddleware: ginserver.AuthMiddleware{
				Resolver: sessions,
				Logger:   logger,
			}.Handle,
		},
		worker:       worker,
		ready:        ready,
		memoryHotels: memoryHotels,
	}, nil
}

// devPaymentsStore seeds a predictable payment for local demos.
func devPaymentsStore() *memory.PaymentsStore {
	store := memory.NewPaymentsStore()
	raw := os.Getenv("DEV_PAYMENTS")
	if raw == "" {
		return store
	}
	// format: ref:hotelId:userId:amountCents, comma separated
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 4 {
			continue
		}
		var amount int64
		fmt.Sscanf(parts[3], "%d", &amount)
		store.Register(policies.Payment{
			Ref:         parts[0],
			Status:      policies.PaymentSucceeded,
			AmountCents: amount,
			HotelID:     parts[1],
			UserID:      parts[2],
		})
	}
	return store
}

// loadDevSessions preloads bearer tokens for local use. Format:
// token:userId:role+role, comma separated.
func loadDevSessions(store *memory.SessionStore, logger *slog.Logger) {
	raw := os.Getenv("DEV_SESSIONS")
	if raw == "" {
		return
	}
	count := 0
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) < 2 {
			continue
		}
		p := policies.Principal{ID: parts[1]}
		if len(parts) > 2 && parts[2] != "" {
			p.Roles = strings.Split(parts[2], "+")
		}
		store.Put(parts[0], p)
		count++
	}
	if count > 0 {
		logger.Info("dev sessions loaded", "count", count)
	}
}

func (a application) loadHotelFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("hotel fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("hotel fixtures file empty", "path", path)
		return nil
	}

	var fixtures []hotelFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for _, fx := range fixtures {
		h, err := domainhotel.New(domainhotel.CreateParams{
			ID:            domainhotel.HotelID(fx.ID),
			Owner:         domainhotel.OwnerID(fx.Owner),
			Name:          fx.Name,
			Description:   fx.Description,
			Type:          fx.Type,
			AdultCount:    fx.AdultCount,
			ChildCount:    fx.ChildCount,
			Facilities:    append([]string(nil), fx.Facilities...),
			PricePerNight: fx.PricePerNight,
			StarRating:    fx.StarRating,
			ImageURLs:     append([]string(nil), fx.ImageURLs...),
			Address: domainhotel.Address{
				Street:  fx.StreetAddress,
				City:    fx.City,
				Country: fx.Country,
			},
			RoomCount: fx.RoomCount,
			Now:       now,
		})
		if err != nil {
			logger.Error("fixture invalid", "hotel_id", fx.ID, "error", err)
			continue
		}
		h.ClearEvents()
		if err := a.memoryHotels.Save(ctx, h); err != nil {
			logger.Error("cannot store fixture hotel", "hotel_id", fx.ID, "error", err)
			continue
		}
		logger.Info("hotel fixture imported", "hotel_id", h.ID)
	}
	return nil
}

type hotelFixture struct {
	ID            string   `json:"id"`
	Owner         string   `json:"owner"`
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

func defaultHotelFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "hotels.json"),
		filepath.Join("backend", "data", "hotels.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
