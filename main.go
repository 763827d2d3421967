package main

import (
	"context"
	"net/http"
	"time"

	"github.com/Eursukkul/homestay-service/config"
	"github.com/Eursukkul/homestay-service/internal/consumer"
	"github.com/Eursukkul/homestay-service/internal/handler"
	"github.com/Eursukkul/homestay-service/internal/locker"
	"github.com/Eursukkul/homestay-service/internal/middleware"
	"github.com/Eursukkul/homestay-service/internal/repository"
	"github.com/Eursukkul/homestay-service/internal/service"
	"github.com/Eursukkul/homestay-service/internal/validator"
	"github.com/Eursukkul/homestay-service/pkg/database"
	"github.com/Eursukkul/homestay-service/pkg/rabbitmq"
	"github.com/Eursukkul/homestay-service/pkg/redisclient"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()
	log := cfg.SetupLogger()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	loc, _ := cfg.Location()

	db := database.NewPostgresDB(cfg.DSN())

	// Redis is optional: without it rooms lock in process and nothing is rate limited.
	var locks locker.Locker = locker.NewLocal()
	var rateLimit echo.MiddlewareFunc
	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		locks = locker.NewRedis(rdb, 10*time.Second, 5*time.Second)
		rateLimit = middleware.RateLimit(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	// RabbitMQ publisher: booking and room events
	var publisher service.EventPublisher
	var mqConsumer *rabbitmq.Consumer
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer pub.Close()
		publisher = pub

		mqConsumer, err = rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mqConsumer.Close()
	}

	// Repositories
	txRunner := repository.NewTxRunner(db)
	houseRepo := repository.NewHouseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	counterRepo := repository.NewCounterRepository()

	// Services
	defaults := service.StayDefaults{
		Location:     loc,
		CheckInHour:  cfg.CheckInHour,
		CheckOutHour: cfg.CheckOutHour,
		OrderPrefix:  cfg.OrderCodePrefix,
	}
	clock := service.Clock(time.Now)
	houseSvc := service.NewHouseService(houseRepo)
	roomSvc := service.NewRoomService(houseRepo, roomRepo, bookingRepo, publisher, clock)
	bookingSvc := service.NewBookingService(txRunner, roomRepo, bookingRepo, counterRepo, locks, publisher, defaults, clock)
	dashboardSvc := service.NewDashboardService(roomSvc, roomRepo, bookingRepo, defaults, clock)

	// RabbitMQ consumer: reconcile rooms when bookings change
	if mqConsumer != nil {
		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatalf("failed to start consuming: %v", err)
		}
		consumer.NewBookingConsumer(roomSvc).Start(msgs)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMw.Recover())
	e.Use(middleware.CORS(cfg.CORSOrigins))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "homestay-service"})
	})

	api := e.Group("/api/v1", middleware.APIToken(cfg.AdminAPIToken))
	if rateLimit != nil {
		api.Use(rateLimit)
	}
	handler.NewHouseHandler(houseSvc).RegisterRoutes(api)
	handler.NewRoomHandler(roomSvc).RegisterRoutes(api)
	handler.NewBookingHandler(bookingSvc, loc).RegisterRoutes(api)
	handler.NewDashboardHandler(dashboardSvc).RegisterRoutes(api)

	log.Infof("Homestay Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
