package main

import (
	bookingHandler "hotelier/internal/bookings/handler"
	bookingRepository "hotelier/internal/bookings/repository"
	bookingService "hotelier/internal/bookings/service"
	bookingValidator "hotelier/internal/bookings/validator"
	guestHandler "hotelier/internal/guests/handler"
	guestRepository "hotelier/internal/guests/repository"
	guestService "hotelier/internal/guests/service"
	guestValidator "hotelier/internal/guests/validator"
	"hotelier/internal/health"
	catalogHandler "hotelier/internal/hotelservices/handler"
	catalogRepository "hotelier/internal/hotelservices/repository"
	catalogService "hotelier/internal/hotelservices/service"
	catalogValidator "hotelier/internal/hotelservices/validator"
	"hotelier/internal/invoicing"
	reportHandler "hotelier/internal/reports/handler"
	reportService "hotelier/internal/reports/service"
	roomHandler "hotelier/internal/rooms/handler"
	roomRepository "hotelier/internal/rooms/repository"
	roomService "hotelier/internal/rooms/service"
	roomValidator "hotelier/internal/rooms/validator"
	saleHandler "hotelier/internal/servicesales/handler"
	saleRepository "hotelier/internal/servicesales/repository"
	saleService "hotelier/internal/servicesales/service"
	saleValidator "hotelier/internal/servicesales/validator"
	staffHandler "hotelier/internal/staff/handler"
	staffRepository "hotelier/internal/staff/repository"
	staffService "hotelier/internal/staff/service"
	staffValidator "hotelier/internal/staff/validator"
	stayHandler "hotelier/internal/stays/handler"
	stayRepository "hotelier/internal/stays/repository"
	stayService "hotelier/internal/stays/service"
	stayValidator "hotelier/internal/stays/validator"
	"hotelier/pkg/app"
	"hotelier/pkg/config"
	"hotelier/pkg/contracts"
	"hotelier/pkg/events"
	"hotelier/pkg/kafka"
	kafka_config "hotelier/pkg/kafka/config"
	kafka_middleware "hotelier/pkg/kafka/middleware"
)

const ServiceName = "hotel-backoffice"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting hotel back office")

	serverApp := app.NewApplication(cfg)

	publisher, producer := initPublisher(cfg)
	if producer != nil {
		serverApp.OnShutdown(producer)
	}

	serverApp.SetApp(initHealth(cfg), initHandlers(cfg, publisher)...)
	serverApp.Run()
}

// initPublisher returns a Kafka-backed publisher when enabled, otherwise a
// no-op one. The producer is returned so it can be closed on shutdown.
func initPublisher(cfg *config.Config) (events.Publisher, *kafka.Producer) {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, domain events will not be published")
		return events.NopPublisher{}, nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	return events.NewKafkaPublisher(producer, ServiceName, kafkaCfg.PublishTimeout), producer
}

func initHealth(cfg *config.Config) contracts.Handler {
	checks := []health.Check{health.MongoCheck(cfg.Client.Mongo)}
	if cfg.Client.Redis != nil {
		checks = append(checks, health.RedisCheck(cfg.Client.Redis))
	}
	return health.NewHandler(cfg.Log, checks...)
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	roomRepo := roomRepository.NewMongoRoomRepository(cfg)
	guestRepo := guestRepository.NewMongoGuestRepository(cfg)
	staffRepo := staffRepository.NewMongoStaffRepository(cfg)
	catalogRepo := catalogRepository.NewMongoServiceRepository(cfg)
	bookingRepo := bookingRepository.NewMongoBookingRepository(cfg)
	lockRepo := bookingRepository.NewRoomLockRepository(cfg)
	stayRepo := stayRepository.NewMongoStayRepository(cfg)
	saleRepo := saleRepository.NewMongoSaleRepository(cfg)

	rooms := roomService.NewRoomService(roomRepo, bookingRepo, roomValidator.NewRoomValidator(cfg.Log), cfg)
	guests := guestService.NewGuestService(guestRepo, bookingRepo, guestValidator.NewGuestValidator(cfg.Log), cfg)
	staff := staffService.NewStaffService(staffRepo, staffValidator.NewStaffValidator(cfg.Log), cfg)
	catalog := catalogService.NewCatalogService(catalogRepo, catalogValidator.NewServiceValidator(cfg.Log), cfg)

	bookings := bookingService.NewBookingService(
		bookingRepo,
		lockRepo,
		rooms,
		guests,
		publisher,
		bookingValidator.NewBookingValidator(cfg.Log),
		cfg,
	)
	stays := stayService.NewStayService(stayRepo, bookings, publisher, stayValidator.NewStayValidator(cfg.Log), cfg)
	sales := saleService.NewSaleService(
		saleRepo,
		catalog,
		stays,
		guests,
		publisher,
		saleValidator.NewSaleValidator(cfg.Log),
		cfg,
	)
	invoices := invoicing.NewService(stays, bookings, sales, cfg.Log)
	dashboard := reportService.NewDashboardService(bookingRepo, roomRepo, stayRepo, saleRepo, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		roomHandler.NewRoomHandler(rooms, cfg.Log),
		guestHandler.NewGuestHandler(guests, cfg.Log),
		staffHandler.NewStaffHandler(staff, cfg.Log),
		catalogHandler.NewCatalogHandler(catalog, cfg.Log),
		bookingHandler.NewBookingHandler(bookings, cfg.Log),
		stayHandler.NewStayHandler(stays, invoices, cfg.Log),
		saleHandler.NewSaleHandler(sales, cfg.Log),
		reportHandler.NewReportHandler(dashboard, cfg.Log),
	}
}
