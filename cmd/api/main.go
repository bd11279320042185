package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"yogastudio/internal/config"
	"yogastudio/internal/database"
	"yogastudio/internal/gateway"
	"yogastudio/internal/mailer"
	"yogastudio/internal/middleware"
	"yogastudio/internal/modules/auth"
	"yogastudio/internal/modules/booking"
	"yogastudio/internal/modules/catalog"
	"yogastudio/internal/modules/retreat"
	jwtsvc "yogastudio/internal/pkg/jwt"
	"yogastudio/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("database connection failed", "err", err)
	}
	if err := database.Migrate(db); err != nil {
		sugar.Fatalw("migration failed", "err", err)
	}

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	retreatRepo := repository.NewRetreatRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	retreatBookingRepo := repository.NewRetreatBookingRepository(db)
	paymentRepo := repository.NewPaymentRecordRepository(db)

	var gw gateway.PaymentGateway
	if cfg.StripeSecretKey != "" {
		gw, err = gateway.NewStripeGateway(cfg.StripeSecretKey)
		if err != nil {
			sugar.Fatalw("stripe gateway init failed", "err", err)
		}
	} else {
		sugar.Warn("STRIPE_SECRET_KEY not set, using in-memory fake gateway")
		gw = gateway.NewFakeGateway()
	}

	var notifier mailer.Notifier
	if cfg.SendgridAPIKey != "" {
		notifier = mailer.NewSendGridNotifier(cfg.SendgridAPIKey, cfg.EmailFrom, cfg.EmailFromName)
	} else {
		notifier = mailer.NewLogNotifier(sugar)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(classRepo, retreatRepo, reservationRepo, retreatBookingRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(db, classRepo, reservationRepo, paymentRepo, userRepo, gw, notifier, sugar)
	bookingHandler := booking.NewHandler(bookingService)

	retreatService := retreat.NewService(db, retreatRepo, retreatBookingRepo, paymentRepo, userRepo, gw, notifier, sugar)
	retreatHandler := retreat.NewHandler(retreatService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(logger))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)

		// protected (booking and retreat endpoints)
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			retreatHandler.RegisterRoutes(protected)
		}
	}

	sugar.Infow("starting api", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		sugar.Fatalw("server stopped", "err", err)
	}
}
