package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"roombooking/internal/config"
	"roombooking/internal/database"
	"roombooking/internal/middleware"
	"roombooking/internal/modules/booking"
	"roombooking/internal/modules/catalog"
	"roombooking/internal/modules/live"
	jwtsvc "roombooking/internal/pkg/jwt"
	"roombooking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	if err := roomRepo.Migrate(); err != nil {
		log.Fatal(err)
	}
	if err := bookingRepo.Migrate(); err != nil {
		log.Fatal(err)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := live.NewHub()
	defer hub.Close()

	catalogService := catalog.NewService(roomRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, roomRepo, hub, booking.NewRealClock())
	bookingHandler := booking.NewHandler(bookingService)

	liveHandler := live.NewHandler(hub, j, bookingService)

	r := gin.Default()
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	root := r.Group("/")
	{
		// public
		catalogHandler.RegisterPublicRoutes(root)

		// websocket; authenticates via query token inside the handler
		liveHandler.RegisterRoutes(root)

		// protected
		protected := root.Group("")
		protected.Use(middleware.JWTAuth(j, cfg.LoginURL))
		{
			bookingHandler.RegisterRoutes(protected)

			staff := protected.Group("")
			staff.Use(middleware.StaffOnly())
			{
				catalogHandler.RegisterAdminRoutes(staff)
			}
		}
	}

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
