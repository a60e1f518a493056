package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"roombooking/internal/config"
	"roombooking/internal/database"
	"roombooking/internal/domain"
	jwt "roombooking/internal/pkg/jwt"
	"roombooking/internal/repository"
)

// Seeds a development database with a handful of rooms and prints bearer
// tokens for a regular and a staff user, matching what the identity service
// would mint.
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

	ctx := context.Background()

	rooms := []domain.Room{
		{Code: "R101", Name: "Seminar Room 1", Capacity: 10, MaxBookingHours: 1, IsAvailable: true},
		{Code: "R102", Name: "Seminar Room 2", Capacity: 5, MaxBookingHours: 1, IsAvailable: true},
		{Code: "R201", Name: "Meeting Room", Capacity: 8, MaxBookingHours: 2, IsAvailable: true},
		{Code: "R202", Name: "Storage Room", Capacity: 2, MaxBookingHours: 1, IsAvailable: false},
	}

	for i := range rooms {
		if err := roomRepo.Create(ctx, &rooms[i]); err != nil {
			log.Printf("seed: room %s skipped: %v", rooms[i].Code, err)
			continue
		}
		log.Printf("seed: room %s (%s) id=%d", rooms[i].Code, rooms[i].Name, rooms[i].ID)
	}

	j := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	userToken, err := j.GenerateToken(1, "testuser", false)
	if err != nil {
		log.Fatal(err)
	}
	staffToken, err := j.GenerateToken(2, "staffuser", true)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("dev tokens (Authorization: Bearer <token>):")
	fmt.Println("  testuser :", userToken)
	fmt.Println("  staffuser:", staffToken)
}
