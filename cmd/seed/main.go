package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"yogastudio/internal/database"
	"yogastudio/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "yogastudio.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// cleanup in safe order to avoid foreign key errors
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM payment_records")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM retreat_bookings")
	db.Exec("DELETE FROM class_instances")
	db.Exec("DELETE FROM retreats")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@yogastudio.local",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Studio Admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("failed to create admin:", err)
	}

	clientHash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
	for i := 1; i <= 3; i++ {
		u := domain.User{
			Email:        fmt.Sprintf("client%d+%s@example.com", i, uuid.NewString()[:8]),
			PasswordHash: string(clientHash),
			Role:         domain.RoleClient,
			Name:         fmt.Sprintf("Client %d", i),
		}
		if err := db.Create(&u).Error; err != nil {
			log.Fatal("failed to create client:", err)
		}
	}

	log.Println("Creating class schedule...")

	titles := []struct {
		title      string
		instructor string
		capacity   int
		price      int64
	}{
		{"Vinyasa Flow", "Maya", 16, 2000},
		{"Yin & Restore", "Elena", 12, 1800},
		{"Power Yoga", "Tom", 20, 2200},
		{"Morning Hatha", "Maya", 14, 1500},
	}

	now := time.Now()
	for day := 1; day <= 7; day++ {
		for i, t := range titles {
			c := domain.ClassInstance{
				Title:      t.title,
				Instructor: t.instructor,
				Capacity:   t.capacity,
				Price:      t.price,
				Currency:   "usd",
				StartTime:  now.AddDate(0, 0, day).Truncate(time.Hour).Add(time.Duration(9+2*i) * time.Hour),
				DurationM:  60,
				Status:     domain.ClassOpen,
			}
			if err := db.Create(&c).Error; err != nil {
				log.Fatal("failed to create class:", err)
			}
		}
	}

	log.Println("Creating retreats...")

	retreats := []domain.Retreat{
		{
			Title:        "Bali Sunrise Retreat",
			Location:     "Ubud, Bali",
			Capacity:     12,
			TotalPrice:   250000,
			DepositPrice: 50000,
			Currency:     "usd",
			StartDate:    now.AddDate(0, 3, 0),
			EndDate:      now.AddDate(0, 3, 7),
			Status:       domain.RetreatOpen,
		},
		{
			Title:        "Alpine Stillness Weekend",
			Location:     "Chamonix, France",
			Capacity:     8,
			TotalPrice:   120000,
			DepositPrice: 30000,
			Currency:     "usd",
			StartDate:    now.AddDate(0, 2, 0),
			EndDate:      now.AddDate(0, 2, 3),
			Status:       domain.RetreatOpen,
		},
	}
	for i := range retreats {
		if err := db.Create(&retreats[i]).Error; err != nil {
			log.Fatal("failed to create retreat:", err)
		}
	}

	log.Println("Seed complete.")
}
