package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/polaris-studio/booking-backend/internal/adapters/database"
	"github.com/polaris-studio/booking-backend/internal/application/services"
	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/infrastructure/clients/postgres"
	"github.com/polaris-studio/booking-backend/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'EMPLOYEE',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS services (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	duration_minutes INT NOT NULL CHECK (duration_minutes > 0),
	price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
	currency TEXT NOT NULL DEFAULT 'USD',
	is_active BOOLEAN NOT NULL DEFAULT true,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS business_hours (
	day_of_week INT PRIMARY KEY CHECK (day_of_week BETWEEN 0 AND 6),
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	is_open BOOLEAN NOT NULL DEFAULT true,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS blocked_dates (
	date TEXT PRIMARY KEY,
	reason TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY,
	booking_reference TEXT NOT NULL UNIQUE,
	client_name TEXT NOT NULL,
	client_email TEXT NOT NULL,
	client_phone TEXT NOT NULL,
	service_id UUID NOT NULL REFERENCES services(id),
	booking_date TEXT NOT NULL,
	booking_time TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'PENDING',
	payment_status TEXT NOT NULL DEFAULT 'PENDING',
	payment_ref TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- Only one live booking may hold a slot. CANCELLED and COMPLETED rows
-- free it for rebooking.
CREATE UNIQUE INDEX IF NOT EXISTS bookings_active_slot_idx
	ON bookings (service_id, booking_date, booking_time)
	WHERE status IN ('PENDING', 'CONFIRMED');
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			DROP TABLE IF EXISTS bookings, blocked_dates, business_hours, services, sessions, users CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("Schema ensured")

	userRepo := database.NewUserAdapter(pgClient)
	serviceRepo := database.NewServiceAdapter(pgClient)
	hourRepo := database.NewBusinessHourAdapter(pgClient)

	// 1. Seed staff accounts
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme"
		log.Println("SEED_ADMIN_PASSWORD not set, using default (change it!)")
	}

	passwordHash, err := services.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	staff := []entities.User{
		{ID: uuid.New().String(), Username: "admin", Email: "admin@example.com", PasswordHash: passwordHash, Role: entities.UserRoleAdmin, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New().String(), Username: "manager", Email: "manager@example.com", PasswordHash: passwordHash, Role: entities.UserRoleManager, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New().String(), Username: "frontdesk", Email: "frontdesk@example.com", PasswordHash: passwordHash, Role: entities.UserRoleEmployee, CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}

	for _, u := range staff {
		if err := userRepo.Create(ctx, &u); err != nil {
			log.Printf("Failed to create user %s: %v", u.Email, err)
		}
	}

	// 2. Seed services
	catalog := []entities.Service{
		{Name: "Haircut", Description: "Classic cut and style", DurationMinutes: 30, Price: 35, Currency: "USD", IsActive: true},
		{Name: "Color Treatment", Description: "Full color with consultation", DurationMinutes: 90, Price: 120, Currency: "USD", IsActive: true},
		{Name: "Beard Trim", Description: "Shape and trim", DurationMinutes: 15, Price: 18, Currency: "USD", IsActive: true},
	}

	for i := range catalog {
		if err := serviceRepo.Upsert(ctx, &catalog[i]); err != nil {
			log.Printf("Failed to create service %s: %v", catalog[i].Name, err)
		}
	}

	// 3. Seed business hours: Mon-Fri 09:00-17:00, Sat 10:00-14:00, closed Sunday
	hours := []entities.BusinessHour{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsOpen: true},
		{DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00", IsOpen: true},
		{DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00", IsOpen: true},
		{DayOfWeek: 4, StartTime: "09:00", EndTime: "17:00", IsOpen: true},
		{DayOfWeek: 5, StartTime: "09:00", EndTime: "17:00", IsOpen: true},
		{DayOfWeek: 6, StartTime: "10:00", EndTime: "14:00", IsOpen: true},
	}

	for i := range hours {
		if err := hourRepo.Upsert(ctx, &hours[i]); err != nil {
			log.Printf("Failed to create business hours for day %d: %v", hours[i].DayOfWeek, err)
		}
	}

	// 4. Seed a demo booking for the next Monday, going through the
	// admission engine so it obeys the same rules as real traffic.
	if os.Getenv("SEED_DEMO_BOOKINGS") == "true" && len(catalog) > 0 {
		bookingRepo := database.NewBookingAdapter(pgClient)
		bookingService := services.NewBookingService(bookingRepo, serviceRepo, hourRepo, database.NewBlockedDateAdapter(pgClient))

		daysAhead := (8 - int(time.Now().Weekday())) % 7
		if daysAhead == 0 {
			daysAhead = 7
		}
		nextMonday := time.Now().AddDate(0, 0, daysAhead)
		demo := &entities.Booking{
			ClientName:  "Demo Client",
			ClientEmail: "demo@example.com",
			ClientPhone: "555-0199",
			ServiceID:   catalog[0].ID,
			BookingDate: nextMonday.Format("2006-01-02"),
			BookingTime: "10:00",
		}
		if err := bookingService.AdmitBooking(ctx, demo); err != nil {
			log.Printf("Failed to create demo booking: %v", err)
		} else {
			log.Printf("Demo booking created: %s", demo.BookingReference)
		}
	}

	log.Println("Seeding complete")
}
