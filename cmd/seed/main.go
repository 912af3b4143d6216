package main

import (
	"fmt"
	"log"
	"time"

	"screenly/internal/movies"
	"screenly/internal/sessions"
	"screenly/internal/shared/config"
	"screenly/internal/shared/database"
	"screenly/internal/theatres"
	"screenly/internal/users"

	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB

	// seeded entities referenced by later stages
	manager  *users.User
	theatre  *theatres.Theatre
	hall     *theatres.Hall
	seatType *theatres.SeatType
	movieSet []movies.Movie
}

func main() {
	fmt.Println("Starting Screenly database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"tickets",
		"orders",
		"sessions",
		"seats",
		"halls",
		"seat_types",
		"theatres",
		"movies",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll populates the database with a working cinema
func (s *Seeder) SeedAll() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"users", s.seedUsers},
		{"theatre", s.seedTheatre},
		{"seat types", s.seedSeatTypes},
		{"hall", s.seedHall},
		{"movies", s.seedMovies},
		{"sessions", s.seedSessions},
	}

	for _, step := range steps {
		fmt.Printf("  Seeding %s...\n", step.name)
		if err := step.fn(); err != nil {
			return fmt.Errorf("failed to seed %s: %w", step.name, err)
		}
	}

	return nil
}

func (s *Seeder) seedUsers() error {
	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	manager := &users.User{
		FirstName: "Maya",
		LastName:  "Owens",
		Email:     "manager@screenly.dev",
		Password:  string(password),
		Role:      users.RoleManager,
	}
	if err := s.db.PostgreSQL.Create(manager).Error; err != nil {
		return err
	}
	s.manager = manager

	cashier := &users.User{
		FirstName: "Ben",
		LastName:  "Fischer",
		Email:     "cashier@screenly.dev",
		Password:  string(password),
		Role:      users.RoleCashier,
	}
	if err := s.db.PostgreSQL.Create(cashier).Error; err != nil {
		return err
	}

	customer := &users.User{
		FirstName: "Alice",
		LastName:  "Nguyen",
		Email:     "alice@example.com",
		Password:  string(password),
		Role:      users.RoleCustomer,
	}
	return s.db.PostgreSQL.Create(customer).Error
}

func (s *Seeder) seedTheatre() error {
	theatre := &theatres.Theatre{
		Name:    "Screenly Downtown",
		Address: "42 Main Street",
	}
	if err := s.db.PostgreSQL.Create(theatre).Error; err != nil {
		return err
	}
	s.theatre = theatre
	return nil
}

func (s *Seeder) seedSeatTypes() error {
	standard := &theatres.SeatType{
		Name:   "Standard",
		Cost2D: 9.50,
		Cost3D: 12.50,
	}
	if err := s.db.PostgreSQL.Create(standard).Error; err != nil {
		return err
	}
	s.seatType = standard

	premium := &theatres.SeatType{
		Name:   "Premium",
		Cost2D: 14.00,
		Cost3D: 18.00,
	}
	return s.db.PostgreSQL.Create(premium).Error
}

func (s *Seeder) seedHall() error {
	hall := &theatres.Hall{
		TheatreID:   s.theatre.ID,
		Number:      1,
		Rows:        8,
		SeatsPerRow: 12,
	}
	if err := s.db.PostgreSQL.Create(hall).Error; err != nil {
		return err
	}

	seats := make([]theatres.Seat, 0, hall.Rows*hall.SeatsPerRow)
	for row := 1; row <= hall.Rows; row++ {
		for number := 1; number <= hall.SeatsPerRow; number++ {
			seats = append(seats, theatres.Seat{
				HallID: hall.ID,
				Row:    row,
				Number: number,
				TypeID: s.seatType.ID,
			})
		}
	}
	if err := s.db.PostgreSQL.CreateInBatches(seats, 500).Error; err != nil {
		return err
	}

	s.hall = hall
	return nil
}

func (s *Seeder) seedMovies() error {
	s.movieSet = []movies.Movie{
		{Title: "The Long Night", Director: "R. Castellanos", Description: "A detective chases a thief through a city that never wakes up.", Year: 2024, Length: 128},
		{Title: "Orbital", Director: "J. Park", Description: "Three astronauts lose contact with Earth.", Year: 2025, Length: 142},
		{Title: "Paper Kites", Director: "A. Okafor", Description: "Two kids build a kite that wins more than a contest.", Year: 2023, Length: 96},
	}

	for i := range s.movieSet {
		if err := s.db.PostgreSQL.Create(&s.movieSet[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedSessions() error {
	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)

	for i, movie := range s.movieSet {
		for j := 0; j < 3; j++ {
			session := &sessions.Session{
				MovieID:   movie.ID,
				HallID:    s.hall.ID,
				StartsAt:  base.Add(time.Duration(i*3+j) * 3 * time.Hour),
				Is3D:      j == 2,
				CreatedBy: s.manager.ID,
			}
			if err := s.db.PostgreSQL.Create(session).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
