package main

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
	"stayhub/internal/shared"
	mongostore "stayhub/internal/storage/mongo"
)

// seedHotels is the demo inventory loaded into an empty database. Room
// prices and availability are chosen so the sample searches return a
// sensible ranking out of the box.
var seedHotels = []domain.Hotel{
	{
		Name:        "Grand Palace Hotel",
		Description: "A luxurious 5-star hotel in the heart of Paris with stunning views of the Eiffel Tower and world-class amenities.",
		Location: domain.Location{
			Address: "123 Champs-Élysées", City: "Paris", Country: "France",
			Latitude: 48.8566, Longitude: 2.3522, PostalCode: "75008",
		},
		Category:   domain.CategoryLuxury,
		StarRating: 5,
		Amenities: []domain.Amenity{
			domain.AmenityWifi, domain.AmenityPool, domain.AmenitySpa,
			domain.AmenityRestaurant, domain.AmenityGym, domain.AmenityRoomService,
		},
		Rooms: []domain.Room{
			{RoomType: "Deluxe Room", PricePerNight: 250, Capacity: 2, AvailableCount: 10, Description: "Elegant room with city view and modern amenities"},
			{RoomType: "Presidential Suite", PricePerNight: 500, Capacity: 4, AvailableCount: 2, Description: "Luxurious suite with panoramic views and butler service"},
		},
		CheckInTime:  "15:00",
		CheckOutTime: "11:00",
		Policies: map[string]string{
			"cancellation": "Free cancellation up to 24 hours before check-in",
			"pets":         "Pets are welcome with additional fee",
			"smoking":      "Non-smoking property",
		},
	},
	{
		Name:        "Tokyo Bay Resort",
		Description: "Modern waterfront hotel with panoramic bay views, authentic Japanese cuisine, and traditional spa services.",
		Location: domain.Location{
			Address: "1-1-1 Shibaura", City: "Tokyo", Country: "Japan",
			Latitude: 35.6762, Longitude: 139.6503, PostalCode: "108-0023",
		},
		Category:   domain.CategoryStandard,
		StarRating: 4,
		Amenities: []domain.Amenity{
			domain.AmenityWifi, domain.AmenityRestaurant, domain.AmenitySpa, domain.AmenityGym,
		},
		Rooms: []domain.Room{
			{RoomType: "Standard Room", PricePerNight: 180, Capacity: 2, AvailableCount: 15, Description: "Comfortable room with modern Japanese design"},
			{RoomType: "Bay View Room", PricePerNight: 220, Capacity: 2, AvailableCount: 8, Description: "Stunning bay views with traditional Japanese elements"},
		},
		CheckInTime:  "14:00",
		CheckOutTime: "11:00",
		Policies: map[string]string{
			"cancellation": "Free cancellation up to 48 hours before check-in",
			"pets":         "No pets allowed",
			"smoking":      "Designated smoking areas available",
		},
	},
	{
		Name:        "Manhattan Downtown Hotel",
		Description: "Stylish boutique hotel in the financial district, walking distance to Wall Street and Brooklyn Bridge.",
		Location: domain.Location{
			Address: "85 West Street", City: "New York", Country: "USA",
			Latitude: 40.7128, Longitude: -74.0060, PostalCode: "10006",
		},
		Category:   domain.CategoryBoutique,
		StarRating: 4,
		Amenities: []domain.Amenity{
			domain.AmenityWifi, domain.AmenityGym, domain.AmenityRestaurant, domain.AmenityBar,
		},
		Rooms: []domain.Room{
			{RoomType: "City View Room", PricePerNight: 320, Capacity: 2, AvailableCount: 12, Description: "Modern room with stunning city skyline views"},
			{RoomType: "Executive Suite", PricePerNight: 450, Capacity: 3, AvailableCount: 4, Description: "Spacious suite with separate living area and premium amenities"},
		},
		CheckInTime:  "16:00",
		CheckOutTime: "12:00",
		Policies: map[string]string{
			"cancellation": "Free cancellation up to 24 hours before check-in",
			"pets":         "Service animals only",
			"smoking":      "Non-smoking property",
		},
	},
	{
		Name:        "Royal London Hotel",
		Description: "Classic British elegance meets modern comfort in this historic hotel near Hyde Park and Buckingham Palace.",
		Location: domain.Location{
			Address: "1 Park Lane", City: "London", Country: "United Kingdom",
			Latitude: 51.5074, Longitude: -0.1278, PostalCode: "W1K 1QA",
		},
		Category:   domain.CategoryLuxury,
		StarRating: 5,
		Amenities: []domain.Amenity{
			domain.AmenityWifi, domain.AmenityPool, domain.AmenitySpa,
			domain.AmenityRestaurant, domain.AmenityBar, domain.AmenityRoomService,
		},
		Rooms: []domain.Room{
			{RoomType: "Classic Room", PricePerNight: 350, Capacity: 2, AvailableCount: 20, Description: "Elegantly appointed room with traditional British décor"},
			{RoomType: "Royal Suite", PricePerNight: 750, Capacity: 4, AvailableCount: 3, Description: "Opulent suite with park views and butler service"},
		},
		CheckInTime:  "15:00",
		CheckOutTime: "11:00",
		Policies: map[string]string{
			"cancellation": "Free cancellation up to 48 hours before check-in",
			"pets":         "Pets are welcome with advance notice",
			"smoking":      "Non-smoking property with designated outdoor areas",
		},
	},
	{
		Name:        "Barcelona Beach Resort",
		Description: "Mediterranean paradise with private beach access, rooftop terrace, and authentic Catalan cuisine.",
		Location: domain.Location{
			Address: "Passeig Marítim de la Barceloneta", City: "Barcelona", Country: "Spain",
			Latitude: 41.3851, Longitude: 2.1734, PostalCode: "08003",
		},
		Category:   domain.CategoryResort,
		StarRating: 4,
		Amenities: []domain.Amenity{
			domain.AmenityWifi, domain.AmenityPool, domain.AmenityRestaurant,
			domain.AmenityBar, domain.AmenitySpa,
		},
		Rooms: []domain.Room{
			{RoomType: "Ocean View Room", PricePerNight: 280, Capacity: 2, AvailableCount: 25, Description: "Bright room with stunning Mediterranean sea views"},
			{RoomType: "Beach Suite", PricePerNight: 420, Capacity: 4, AvailableCount: 6, Description: "Spacious suite with direct beach access and private terrace"},
		},
		CheckInTime:  "14:00",
		CheckOutTime: "12:00",
		Policies: map[string]string{
			"cancellation": "Free cancellation up to 24 hours before check-in",
			"pets":         "Small pets are welcome with additional fee",
			"smoking":      "Smoking allowed on private terraces only",
		},
	},
}

type seedUser struct {
	email, fullName, phone string
	role                   domain.Role
	preferences            map[string]string
}

var seedUsers = []seedUser{
	{"john.doe@example.com", "John Doe", "+1-555-123-4567", domain.RoleGuest,
		map[string]string{"currency": "USD", "language": "en", "newsletter": "true"}},
	{"jane.smith@example.com", "Jane Smith", "+1-555-987-6543", domain.RoleGuest,
		map[string]string{"currency": "EUR", "language": "en", "newsletter": "false"}},
	{"admin@stayhub.dev", "Admin User", "+1-555-000-0001", domain.RoleAdmin,
		map[string]string{"currency": "USD", "language": "en"}},
}

// all demo accounts share this password
const seedPassword = "password123"

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("workers", cfg.SeedWorkers).
		Int("hotels", len(seedHotels)).
		Int("users", len(seedUsers)).
		Msg("seeder starting")

	connCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	client, err := mongostore.Connect(connCtx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	db := client.Database(cfg.MongoDB)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes failed")
	}
	log.Info().Msg("db ping ok")

	hotels := mongostore.NewHotelRepo(db)
	users := mongostore.NewUserRepo(db)

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, h := range seedHotels {
		h := h

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			hotel, err := domain.NewHotel(h)
			if err != nil {
				log.Warn().Str("name", h.Name).Err(err).Msg("invalid seed hotel")
				return
			}
			id, err := hotels.Create(ctx, hotel)
			if err != nil {
				log.Warn().Str("name", h.Name).Err(err).Msg("seed hotel failed")
				return
			}
			log.Info().Str("id", id).Str("name", h.Name).Msg("hotel seeded")
		}()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash seed password failed")
	}

	for _, su := range seedUsers {
		su := su

		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			user, err := domain.NewUser(domain.User{
				Email:        su.email,
				FullName:     su.fullName,
				PhoneNumber:  su.phone,
				Role:         su.role,
				IsVerified:   true,
				PasswordHash: hash,
				Preferences:  su.preferences,
			})
			if err != nil {
				log.Warn().Str("email", su.email).Err(err).Msg("invalid seed user")
				return
			}
			id, err := users.Create(ctx, user)
			if err != nil {
				log.Warn().Str("email", su.email).Err(err).Msg("seed user failed")
				return
			}
			log.Info().Str("id", id).Str("email", su.email).Msg("user seeded")
		}()
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
