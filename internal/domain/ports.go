package domain

import (
	"context"
	"time"
)

type HotelRepository interface {
	Create(ctx context.Context, h *Hotel) (string, error)
	GetByID(ctx context.Context, id string) (*Hotel, error)
	List(ctx context.Context, skip, limit int) ([]Hotel, error)
	Update(ctx context.Context, id string, h *Hotel) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, f SearchFilter) ([]Hotel, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *Booking) (string, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	ListByHotel(ctx context.Context, hotelID string) ([]Booking, error)
	Update(ctx context.Context, id string, b *Booking) error
	Delete(ctx context.Context, id string) error

	// CountOverlapping counts pending/confirmed bookings for the hotel and
	// room type whose [check-in, check-out) interval overlaps the given one.
	CountOverlapping(ctx context.Context, hotelID, roomType string, checkIn, checkOut time.Time) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *User) (string, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SearchFilter is the persistence-side filter; relevance scoring happens in
// the service on top of its result.
type SearchFilter struct {
	City      *string
	CheckIn   *time.Time
	CheckOut  *time.Time
	Guests    int
	MinPrice  *float64
	MaxPrice  *float64
	Amenities []Amenity
	MinRating *int
	Limit     int
}
