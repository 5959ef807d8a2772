package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"stayhub/internal/domain"
)

// Storage representation. Timestamps are RFC 3339 strings and booking dates
// are YYYY-MM-DD strings, so the overlap query's $lt/$gt compare correctly
// as lexicographic string comparisons.

const dateLayout = "2006-01-02"

type locationDoc struct {
	Address    string  `bson:"address"`
	City       string  `bson:"city"`
	Country    string  `bson:"country"`
	Latitude   float64 `bson:"latitude"`
	Longitude  float64 `bson:"longitude"`
	PostalCode string  `bson:"postal_code,omitempty"`
}

type roomDoc struct {
	RoomType       string  `bson:"room_type"`
	PricePerNight  float64 `bson:"price_per_night"`
	Capacity       int     `bson:"capacity"`
	AvailableCount int     `bson:"available_count"`
	Description    string  `bson:"description,omitempty"`
}

type hotelDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description"`
	Location     locationDoc        `bson:"location"`
	Category     string             `bson:"category"`
	StarRating   int                `bson:"star_rating"`
	Amenities    []string           `bson:"amenities"`
	Rooms        []roomDoc          `bson:"rooms"`
	Images       []string           `bson:"images"`
	CheckInTime  string             `bson:"check_in_time"`
	CheckOutTime string             `bson:"check_out_time"`
	Policies     map[string]string  `bson:"policies"`
	CreatedAt    string             `bson:"created_at"`
	UpdatedAt    string             `bson:"updated_at"`
}

type bookingDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	HotelID         string             `bson:"hotel_id"`
	UserID          string             `bson:"user_id"`
	RoomType        string             `bson:"room_type"`
	CheckInDate     string             `bson:"check_in_date"`
	CheckOutDate    string             `bson:"check_out_date"`
	GuestsCount     int                `bson:"guests_count"`
	TotalPrice      float64            `bson:"total_price"`
	Status          string             `bson:"status"`
	PaymentStatus   string             `bson:"payment_status"`
	SpecialRequests string             `bson:"special_requests,omitempty"`
	CreatedAt       string             `bson:"created_at"`
	UpdatedAt       string             `bson:"updated_at"`
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	FullName     string             `bson:"full_name"`
	PhoneNumber  string             `bson:"phone_number,omitempty"`
	Role         string             `bson:"role"`
	IsActive     bool               `bson:"is_active"`
	IsVerified   bool               `bson:"is_verified"`
	PasswordHash []byte             `bson:"password_hash"`
	Preferences  map[string]string  `bson:"preferences"`
	CreatedAt    string             `bson:"created_at"`
	UpdatedAt    string             `bson:"updated_at"`
}

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }
func fmtDate(t time.Time) string { return t.UTC().Format(dateLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func toHotelDoc(h *domain.Hotel) hotelDoc {
	amenities := make([]string, 0, len(h.Amenities))
	for _, a := range h.Amenities {
		amenities = append(amenities, string(a))
	}
	rooms := make([]roomDoc, 0, len(h.Rooms))
	for _, r := range h.Rooms {
		rooms = append(rooms, roomDoc(r))
	}
	return hotelDoc{
		Name:        h.Name,
		Description: h.Description,
		Location: locationDoc{
			Address:    h.Location.Address,
			City:       h.Location.City,
			Country:    h.Location.Country,
			Latitude:   h.Location.Latitude,
			Longitude:  h.Location.Longitude,
			PostalCode: h.Location.PostalCode,
		},
		Category:     string(h.Category),
		StarRating:   h.StarRating,
		Amenities:    amenities,
		Rooms:        rooms,
		Images:       h.Images,
		CheckInTime:  h.CheckInTime,
		CheckOutTime: h.CheckOutTime,
		Policies:     h.Policies,
		CreatedAt:    fmtTime(h.CreatedAt),
		UpdatedAt:    fmtTime(h.UpdatedAt),
	}
}

func fromHotelDoc(d hotelDoc) domain.Hotel {
	amenities := make([]domain.Amenity, 0, len(d.Amenities))
	for _, a := range d.Amenities {
		amenities = append(amenities, domain.Amenity(a))
	}
	rooms := make([]domain.Room, 0, len(d.Rooms))
	for _, r := range d.Rooms {
		rooms = append(rooms, domain.Room(r))
	}
	return domain.Hotel{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Location: domain.Location{
			Address:    d.Location.Address,
			City:       d.Location.City,
			Country:    d.Location.Country,
			Latitude:   d.Location.Latitude,
			Longitude:  d.Location.Longitude,
			PostalCode: d.Location.PostalCode,
		},
		Category:     domain.Category(d.Category),
		StarRating:   d.StarRating,
		Amenities:    amenities,
		Rooms:        rooms,
		Images:       d.Images,
		CheckInTime:  d.CheckInTime,
		CheckOutTime: d.CheckOutTime,
		Policies:     d.Policies,
		CreatedAt:    parseTime(d.CreatedAt),
		UpdatedAt:    parseTime(d.UpdatedAt),
	}
}

func toBookingDoc(b *domain.Booking) bookingDoc {
	return bookingDoc{
		HotelID:         b.HotelID,
		UserID:          b.UserID,
		RoomType:        b.RoomType,
		CheckInDate:     fmtDate(b.CheckIn),
		CheckOutDate:    fmtDate(b.CheckOut),
		GuestsCount:     b.GuestsCount,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       fmtTime(b.CreatedAt),
		UpdatedAt:       fmtTime(b.UpdatedAt),
	}
}

func fromBookingDoc(d bookingDoc) domain.Booking {
	return domain.Booking{
		ID:              d.ID.Hex(),
		HotelID:         d.HotelID,
		UserID:          d.UserID,
		RoomType:        d.RoomType,
		CheckIn:         parseDate(d.CheckInDate),
		CheckOut:        parseDate(d.CheckOutDate),
		GuestsCount:     d.GuestsCount,
		TotalPrice:      d.TotalPrice,
		Status:          domain.BookingStatus(d.Status),
		PaymentStatus:   domain.PaymentStatus(d.PaymentStatus),
		SpecialRequests: d.SpecialRequests,
		CreatedAt:       parseTime(d.CreatedAt),
		UpdatedAt:       parseTime(d.UpdatedAt),
	}
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		Email:        u.Email,
		FullName:     u.FullName,
		PhoneNumber:  u.PhoneNumber,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		IsVerified:   u.IsVerified,
		PasswordHash: u.PasswordHash,
		Preferences:  u.Preferences,
		CreatedAt:    fmtTime(u.CreatedAt),
		UpdatedAt:    fmtTime(u.UpdatedAt),
	}
}

func fromUserDoc(d userDoc) domain.User {
	return domain.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		FullName:     d.FullName,
		PhoneNumber:  d.PhoneNumber,
		Role:         domain.Role(d.Role),
		IsActive:     d.IsActive,
		IsVerified:   d.IsVerified,
		PasswordHash: d.PasswordHash,
		Preferences:  d.Preferences,
		CreatedAt:    parseTime(d.CreatedAt),
		UpdatedAt:    parseTime(d.UpdatedAt),
	}
}
