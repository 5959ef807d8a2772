package domain

import "time"

type Category string

const (
	CategoryBudget   Category = "budget"
	CategoryStandard Category = "standard"
	CategoryLuxury   Category = "luxury"
	CategoryBoutique Category = "boutique"
	CategoryResort   Category = "resort"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBudget, CategoryStandard, CategoryLuxury, CategoryBoutique, CategoryResort:
		return true
	}
	return false
}

type Amenity string

const (
	AmenityWifi           Amenity = "wifi"
	AmenityParking        Amenity = "parking"
	AmenityPool           Amenity = "pool"
	AmenityGym            Amenity = "gym"
	AmenitySpa            Amenity = "spa"
	AmenityRestaurant     Amenity = "restaurant"
	AmenityBar            Amenity = "bar"
	AmenityRoomService    Amenity = "room_service"
	AmenityAirportShuttle Amenity = "airport_shuttle"
	AmenityPetFriendly    Amenity = "pet_friendly"
)

func (a Amenity) Valid() bool {
	switch a {
	case AmenityWifi, AmenityParking, AmenityPool, AmenityGym, AmenitySpa,
		AmenityRestaurant, AmenityBar, AmenityRoomService, AmenityAirportShuttle,
		AmenityPetFriendly:
		return true
	}
	return false
}

type Location struct {
	Address    string
	City       string
	Country    string
	Latitude   float64
	Longitude  float64
	PostalCode string
}

// Room is a value object embedded in Hotel, one entry per room type.
type Room struct {
	RoomType       string
	PricePerNight  float64
	Capacity       int
	AvailableCount int
	Description    string
}

func (r Room) validate() error {
	if r.RoomType == "" {
		return invalid("room_type", "must not be empty")
	}
	if r.PricePerNight <= 0 {
		return invalid("price_per_night", "must be positive")
	}
	if r.Capacity < 1 || r.Capacity > 10 {
		return invalid("capacity", "must be between 1 and 10")
	}
	if r.AvailableCount < 0 {
		return invalid("available_count", "must not be negative")
	}
	return nil
}

type Hotel struct {
	ID           string
	Name         string
	Description  string
	Location     Location
	Category     Category
	StarRating   int
	Amenities    []Amenity
	Rooms        []Room
	Images       []string
	CheckInTime  string
	CheckOutTime string
	Policies     map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewHotel validates construction invariants and fills defaults
// (check-in 14:00, check-out 11:00).
func NewHotel(h Hotel) (*Hotel, error) {
	if h.Name == "" {
		return nil, invalid("name", "must not be empty")
	}
	if h.StarRating < 1 || h.StarRating > 5 {
		return nil, invalid("star_rating", "must be between 1 and 5")
	}
	if !h.Category.Valid() {
		return nil, invalid("category", "unknown category "+string(h.Category))
	}
	for _, a := range h.Amenities {
		if !a.Valid() {
			return nil, invalid("amenities", "unknown amenity "+string(a))
		}
	}
	for _, r := range h.Rooms {
		if err := r.validate(); err != nil {
			return nil, err
		}
	}
	if h.CheckInTime == "" {
		h.CheckInTime = "14:00"
	}
	if h.CheckOutTime == "" {
		h.CheckOutTime = "11:00"
	}
	if h.Policies == nil {
		h.Policies = map[string]string{}
	}
	now := time.Now().UTC()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = now
	}
	return &h, nil
}

// MinimumPrice returns the lowest nightly rate across room types, 0 with no rooms.
func (h *Hotel) MinimumPrice() float64 {
	if len(h.Rooms) == 0 {
		return 0
	}
	min := h.Rooms[0].PricePerNight
	for _, r := range h.Rooms[1:] {
		if r.PricePerNight < min {
			min = r.PricePerNight
		}
	}
	return min
}

// AvailableRooms sums available counts across all room types.
func (h *Hotel) AvailableRooms() int {
	total := 0
	for _, r := range h.Rooms {
		total += r.AvailableCount
	}
	return total
}

func (h *Hotel) HasAmenity(a Amenity) bool {
	for _, have := range h.Amenities {
		if have == a {
			return true
		}
	}
	return false
}

// RoomByType returns the room entry with the given type label, or nil.
func (h *Hotel) RoomByType(roomType string) *Room {
	for i := range h.Rooms {
		if h.Rooms[i].RoomType == roomType {
			return &h.Rooms[i]
		}
	}
	return nil
}
