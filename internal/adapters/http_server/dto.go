package httpserver

import (
	"time"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

const dateLayout = "2006-01-02"

type locationDTO struct {
	Address    string  `json:"address"`
	City       string  `json:"city"`
	Country    string  `json:"country"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	PostalCode string  `json:"postal_code,omitempty"`
}

type roomDTO struct {
	RoomType       string  `json:"room_type"`
	PricePerNight  float64 `json:"price_per_night"`
	Capacity       int     `json:"capacity"`
	AvailableCount int     `json:"available_count"`
	Description    string  `json:"description,omitempty"`
}

type createHotelRequest struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Location     locationDTO       `json:"location"`
	Category     string            `json:"category"`
	StarRating   int               `json:"star_rating"`
	Amenities    []string          `json:"amenities"`
	Rooms        []roomDTO         `json:"rooms"`
	Images       []string          `json:"images"`
	CheckInTime  string            `json:"check_in_time"`
	CheckOutTime string            `json:"check_out_time"`
	Policies     map[string]string `json:"policies"`
}

func (r createHotelRequest) toDomain() domain.Hotel {
	return domain.Hotel{
		Name:        r.Name,
		Description: r.Description,
		Location: domain.Location{
			Address:    r.Location.Address,
			City:       r.Location.City,
			Country:    r.Location.Country,
			Latitude:   r.Location.Latitude,
			Longitude:  r.Location.Longitude,
			PostalCode: r.Location.PostalCode,
		},
		Category:     domain.Category(r.Category),
		StarRating:   r.StarRating,
		Amenities:    toAmenities(r.Amenities),
		Rooms:        toRooms(r.Rooms),
		Images:       r.Images,
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		Policies:     r.Policies,
	}
}

type updateHotelRequest struct {
	Name         *string           `json:"name"`
	Description  *string           `json:"description"`
	StarRating   *int              `json:"star_rating"`
	Amenities    []string          `json:"amenities"`
	Rooms        []roomDTO         `json:"rooms"`
	Images       []string          `json:"images"`
	CheckInTime  *string           `json:"check_in_time"`
	CheckOutTime *string           `json:"check_out_time"`
	Policies     map[string]string `json:"policies"`
}

func (r updateHotelRequest) toUpdate() app.HotelUpdate {
	upd := app.HotelUpdate{
		Name:         r.Name,
		Description:  r.Description,
		StarRating:   r.StarRating,
		Images:       r.Images,
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		Policies:     r.Policies,
	}
	if r.Amenities != nil {
		upd.Amenities = toAmenities(r.Amenities)
	}
	if r.Rooms != nil {
		upd.Rooms = toRooms(r.Rooms)
	}
	return upd
}

type hotelResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Location       locationDTO       `json:"location"`
	Category       string            `json:"category"`
	StarRating     int               `json:"star_rating"`
	Amenities      []string          `json:"amenities"`
	Rooms          []roomDTO         `json:"rooms"`
	Images         []string          `json:"images"`
	CheckInTime    string            `json:"check_in_time"`
	CheckOutTime   string            `json:"check_out_time"`
	Policies       map[string]string `json:"policies"`
	MinimumPrice   float64           `json:"minimum_price"`
	AvailableRooms int               `json:"available_rooms"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

func toHotelResponse(h *domain.Hotel) hotelResponse {
	amenities := make([]string, 0, len(h.Amenities))
	for _, a := range h.Amenities {
		amenities = append(amenities, string(a))
	}
	rooms := make([]roomDTO, 0, len(h.Rooms))
	for _, r := range h.Rooms {
		rooms = append(rooms, roomDTO(r))
	}
	return hotelResponse{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		Location: locationDTO{
			Address:    h.Location.Address,
			City:       h.Location.City,
			Country:    h.Location.Country,
			Latitude:   h.Location.Latitude,
			Longitude:  h.Location.Longitude,
			PostalCode: h.Location.PostalCode,
		},
		Category:       string(h.Category),
		StarRating:     h.StarRating,
		Amenities:      amenities,
		Rooms:          rooms,
		Images:         h.Images,
		CheckInTime:    h.CheckInTime,
		CheckOutTime:   h.CheckOutTime,
		Policies:       h.Policies,
		MinimumPrice:   h.MinimumPrice(),
		AvailableRooms: h.AvailableRooms(),
		CreatedAt:      h.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      h.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toAmenities(in []string) []domain.Amenity {
	out := make([]domain.Amenity, 0, len(in))
	for _, a := range in {
		out = append(out, domain.Amenity(a))
	}
	return out
}

func toRooms(in []roomDTO) []domain.Room {
	out := make([]domain.Room, 0, len(in))
	for _, r := range in {
		out = append(out, domain.Room(r))
	}
	return out
}

type createBookingRequest struct {
	HotelID         string `json:"hotel_id"`
	UserID          string `json:"user_id"`
	RoomType        string `json:"room_type"`
	CheckInDate     string `json:"check_in_date"`
	CheckOutDate    string `json:"check_out_date"`
	GuestsCount     int    `json:"guests_count"`
	SpecialRequests string `json:"special_requests"`
}

type bookingResponse struct {
	ID              string  `json:"id"`
	HotelID         string  `json:"hotel_id"`
	HotelName       string  `json:"hotel_name"`
	UserID          string  `json:"user_id"`
	RoomType        string  `json:"room_type"`
	CheckInDate     string  `json:"check_in_date"`
	CheckOutDate    string  `json:"check_out_date"`
	Nights          int     `json:"nights"`
	GuestsCount     int     `json:"guests_count"`
	TotalPrice      float64 `json:"total_price"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	SpecialRequests string  `json:"special_requests,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toBookingResponse(d *app.BookingDetail) bookingResponse {
	b := d.Booking
	return bookingResponse{
		ID:              b.ID,
		HotelID:         b.HotelID,
		HotelName:       d.HotelName,
		UserID:          b.UserID,
		RoomType:        b.RoomType,
		CheckInDate:     b.CheckIn.UTC().Format(dateLayout),
		CheckOutDate:    b.CheckOut.UTC().Format(dateLayout),
		Nights:          b.Nights(),
		GuestsCount:     b.GuestsCount,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type searchResponse struct {
	Hotels     []hotelResponse `json:"hotels"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role"`
	IsActive    bool   `json:"is_active"`
	IsVerified  bool   `json:"is_verified"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
	}
}
