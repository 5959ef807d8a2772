package domain

import "time"

type Role string

const (
	RoleGuest      Role = "guest"
	RoleHotelOwner Role = "hotel_owner"
	RoleAdmin      Role = "admin"
)

type Permission string

const (
	PermViewHotels       Permission = "view_hotels"
	PermMakeBooking      Permission = "make_booking"
	PermViewOwnBookings  Permission = "view_own_bookings"
	PermManageOwnHotels  Permission = "manage_own_hotels"
	PermViewHotelBooking Permission = "view_hotel_bookings"
	PermAll              Permission = "all"
)

// rolePermissions is evaluated once; Can consults it instead of rebuilding
// a table per call.
var rolePermissions = map[Role][]Permission{
	RoleGuest:      {PermViewHotels, PermMakeBooking, PermViewOwnBookings},
	RoleHotelOwner: {PermViewHotels, PermMakeBooking, PermViewOwnBookings, PermManageOwnHotels, PermViewHotelBooking},
	RoleAdmin:      {PermAll},
}

type User struct {
	ID          string
	Email       string
	FullName    string
	PhoneNumber string
	Role        Role
	IsActive    bool
	IsVerified  bool
	// PasswordHash is a credential, not a preference; it is persisted but
	// never serialized to the API.
	PasswordHash []byte
	Preferences  map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(u User) (*User, error) {
	if u.Email == "" {
		return nil, invalid("email", "must not be empty")
	}
	if u.FullName == "" {
		return nil, invalid("full_name", "must not be empty")
	}
	if u.Role == "" {
		u.Role = RoleGuest
	}
	if u.Preferences == nil {
		u.Preferences = map[string]string{}
	}
	u.IsActive = true
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	return &u, nil
}

func (u *User) Can(p Permission) bool {
	for _, have := range rolePermissions[u.Role] {
		if have == PermAll || have == p {
			return true
		}
	}
	return false
}
