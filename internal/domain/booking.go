package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Booking references hotel and user by id; neither is owned.
type Booking struct {
	ID              string
	HotelID         string
	UserID          string
	RoomType        string
	CheckIn         time.Time // date, midnight UTC
	CheckOut        time.Time
	GuestsCount     int
	TotalPrice      float64
	Status          BookingStatus
	PaymentStatus   PaymentStatus
	SpecialRequests string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBooking enforces the construction invariants: ordered non-empty date
// range, 1-10 guests, positive total price. Status starts pending.
func NewBooking(b Booking) (*Booking, error) {
	if b.HotelID == "" {
		return nil, invalid("hotel_id", "must not be empty")
	}
	if b.UserID == "" {
		return nil, invalid("user_id", "must not be empty")
	}
	if b.RoomType == "" {
		return nil, invalid("room_type", "must not be empty")
	}
	if !b.CheckOut.After(b.CheckIn) {
		return nil, invalid("check_out_date", "must be after check-in date")
	}
	if b.GuestsCount < 1 {
		return nil, invalid("guests_count", "at least one guest is required")
	}
	if b.GuestsCount > 10 {
		return nil, invalid("guests_count", "maximum 10 guests per booking")
	}
	if b.TotalPrice <= 0 {
		return nil, invalid("total_price", "must be positive")
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentPending
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
	return &b, nil
}

// Nights is the whole-day difference between check-out and check-in.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// CanCancel reports whether the booking is still in a cancellable state.
func (b *Booking) CanCancel() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// Confirm moves pending -> confirmed; anything else is an invalid transition.
func (b *Booking) Confirm() error {
	if b.Status != BookingPending {
		return &TransitionError{From: b.Status, To: BookingConfirmed}
	}
	b.Status = BookingConfirmed
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel is allowed from pending or confirmed only.
func (b *Booking) Cancel() error {
	if !b.CanCancel() {
		return &TransitionError{From: b.Status, To: BookingCancelled}
	}
	b.Status = BookingCancelled
	b.UpdatedAt = time.Now().UTC()
	return nil
}
