package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

// RoomTypeCapacity is the per-room-type inventory ceiling: a room type is
// available while fewer than min(RoomTypeCapacity, available_count)
// pending/confirmed bookings overlap the requested interval. A count-based
// approximation, not a per-unit ledger.
const RoomTypeCapacity = 5

// keyedMutex hands out one mutex per key so check-then-insert sequences for
// the same (hotel, room type) cannot interleave within this process.
type keyedMutex struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.m == nil {
		k.m = map[string]*sync.Mutex{}
	}
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	return l
}

type BookingService struct {
	bookings domain.BookingRepository
	hotels   domain.HotelRepository
	cache    domain.Cache
	locks    keyedMutex
}

func NewBookingService(b domain.BookingRepository, h domain.HotelRepository, c domain.Cache) *BookingService {
	return &BookingService{bookings: b, hotels: h, cache: c}
}

// BookingDetail pairs a booking with the (weakly referenced) hotel's name.
type BookingDetail struct {
	Booking   domain.Booking
	HotelName string
}

type CreateBooking struct {
	HotelID         string
	UserID          string
	RoomType        string
	CheckIn         time.Time
	CheckOut        time.Time
	GuestsCount     int
	SpecialRequests string
}

// CheckAvailability reports whether the room type has capacity left for the
// requested [check-in, check-out) interval. Read-only.
func (s *BookingService) CheckAvailability(ctx context.Context, hotelID, roomType string, checkIn, checkOut time.Time) (bool, error) {
	hotel, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		if err == domain.ErrNotFound {
			return false, domain.ErrHotelNotFound
		}
		return false, err
	}
	room := hotel.RoomByType(roomType)
	if room == nil {
		return false, domain.ErrUnknownRoomType
	}
	return s.hasCapacity(ctx, room, hotelID, roomType, checkIn, checkOut)
}

func (s *BookingService) hasCapacity(ctx context.Context, room *domain.Room, hotelID, roomType string, checkIn, checkOut time.Time) (bool, error) {
	limit := int64(RoomTypeCapacity)
	if int64(room.AvailableCount) < limit {
		limit = int64(room.AvailableCount)
	}
	n, err := s.bookings.CountOverlapping(ctx, hotelID, roomType, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return n < limit, nil
}

// Create validates the hotel, room type and availability, prices the stay at
// nights x nightly rate, and inserts the booking. The availability check and
// insert run under a per-(hotel, room type) lock so two concurrent creates
// cannot both pass the check.
func (s *BookingService) Create(ctx context.Context, req CreateBooking) (*BookingDetail, error) {
	hotel, err := s.hotels.GetByID(ctx, req.HotelID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrHotelNotFound
		}
		return nil, err
	}
	room := hotel.RoomByType(req.RoomType)
	if room == nil {
		return nil, domain.ErrUnknownRoomType
	}

	// whole-day difference; the date-order invariant is checked first inside
	// NewBooking, so a reversed range surfaces as a date error, not a price one
	nights := int(req.CheckOut.Sub(req.CheckIn).Hours() / 24)
	booking, err := domain.NewBooking(domain.Booking{
		HotelID:         req.HotelID,
		UserID:          req.UserID,
		RoomType:        req.RoomType,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		GuestsCount:     req.GuestsCount,
		TotalPrice:      float64(nights) * room.PricePerNight,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return nil, err
	}

	lock := s.locks.get(req.HotelID + "|" + req.RoomType)
	lock.Lock()
	defer lock.Unlock()

	ok, err := s.hasCapacity(ctx, room, req.HotelID, req.RoomType, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.ObserveBooking("rejected")
		return nil, domain.ErrRoomUnavailable
	}

	id, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, err
	}
	booking.ID = id
	bumpSearchEpoch(ctx, s.cache)
	observability.ObserveBooking("created")
	log.Info().Str("booking_id", id).Str("hotel_id", req.HotelID).
		Str("room_type", req.RoomType).Float64("total", booking.TotalPrice).
		Msg("booking created")

	return &BookingDetail{Booking: *booking, HotelName: hotel.Name}, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (*BookingDetail, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookingDetail{Booking: *b, HotelName: s.hotelName(ctx, b.HotelID)}, nil
}

func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]BookingDetail, error) {
	bs, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]BookingDetail, 0, len(bs))
	for _, b := range bs {
		out = append(out, BookingDetail{Booking: b, HotelName: s.hotelName(ctx, b.HotelID)})
	}
	return out, nil
}

func (s *BookingService) ListByHotel(ctx context.Context, hotelID string) ([]BookingDetail, error) {
	bs, err := s.bookings.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	name := s.hotelName(ctx, hotelID)
	out := make([]BookingDetail, 0, len(bs))
	for _, b := range bs {
		out = append(out, BookingDetail{Booking: b, HotelName: name})
	}
	return out, nil
}

func (s *BookingService) Confirm(ctx context.Context, id string) (*BookingDetail, error) {
	return s.transition(ctx, id, (*domain.Booking).Confirm, "confirmed")
}

func (s *BookingService) Cancel(ctx context.Context, id string) (*BookingDetail, error) {
	return s.transition(ctx, id, (*domain.Booking).Cancel, "cancelled")
}

func (s *BookingService) transition(ctx context.Context, id string, step func(*domain.Booking) error, event string) (*BookingDetail, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := step(b); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, id, b); err != nil {
		return nil, err
	}
	bumpSearchEpoch(ctx, s.cache)
	observability.ObserveBooking(event)
	return &BookingDetail{Booking: *b, HotelName: s.hotelName(ctx, b.HotelID)}, nil
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}
	bumpSearchEpoch(ctx, s.cache)
	return nil
}

func (s *BookingService) hotelName(ctx context.Context, hotelID string) string {
	h, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		return "Unknown Hotel"
	}
	return h.Name
}
