package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stayhub/internal/domain"
)

// ---- fakes ----

type fakeHotelRepo struct {
	seq    int
	order  []string
	hotels map[string]domain.Hotel
}

func newFakeHotelRepo() *fakeHotelRepo {
	return &fakeHotelRepo{hotels: map[string]domain.Hotel{}}
}

func (f *fakeHotelRepo) Create(ctx context.Context, h *domain.Hotel) (string, error) {
	f.seq++
	id := fmt.Sprintf("h%d", f.seq)
	cp := *h
	cp.ID = id
	f.hotels[id] = cp
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeHotelRepo) GetByID(ctx context.Context, id string) (*domain.Hotel, error) {
	h, ok := f.hotels[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := h
	return &cp, nil
}

func (f *fakeHotelRepo) List(ctx context.Context, skip, limit int) ([]domain.Hotel, error) {
	all := f.all()
	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeHotelRepo) Update(ctx context.Context, id string, h *domain.Hotel) error {
	if _, ok := f.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	cp := *h
	cp.ID = id
	f.hotels[id] = cp
	return nil
}

func (f *fakeHotelRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.hotels, id)
	return nil
}

// Search ignores the filters; the ranking tests care about order, which is
// insertion order here, matching the repository contract.
func (f *fakeHotelRepo) Search(ctx context.Context, q domain.SearchFilter) ([]domain.Hotel, error) {
	return f.all(), nil
}

func (f *fakeHotelRepo) all() []domain.Hotel {
	out := make([]domain.Hotel, 0, len(f.order))
	for _, id := range f.order {
		if h, ok := f.hotels[id]; ok {
			out = append(out, h)
		}
	}
	return out
}

type fakeBookingRepo struct {
	seq      int
	bookings map[string]domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]domain.Booking{}}
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) (string, error) {
	f.seq++
	id := fmt.Sprintf("b%d", f.seq)
	cp := *b
	cp.ID = id
	f.bookings[id] = cp
	return id, nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := b
	return &cp, nil
}

func (f *fakeBookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.HotelID == hotelID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) Update(ctx context.Context, id string, b *domain.Booking) error {
	if _, ok := f.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	cp := *b
	cp.ID = id
	f.bookings[id] = cp
	return nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) CountOverlapping(ctx context.Context, hotelID, roomType string, checkIn, checkOut time.Time) (int64, error) {
	var n int64
	for _, b := range f.bookings {
		if b.HotelID != hotelID || b.RoomType != roomType {
			continue
		}
		if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
			continue
		}
		if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	seq   int
	users map[string]domain.User // by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) (string, error) {
	for _, have := range f.users {
		if have.Email == u.Email {
			return "", domain.ErrEmailTaken
		}
	}
	f.seq++
	id := fmt.Sprintf("u%d", f.seq)
	cp := *u
	cp.ID = id
	f.users[id] = cp
	return id, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeCache stores JSON the way the redis adapter does, so any value the
// services cache (hotels, search pages, the search epoch) round-trips.
type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// ---- shared helpers ----

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }
