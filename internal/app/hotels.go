package app

import (
	"context"
	"fmt"
	"time"

	"stayhub/internal/domain"
)

type HotelService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewHotelService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{repo: r, cache: c, cacheTTL: ttl}
}

func hotelKey(id string) string { return fmt.Sprintf("hotel:%s", id) }

func (s *HotelService) Create(ctx context.Context, h domain.Hotel) (*domain.Hotel, error) {
	hotel, err := domain.NewHotel(h)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, hotel)
	if err != nil {
		return nil, err
	}
	hotel.ID = id
	bumpSearchEpoch(ctx, s.cache)
	return hotel, nil
}

func (s *HotelService) Get(ctx context.Context, id string) (*domain.Hotel, error) {
	var cached domain.Hotel
	if ok, _ := s.cache.Get(ctx, hotelKey(id), &cached); ok {
		return &cached, nil
	}
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, hotelKey(id), h, int(s.cacheTTL.Seconds()))
	return h, nil
}

func (s *HotelService) List(ctx context.Context, skip, limit int) ([]domain.Hotel, error) {
	return s.repo.List(ctx, skip, limit)
}

// HotelUpdate carries the optional fields of a partial update; nil means
// leave the current value alone. Sub-objects are replaced whole.
type HotelUpdate struct {
	Name         *string
	Description  *string
	StarRating   *int
	Amenities    []domain.Amenity
	Rooms        []domain.Room
	Images       []string
	CheckInTime  *string
	CheckOutTime *string
	Policies     map[string]string
}

func (s *HotelService) Update(ctx context.Context, id string, upd HotelUpdate) (*domain.Hotel, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		h.Name = *upd.Name
	}
	if upd.Description != nil {
		h.Description = *upd.Description
	}
	if upd.StarRating != nil {
		h.StarRating = *upd.StarRating
	}
	if upd.Amenities != nil {
		h.Amenities = upd.Amenities
	}
	if upd.Rooms != nil {
		h.Rooms = upd.Rooms
	}
	if upd.Images != nil {
		h.Images = upd.Images
	}
	if upd.CheckInTime != nil {
		h.CheckInTime = *upd.CheckInTime
	}
	if upd.CheckOutTime != nil {
		h.CheckOutTime = *upd.CheckOutTime
	}
	if upd.Policies != nil {
		h.Policies = upd.Policies
	}
	h.UpdatedAt = time.Now().UTC()

	// re-run construction invariants on the merged entity
	merged, err := domain.NewHotel(*h)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, merged); err != nil {
		return nil, err
	}
	_ = s.cache.Del(ctx, hotelKey(id))
	bumpSearchEpoch(ctx, s.cache)
	merged.ID = id
	return merged, nil
}

func (s *HotelService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, hotelKey(id))
	bumpSearchEpoch(ctx, s.cache)
	return nil
}
