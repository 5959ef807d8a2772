package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"time"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

type SearchService struct {
	hotels   domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewSearchService(h domain.HotelRepository, c domain.Cache, ttl time.Duration) *SearchService {
	return &SearchService{hotels: h, cache: c, cacheTTL: ttl}
}

type SearchQuery struct {
	Destination *string
	CheckIn     *time.Time
	CheckOut    *time.Time
	Guests      int
	MinPrice    *float64
	MaxPrice    *float64
	Amenities   []domain.Amenity
	MinRating   *int
	SortBy      string // relevance | price | rating
	Page        int
	PageSize    int
}

type SearchResult struct {
	Hotels     []domain.Hotel
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

// Search filters through the repository, ranks the candidates, and returns
// one page. Out-of-range pages come back empty, not as an error.
func (s *SearchService) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	observability.SearchQueries.Inc()
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.Page < 0 {
		q.Page = 0
	}

	key := searchKey(searchEpoch(ctx, s.cache), q)
	var cached SearchResult
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return &cached, nil
	}

	hotels, err := s.hotels.Search(ctx, domain.SearchFilter{
		City:      q.Destination,
		CheckIn:   q.CheckIn,
		CheckOut:  q.CheckOut,
		Guests:    q.Guests,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		Amenities: q.Amenities,
		MinRating: q.MinRating,
	})
	if err != nil {
		return nil, err
	}

	switch q.SortBy {
	case "price":
		sort.SliceStable(hotels, func(i, j int) bool {
			return hotels[i].MinimumPrice() < hotels[j].MinimumPrice()
		})
	case "rating":
		sort.SliceStable(hotels, func(i, j int) bool {
			return hotels[i].StarRating > hotels[j].StarRating
		})
	default:
		type scored struct {
			hotel domain.Hotel
			score float64
		}
		pairs := make([]scored, len(hotels))
		for i := range hotels {
			pairs[i] = scored{hotel: hotels[i], score: RelevanceScore(&hotels[i], q)}
		}
		// stable: ties keep the repository's order
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].score > pairs[j].score })
		for i := range pairs {
			hotels[i] = pairs[i].hotel
		}
	}

	total := len(hotels)
	res := &SearchResult{
		Hotels:     paginate(hotels, q.Page, q.PageSize),
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: (total + q.PageSize - 1) / q.PageSize,
	}
	_ = s.cache.Set(ctx, key, res, int(s.cacheTTL.Seconds()))
	return res, nil
}

// RelevanceScore is additive:
//
//	star_rating * 10
//	(1 - min_price/max_price) * 30   when max_price is set (unclamped)
//	(matched/requested) * 20         when amenities are requested
//	+10                              when total available rooms > 5
func RelevanceScore(h *domain.Hotel, q SearchQuery) float64 {
	score := float64(h.StarRating) * 10

	if q.MaxPrice != nil && *q.MaxPrice > 0 {
		ratio := h.MinimumPrice() / *q.MaxPrice
		score += (1 - ratio) * 30
	}

	if len(q.Amenities) > 0 {
		matched := 0
		for _, a := range q.Amenities {
			if h.HasAmenity(a) {
				matched++
			}
		}
		score += float64(matched) / float64(len(q.Amenities)) * 20
	}

	if h.AvailableRooms() > 5 {
		score += 10
	}
	return score
}

func paginate(hotels []domain.Hotel, page, pageSize int) []domain.Hotel {
	start := page * pageSize
	if start >= len(hotels) {
		return []domain.Hotel{}
	}
	end := start + pageSize
	if end > len(hotels) {
		end = len(hotels)
	}
	return hotels[start:end]
}

// PopularDestinations is a static aggregate; a production system would roll
// this up from bookings.
func (s *SearchService) PopularDestinations() []Destination {
	return []Destination{
		{City: "Paris", Country: "France", HotelsCount: 1250},
		{City: "London", Country: "UK", HotelsCount: 980},
		{City: "New York", Country: "USA", HotelsCount: 1500},
		{City: "Tokyo", Country: "Japan", HotelsCount: 750},
		{City: "Barcelona", Country: "Spain", HotelsCount: 620},
	}
}

type Destination struct {
	City        string `json:"city"`
	Country     string `json:"country"`
	HotelsCount int    `json:"hotels_count"`
}

// Trending returns the top-rated hotels, highest stars first.
func (s *SearchService) Trending(ctx context.Context, limit int) ([]domain.Hotel, error) {
	if limit < 1 {
		limit = 10
	}
	window := limit
	if window < 50 {
		window = 50
	}
	hotels, err := s.hotels.List(ctx, 0, window)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(hotels, func(i, j int) bool {
		return hotels[i].StarRating > hotels[j].StarRating
	})
	if len(hotels) > limit {
		hotels = hotels[:limit]
	}
	return hotels, nil
}

// searchEpochKey versions every cached search page. The Cache port has no
// pattern delete, so writers bump the epoch instead: the stale pages stop
// being addressable and age out with their TTL.
const searchEpochKey = "search:epoch"

func searchEpoch(ctx context.Context, c domain.Cache) string {
	var epoch string
	if ok, _ := c.Get(ctx, searchEpochKey, &epoch); ok {
		return epoch
	}
	epoch = strconv.FormatInt(time.Now().UnixNano(), 10)
	_ = c.Set(ctx, searchEpochKey, epoch, 0)
	return epoch
}

// bumpSearchEpoch invalidates all cached search pages. Called on hotel
// writes and booking state changes.
func bumpSearchEpoch(ctx context.Context, c domain.Cache) {
	_ = c.Set(ctx, searchEpochKey, strconv.FormatInt(time.Now().UnixNano(), 10), 0)
}

func searchKey(epoch string, q SearchQuery) string {
	raw := fmt.Sprintf("%s|%v|%v|%v|%d|%v|%v|%v|%v|%s|%d|%d",
		epoch, strOrNil(q.Destination), timeOrNil(q.CheckIn), timeOrNil(q.CheckOut),
		q.Guests, floatOrNil(q.MinPrice), floatOrNil(q.MaxPrice),
		q.Amenities, intOrNil(q.MinRating), q.SortBy, q.Page, q.PageSize)
	sum := sha1.Sum([]byte(raw))
	return "search:" + hex.EncodeToString(sum[:])
}

func strOrNil(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func timeOrNil(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format("2006-01-02")
}

func floatOrNil(p *float64) float64 {
	if p == nil {
		return -1
	}
	return *p
}

func intOrNil(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}
