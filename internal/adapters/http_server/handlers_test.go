package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	httpserver "stayhub/internal/adapters/http_server"
	"stayhub/internal/app"
	"stayhub/internal/domain"
)

// ---------- in-memory fakes ----------

type memHotelRepo struct {
	mu     sync.Mutex
	seq    int
	hotels map[string]domain.Hotel
	order  []string
}

func newMemHotelRepo() *memHotelRepo {
	return &memHotelRepo{hotels: map[string]domain.Hotel{}}
}

func (r *memHotelRepo) Create(_ context.Context, h *domain.Hotel) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := "h" + strconv.Itoa(r.seq)
	h.ID = id
	r.hotels[id] = *h
	r.order = append(r.order, id)
	return id, nil
}

func (r *memHotelRepo) GetByID(_ context.Context, id string) (*domain.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hotels[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &h, nil
}

func (r *memHotelRepo) List(_ context.Context, skip, limit int) ([]domain.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Hotel
	for i := skip; i < len(r.order) && len(out) < limit; i++ {
		out = append(out, r.hotels[r.order[i]])
	}
	return out, nil
}

func (r *memHotelRepo) Update(_ context.Context, id string, h *domain.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	h.ID = id
	r.hotels[id] = *h
	return nil
}

func (r *memHotelRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.hotels, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memHotelRepo) Search(_ context.Context, f domain.SearchFilter) ([]domain.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Hotel
	for _, id := range r.order {
		h := r.hotels[id]
		if f.City != nil && !strings.EqualFold(h.Location.City, *f.City) {
			continue
		}
		if f.MinRating != nil && h.StarRating < *f.MinRating {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

type memBookingRepo struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]domain.Booking
	order    []string
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: map[string]domain.Booking{}}
}

func (r *memBookingRepo) Create(_ context.Context, b *domain.Booking) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := "b" + strconv.Itoa(r.seq)
	b.ID = id
	r.bookings[id] = *b
	r.order = append(r.order, id)
	return id, nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *memBookingRepo) ListByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, id := range r.order {
		if b := r.bookings[id]; b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByHotel(_ context.Context, hotelID string) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, id := range r.order {
		if b := r.bookings[id]; b.HotelID == hotelID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) Update(_ context.Context, id string, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	b.ID = id
	r.bookings[id] = *b
	return nil
}

func (r *memBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *memBookingRepo) CountOverlapping(_ context.Context, hotelID, roomType string, checkIn, checkOut time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
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

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]domain.User{}} }

func (r *memUserRepo) Create(_ context.Context, u *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.users {
		if v.Email == u.Email {
			return "", domain.ErrEmailTaken
		}
	}
	r.seq++
	id := "u" + strconv.Itoa(r.seq)
	u.ID = id
	r.users[id] = *u
	return id, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// nopCache always misses; handler tests exercise routing, not caching.
type nopCache struct{}

func (nopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, string, any, int) error    { return nil }
func (nopCache) Del(context.Context, string) error              { return nil }

// ---------- harness ----------

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	hotels := newMemHotelRepo()
	bookings := newMemBookingRepo()
	users := newMemUserRepo()

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Hotels:   app.NewHotelService(hotels, nopCache{}, 10*time.Second),
		Bookings: app.NewBookingService(bookings, hotels, nopCache{}),
		Search:   app.NewSearchService(hotels, nopCache{}, 10*time.Second),
		Auth:     app.NewAuthService(users, "handler-test-secret", time.Minute),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(res.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, out.Bytes()
}

func hotelPayload(name, city string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "test property",
		"location": map[string]any{
			"address": "1 Main St", "city": city, "country": "FR",
			"latitude": 48.85, "longitude": 2.35,
		},
		"category":    "standard",
		"star_rating": 4,
		"amenities":   []string{"wifi", "pool"},
		"rooms": []map[string]any{
			{"room_type": "double", "price_per_night": 100.0, "capacity": 2, "available_count": 6},
		},
	}
}

func createHotel(t *testing.T, ts *httptest.Server, name, city string) string {
	t.Helper()
	res, body := doJSON(t, http.MethodPost, ts.URL+"/api/v1/hotels/", hotelPayload(name, city))
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create hotel: status %d body %s", res.StatusCode, body)
	}
	var h struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &h); err != nil {
		t.Fatalf("decode hotel: %v", err)
	}
	return h.ID
}

// ---------- tests ----------

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	res, body := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil)
	if res.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz: %d %q", res.StatusCode, body)
	}
}

func TestHotelCRUD(t *testing.T) {
	ts := newTestServer(t)
	id := createHotel(t, ts, "Grand Test", "Paris")

	res, body := doJSON(t, http.MethodGet, ts.URL+"/api/v1/hotels/"+id, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get: status %d", res.StatusCode)
	}
	var got struct {
		Name           string  `json:"name"`
		MinimumPrice   float64 `json:"minimum_price"`
		AvailableRooms int     `json:"available_rooms"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Grand Test" || got.MinimumPrice != 100 || got.AvailableRooms != 6 {
		t.Fatalf("unexpected hotel: %+v", got)
	}

	res, _ = doJSON(t, http.MethodPut, ts.URL+"/api/v1/hotels/"+id, map[string]any{"star_rating": 5})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d", res.StatusCode)
	}

	res, _ = doJSON(t, http.MethodPut, ts.URL+"/api/v1/hotels/"+id, map[string]any{"star_rating": 9})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("update bad rating: status %d", res.StatusCode)
	}

	res, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/v1/hotels/"+id, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", res.StatusCode)
	}
	res, _ = doJSON(t, http.MethodGet, ts.URL+"/api/v1/hotels/"+id, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted: status %d", res.StatusCode)
	}
}

func TestCreateHotelRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/hotels/", strings.NewReader("{not json"))
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type %q", ct)
	}
}

func TestCreateHotelRejectsInvalidRating(t *testing.T) {
	ts := newTestServer(t)
	p := hotelPayload("Bad Stars", "Nice")
	p["star_rating"] = 7
	res, _ := doJSON(t, http.MethodPost, ts.URL+"/api/v1/hotels/", p)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", res.StatusCode)
	}
}

func TestBookingFlow(t *testing.T) {
	ts := newTestServer(t)
	hotelID := createHotel(t, ts, "Bookable", "Lyon")

	payload := map[string]any{
		"hotel_id":       hotelID,
		"user_id":        "u1",
		"room_type":      "double",
		"check_in_date":  "2026-09-10",
		"check_out_date": "2026-09-12",
		"guests_count":   2,
	}
	res, body := doJSON(t, http.MethodPost, ts.URL+"/api/v1/bookings/", payload)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create booking: %d %s", res.StatusCode, body)
	}
	var b struct {
		ID         string  `json:"id"`
		HotelName  string  `json:"hotel_name"`
		Nights     int     `json:"nights"`
		TotalPrice float64 `json:"total_price"`
		Status     string  `json:"status"`
	}
	if err := json.Unmarshal(body, &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Nights != 2 || b.TotalPrice != 200 || b.Status != "pending" || b.HotelName != "Bookable" {
		t.Fatalf("unexpected booking: %+v", b)
	}

	res, body = doJSON(t, http.MethodPost, ts.URL+"/api/v1/bookings/"+b.ID+"/confirm", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("confirm: %d %s", res.StatusCode, body)
	}
	res, body = doJSON(t, http.MethodPost, ts.URL+"/api/v1/bookings/"+b.ID+"/cancel", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("cancel: %d %s", res.StatusCode, body)
	}
	// cancelled is terminal for confirm
	res, _ = doJSON(t, http.MethodPost, ts.URL+"/api/v1/bookings/"+b.ID+"/confirm", nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("confirm cancelled: %d", res.StatusCode)
	}

	res, body = doJSON(t, http.MethodGet, ts.URL+"/api/v1/bookings/user/u1", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list by user: %d", res.StatusCode)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err != nil || len(list) != 1 {
		t.Fatalf("list by user: err=%v len=%d", err, len(list))
	}

	res, _ = doJSON(t, http.MethodGet, ts.URL+"/api/v1/bookings/hotel/"+hotelID, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list by hotel: %d", res.StatusCode)
	}
}

func TestBookingRejections(t *testing.T) {
	ts := newTestServer(t)
	hotelID := createHotel(t, ts, "Strict", "Rome")

	mk := func(user, roomType, in, out string) (*http.Response, []byte) {
		return doJSON(t, http.MethodPost, ts.URL+"/api/v1/bookings/", map[string]any{
			"hotel_id":       hotelID,
			"user_id":        user,
			"room_type":      roomType,
			"check_in_date":  in,
			"check_out_date": out,
			"guests_count":   1,
		})
	}

	if res, _ := mk("u1", "suite", "2026-09-10", "2026-09-12"); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown room type: %d", res.StatusCode)
	}
	if res, _ := mk("u1", "double", "2026-09-12", "2026-09-10"); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("reversed dates: %d", res.StatusCode)
	}
	if res, _ := mk("u1", "double", "not-a-date", "2026-09-12"); res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("bad date format: %d", res.StatusCode)
	}

	// fill room-type capacity, then expect a rejection
	for i := 0; i < 5; i++ {
		res, body := mk(fmt.Sprintf("u%d", i), "double", "2026-09-10", "2026-09-12")
		if res.StatusCode != http.StatusCreated {
			t.Fatalf("booking %d: %d %s", i, res.StatusCode, body)
		}
	}
	res, body := mk("u9", "double", "2026-09-11", "2026-09-13")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("over capacity: %d %s", res.StatusCode, body)
	}
	// a disjoint stay is still fine
	if res, _ := mk("u9", "double", "2026-09-20", "2026-09-22"); res.StatusCode != http.StatusCreated {
		t.Fatalf("disjoint stay: %d", res.StatusCode)
	}
}

func TestSearchHotels(t *testing.T) {
	ts := newTestServer(t)
	createHotel(t, ts, "Paris One", "Paris")
	createHotel(t, ts, "Paris Two", "Paris")
	createHotel(t, ts, "Berlin One", "Berlin")

	res, body := doJSON(t, http.MethodGet, ts.URL+"/api/v1/search/hotels?destination=Paris&page_size=1", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("search: %d %s", res.StatusCode, body)
	}
	var out struct {
		Hotels     []struct{ Name string } `json:"hotels"`
		TotalCount int                     `json:"total_count"`
		TotalPages int                     `json:"total_pages"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.TotalCount != 2 || out.TotalPages != 2 || len(out.Hotels) != 1 {
		t.Fatalf("unexpected page: %+v", out)
	}

	if res, _ := doJSON(t, http.MethodGet, ts.URL+"/api/v1/search/hotels?guests=99", nil); res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("guests bound: %d", res.StatusCode)
	}
	if res, _ := doJSON(t, http.MethodGet, ts.URL+"/api/v1/search/hotels?min_rating=11", nil); res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("rating bound: %d", res.StatusCode)
	}

	res, body = doJSON(t, http.MethodGet, ts.URL+"/api/v1/search/destinations", nil)
	if res.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("Paris")) {
		t.Fatalf("destinations: %d %s", res.StatusCode, body)
	}

	res, _ = doJSON(t, http.MethodGet, ts.URL+"/api/v1/search/trending?limit=2", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("trending: %d", res.StatusCode)
	}
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	reg := map[string]any{"email": "Guest@Example.com", "password": "hunter2hunter2", "full_name": "Test Guest"}
	res, body := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/register", reg)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("register: %d %s", res.StatusCode, body)
	}
	var u struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(body, &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Email != "guest@example.com" || u.Role != "guest" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if res, _ = doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/register", reg); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: %d", res.StatusCode)
	}

	res, body = doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/login",
		map[string]any{"email": "guest@example.com", "password": "hunter2hunter2"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login: %d %s", res.StatusCode, body)
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if tok.TokenType != "bearer" || tok.AccessToken == "" {
		t.Fatalf("unexpected token: %+v", tok)
	}

	res, _ = doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/login",
		map[string]any{"email": "guest@example.com", "password": "wrong-password"})
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", res.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	meRes, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer meRes.Body.Close()
	if meRes.StatusCode != http.StatusOK {
		t.Fatalf("me: %d", meRes.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodGet, ts.URL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	badRes, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer badRes.Body.Close()
	if badRes.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me with bad token: %d", badRes.StatusCode)
	}
}

func TestRegisterRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)

	res, body := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/register",
		map[string]any{"email": "short@example.com", "password": "short", "full_name": "Short Pass"})
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("short password: %d %s", res.StatusCode, body)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type = %q", ct)
	}

	res, body = doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/register",
		map[string]any{"email": "not-an-email", "password": "hunter2hunter2", "full_name": "Bad Mail"})
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("bad email: %d %s", res.StatusCode, body)
	}
}
