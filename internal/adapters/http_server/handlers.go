package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

type Handlers struct {
	Hotels   *app.HotelService
	Bookings *app.BookingService
	Search   *app.SearchService
	Auth     *app.AuthService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api/v1", func(r chi.Router) {
		r.Route("/hotels", func(r chi.Router) {
			r.Post("/", h.createHotel)
			r.Get("/", h.listHotels)
			r.Get("/{id}", h.getHotel)
			r.Put("/{id}", h.updateHotel)
			r.Delete("/{id}", h.deleteHotel)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", h.createBooking)
			r.Get("/{id}", h.getBooking)
			r.Delete("/{id}", h.deleteBooking)
			r.Post("/{id}/confirm", h.confirmBooking)
			r.Post("/{id}/cancel", h.cancelBooking)
			r.Get("/user/{userID}", h.userBookings)
			r.Get("/hotel/{hotelID}", h.hotelBookings)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/hotels", h.searchHotels)
			r.Get("/destinations", h.destinations)
			r.Get("/trending", h.trending)
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(RateLimit(5, 10)).Post("/register", h.register)
			r.With(RateLimit(5, 10)).Post("/login", h.login)
			r.With(RequireAuth(h.Auth)).Get("/me", h.me)
		})
	})
}

// ---- response helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeDomainError maps failures from the domain and service layers onto the
// HTTP taxonomy: 422 malformed input, 400 invariant violations, 404 missing,
// 401 auth, 500 anything unexpected.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	var te *domain.TransitionError
	switch {
	case errors.As(err, &ve), errors.As(err, &te):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrHotelNotFound),
		errors.Is(err, domain.ErrUnknownRoomType),
		errors.Is(err, domain.ErrRoomUnavailable),
		errors.Is(err, domain.ErrEmailTaken):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "incorrect email or password")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "malformed JSON body: "+err.Error())
		return false
	}
	return true
}

// ---- hotels ----

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var req createHotelRequest
	if !decode(w, r, &req) {
		return
	}
	hotel, err := h.Hotels.Create(r.Context(), req.toDomain())
	if err != nil {
		// construction invariants on a create are boundary validation
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", err.Error())
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHotelResponse(hotel))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Hotels.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHotelResponse(hotel))
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)
	if limit < 1 || limit > 100 {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "limit must be between 1 and 100")
		return
	}
	hotels, err := h.Hotels.List(r.Context(), skip, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]hotelResponse, 0, len(hotels))
	for i := range hotels {
		out = append(out, toHotelResponse(&hotels[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	var req updateHotelRequest
	if !decode(w, r, &req) {
		return
	}
	hotel, err := h.Hotels.Update(r.Context(), chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHotelResponse(hotel))
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	if err := h.Hotels.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- bookings ----

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decode(w, r, &req) {
		return
	}
	checkIn, err := time.Parse(dateLayout, req.CheckInDate)
	if err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "check_in_date must be YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOutDate)
	if err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "check_out_date must be YYYY-MM-DD")
		return
	}
	detail, err := h.Bookings.Create(r.Context(), app.CreateBooking{
		HotelID:         req.HotelID,
		UserID:          req.UserID,
		RoomType:        req.RoomType,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		GuestsCount:     req.GuestsCount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(detail))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Bookings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(detail))
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Bookings.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) confirmBooking(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Bookings.Confirm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(detail))
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Bookings.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(detail))
}

func (h *Handlers) userBookings(w http.ResponseWriter, r *http.Request) {
	details, err := h.Bookings.ListByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingList(details))
}

func (h *Handlers) hotelBookings(w http.ResponseWriter, r *http.Request) {
	details, err := h.Bookings.ListByHotel(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingList(details))
}

func toBookingList(details []app.BookingDetail) []bookingResponse {
	out := make([]bookingResponse, 0, len(details))
	for i := range details {
		out = append(out, toBookingResponse(&details[i]))
	}
	return out
}

// ---- search ----

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	q := app.SearchQuery{
		Guests:   queryInt(r, "guests", 1),
		SortBy:   r.URL.Query().Get("sort_by"),
		Page:     queryInt(r, "page", 0),
		PageSize: queryInt(r, "page_size", 20),
	}
	if q.Guests < 1 || q.Guests > 10 {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "guests must be between 1 and 10")
		return
	}
	if q.Page < 0 || q.PageSize < 1 || q.PageSize > 100 {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "page must be >= 0 and page_size between 1 and 100")
		return
	}
	if v := r.URL.Query().Get("destination"); v != "" {
		q.Destination = &v
	}
	var err error
	if q.CheckIn, err = queryDate(r, "check_in_date"); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "check_in_date must be YYYY-MM-DD")
		return
	}
	if q.CheckOut, err = queryDate(r, "check_out_date"); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "check_out_date must be YYYY-MM-DD")
		return
	}
	if q.MinPrice, err = queryFloat(r, "min_price"); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "min_price must be a number")
		return
	}
	if q.MaxPrice, err = queryFloat(r, "max_price"); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "max_price must be a number")
		return
	}
	if v := r.URL.Query().Get("min_rating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 5 {
			writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "min_rating must be an integer between 1 and 5")
			return
		}
		q.MinRating = &n
	}
	if v := r.URL.Query().Get("amenities"); v != "" {
		for _, a := range strings.Split(v, ",") {
			q.Amenities = append(q.Amenities, domain.Amenity(strings.TrimSpace(a)))
		}
	}

	res, err := h.Search.Search(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := searchResponse{
		Hotels:     make([]hotelResponse, 0, len(res.Hotels)),
		TotalCount: res.TotalCount,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	}
	for i := range res.Hotels {
		out.Hotels = append(out.Hotels, toHotelResponse(&res.Hotels[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) destinations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Search.PopularDestinations())
}

func (h *Handlers) trending(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	hotels, err := h.Search.Trending(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]hotelResponse, 0, len(hotels))
	for i := range hotels {
		out = append(out, toHotelResponse(&hotels[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- auth ----

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", "email, password and full_name are required")
		return
	}
	user, err := h.Auth.Register(r.Context(), app.RegisterRequest{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		// malformed credentials on a create are boundary validation
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeProblem(w, http.StatusUnprocessableEntity, "Validation Error", err.Error())
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	token, user, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
	})
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if user == nil {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ---- query helpers ----

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func queryFloat(r *http.Request, key string) (*float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func queryDate(r *http.Request, key string) (*time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
