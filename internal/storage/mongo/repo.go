package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayhub/internal/domain"
)

// Connect dials Mongo and verifies the connection with a ping.
// The returned client is passed to the repositories explicitly; there is no
// package-global handle.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(cctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

func oid(id string) (primitive.ObjectID, error) {
	out, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return out, nil
}

// ---- hotels ----

type HotelRepo struct{ col *mongo.Collection }

func NewHotelRepo(db *mongo.Database) *HotelRepo {
	return &HotelRepo{col: db.Collection("hotels")}
}

func (r *HotelRepo) Create(ctx context.Context, h *domain.Hotel) (string, error) {
	res, err := r.col.InsertOne(ctx, toHotelDoc(h))
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *HotelRepo) GetByID(ctx context.Context, id string) (*domain.Hotel, error) {
	hid, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc hotelDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": hid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	h := fromHotelDoc(doc)
	return &h, nil
}

func (r *HotelRepo) List(ctx context.Context, skip, limit int) ([]domain.Hotel, error) {
	opts := options.Find().SetSkip(int64(skip)).SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return decodeHotels(ctx, cur)
}

func (r *HotelRepo) Update(ctx context.Context, id string, h *domain.Hotel) error {
	hid, err := oid(id)
	if err != nil {
		return err
	}
	doc := toHotelDoc(h)
	doc.UpdatedAt = fmtTime(time.Now())
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": hid}, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *HotelRepo) Delete(ctx context.Context, id string) error {
	hid, err := oid(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": hid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search applies the persistence-side filters; relevance ranking is the
// search service's job.
func (r *HotelRepo) Search(ctx context.Context, f domain.SearchFilter) ([]domain.Hotel, error) {
	query := bson.M{}
	if f.City != nil && *f.City != "" {
		query["location.city"] = bson.M{"$regex": *f.City, "$options": "i"}
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		query["rooms.price_per_night"] = price
	}
	if len(f.Amenities) > 0 {
		amenities := make([]string, 0, len(f.Amenities))
		for _, a := range f.Amenities {
			amenities = append(amenities, string(a))
		}
		query["amenities"] = bson.M{"$all": amenities}
	}
	if f.MinRating != nil {
		query["star_rating"] = bson.M{"$gte": *f.MinRating}
	}
	guests := f.Guests
	if guests < 1 {
		guests = 1
	}
	query["rooms.capacity"] = bson.M{"$gte": guests}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	cur, err := r.col.Find(ctx, query, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	return decodeHotels(ctx, cur)
}

func decodeHotels(ctx context.Context, cur *mongo.Cursor) ([]domain.Hotel, error) {
	defer cur.Close(ctx)
	var out []domain.Hotel
	for cur.Next(ctx) {
		var doc hotelDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, fromHotelDoc(doc))
	}
	return out, cur.Err()
}

// ---- bookings ----

type BookingRepo struct{ col *mongo.Collection }

func NewBookingRepo(db *mongo.Database) *BookingRepo {
	return &BookingRepo{col: db.Collection("bookings")}
}

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) (string, error) {
	res, err := r.col.InsertOne(ctx, toBookingDoc(b))
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	bid, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc bookingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": bid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	b := fromBookingDoc(doc)
	return &b, nil
}

func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cur)
}

func (r *BookingRepo) ListByHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "check_in_date", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"hotel_id": hotelID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cur)
}

func (r *BookingRepo) Update(ctx context.Context, id string, b *domain.Booking) error {
	bid, err := oid(id)
	if err != nil {
		return err
	}
	doc := toBookingDoc(b)
	doc.UpdatedAt = fmtTime(time.Now())
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": bid}, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	bid, err := oid(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": bid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountOverlapping uses the half-open interval test
// (existing.start < requested.end AND existing.end > requested.start) over
// the YYYY-MM-DD string dates, restricted to pending/confirmed bookings.
func (r *BookingRepo) CountOverlapping(ctx context.Context, hotelID, roomType string, checkIn, checkOut time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"hotel_id":       hotelID,
		"room_type":      roomType,
		"status":         bson.M{"$in": []string{string(domain.BookingPending), string(domain.BookingConfirmed)}},
		"check_in_date":  bson.M{"$lt": fmtDate(checkOut)},
		"check_out_date": bson.M{"$gt": fmtDate(checkIn)},
	})
}

func decodeBookings(ctx context.Context, cur *mongo.Cursor) ([]domain.Booking, error) {
	defer cur.Close(ctx)
	var out []domain.Booking
	for cur.Next(ctx) {
		var doc bookingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, fromBookingDoc(doc))
	}
	return out, cur.Err()
}

// ---- users ----

type UserRepo struct{ col *mongo.Collection }

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{col: db.Collection("users")}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (string, error) {
	res, err := r.col.InsertOne(ctx, toUserDoc(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrEmailTaken
		}
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u := fromUserDoc(doc)
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u := fromUserDoc(doc)
	return &u, nil
}
