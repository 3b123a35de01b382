package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cargoassist/database"
	"cargoassist/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bookingsCollection = "bookings"

// MongoBookingRepo implements Repository backed by the bookings collection.
type MongoBookingRepo struct{}

func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{}
}

func (r *MongoBookingRepo) coll() *mongo.Collection {
	return database.Collection(bookingsCollection)
}

// EnsureIndexes creates the unique booking_id index.
func (r *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create booking index: %w", err)
	}
	return nil
}

// Create inserts a booking in a single write.
func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := r.coll().InsertOne(ctx, b); err != nil {
		return fmt.Errorf("create booking %s: %w", b.BookingID, err)
	}
	return nil
}

// FindByBookingID looks up a booking by its external reference.
func (r *MongoBookingRepo) FindByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var b models.Booking
	err := r.coll().FindOne(ctx, bson.M{"booking_id": strings.ToUpper(bookingID)}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	return &b, nil
}

// UpdateStatus transitions a booking in one conditional update. The filter
// carries the allowed current statuses, so a lost race surfaces as
// ErrConflict instead of a second write.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, bookingID string, from []models.BookingStatus, to models.BookingStatus) (*models.Booking, error) {
	id := strings.ToUpper(bookingID)
	filter := bson.M{"booking_id": id}
	if len(from) > 0 {
		filter["status"] = bson.M{"$in": from}
	}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b models.Booking
	err := r.coll().FindOneAndUpdate(ctx, filter, update, opts).Decode(&b)
	if err == mongo.ErrNoDocuments {
		// Distinguish a missing booking from a disallowed transition.
		if _, findErr := r.FindByBookingID(ctx, id); findErr == ErrNotFound {
			return nil, ErrNotFound
		} else if findErr != nil {
			return nil, findErr
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update booking %s status: %w", bookingID, err)
	}
	return &b, nil
}

// List returns bookings newest first, optionally filtered by status.
func (r *MongoBookingRepo) List(ctx context.Context, status models.BookingStatus, limit int64) ([]models.Booking, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

// ArchiveCancelledBefore moves stale cancelled bookings to archived and
// returns how many were swept.
func (r *MongoBookingRepo) ArchiveCancelledBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"status":     models.StatusCancelled,
		"updated_at": bson.M{"$lt": cutoff},
	}
	update := bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now().UTC()}}
	res, err := r.coll().UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("archive cancelled bookings: %w", err)
	}
	return res.ModifiedCount, nil
}
