package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// MongoBookingRepository implements BookingRepository on the booking collection
type MongoBookingRepository struct {
	coll *mongo.Collection
}

// NewMongoBookingRepository creates a new MongoBookingRepository
func NewMongoBookingRepository(coll *mongo.Collection) *MongoBookingRepository {
	return &MongoBookingRepository{coll: coll}
}

// Create inserts a booking
func (r *MongoBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.booking.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("session_id", booking.SessionID),
		attribute.Int("seats", booking.Seats),
	)

	doc := &bookingDocument{
		WorkshopSlug:     booking.WorkshopSlug,
		SessionID:        booking.SessionID,
		CustomerName:     booking.CustomerName,
		CustomerEmail:    booking.CustomerEmail,
		CustomerPhone:    booking.CustomerPhone,
		Seats:            booking.Seats,
		Amount:           booking.Amount,
		Status:           string(booking.Status),
		PaymentReference: booking.PaymentReference,
		CreatedAt:        utcOrNow(booking.CreatedAt),
		UpdatedAt:        utcOrNow(booking.UpdatedAt),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ID = res.InsertedID.(primitive.ObjectID).Hex()
	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a booking by its ID
func (r *MongoBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.booking.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	oid, err := objectID(id, domain.ErrBookingNotFound)
	if err != nil {
		span.SetStatus(codes.Ok, "not found")
		return nil, err
	}

	var doc bookingDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			span.SetStatus(codes.Ok, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return doc.toDomain(), nil
}

// SumActiveSeats sums the seats of pending_payment and confirmed bookings with an aggregation
func (r *MongoBookingRepository) SumActiveSeats(ctx context.Context, sessionID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.booking.sum_active_seats")
	defer span.End()

	span.SetAttributes(attribute.String("session_id", sessionID))

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"session_id": sessionID,
			"status":     bson.M{"$in": domain.ActiveBookingStatusStrings()},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"seats": bson.M{"$sum": "$seats"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to sum booked seats: %w", err)
	}

	var rows []struct {
		Seats int `bson:"seats"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to decode booked seats: %w", err)
	}

	total := 0
	if len(rows) > 0 {
		total = rows[0].Seats
	}

	span.SetAttributes(attribute.Int("seats", total))
	span.SetStatus(codes.Ok, "")
	return total, nil
}

// Confirm marks a booking confirmed whatever its status and returns the updated document
func (r *MongoBookingRepository) Confirm(ctx context.Context, id, paymentReference string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.booking.confirm")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	oid, err := objectID(id, domain.ErrBookingNotFound)
	if err != nil {
		span.SetStatus(codes.Ok, "not found")
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"status":            string(domain.BookingStatusConfirmed),
		"payment_reference": paymentReference,
		"updated_at":        time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bookingDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			span.SetStatus(codes.Ok, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return doc.toDomain(), nil
}

// ListConfirmedBySession returns the confirmed bookings of a session
func (r *MongoBookingRepository) ListConfirmedBySession(ctx context.Context, sessionID string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.booking.list_confirmed_by_session")
	defer span.End()

	span.SetAttributes(attribute.String("session_id", sessionID))

	filter := bson.M{"session_id": sessionID, "status": string(domain.BookingStatusConfirmed)}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	bookings := make([]*domain.Booking, 0, len(docs))
	for i := range docs {
		bookings = append(bookings, docs[i].toDomain())
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

var _ BookingRepository = (*MongoBookingRepository)(nil)
