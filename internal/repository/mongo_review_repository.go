package repository

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// MongoEmailLogRepository implements EmailLogRepository on the email collection
type MongoEmailLogRepository struct {
	coll *mongo.Collection
}

// NewMongoEmailLogRepository creates a new MongoEmailLogRepository
func NewMongoEmailLogRepository(coll *mongo.Collection) *MongoEmailLogRepository {
	return &MongoEmailLogRepository{coll: coll}
}

// Create appends an email log entry
func (r *MongoEmailLogRepository) Create(ctx context.Context, entry *domain.EmailLog) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.email.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("email_type", string(entry.Type)),
		attribute.String("booking_id", entry.BookingID),
	)

	doc := &emailDocument{
		Type:             string(entry.Type),
		To:               entry.To,
		Subject:          entry.Subject,
		BookingID:        entry.BookingID,
		PaymentReference: entry.PaymentReference,
		CreatedAt:        utcOrNow(entry.CreatedAt),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create email log: %w", err)
	}

	entry.ID = res.InsertedID.(primitive.ObjectID).Hex()
	entry.CreatedAt = doc.CreatedAt
	span.SetStatus(codes.Ok, "")
	return nil
}

// ListByBooking returns the log entries of a booking in write order
func (r *MongoEmailLogRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.EmailLog, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.email.list_by_booking")
	defer span.End()

	cursor, err := r.coll.Find(ctx, bson.M{"booking_id": bookingID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list email logs: %w", err)
	}

	var docs []emailDocument
	if err := cursor.All(ctx, &docs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to decode email logs: %w", err)
	}

	entries := make([]*domain.EmailLog, 0, len(docs))
	for i := range docs {
		entries = append(entries, docs[i].toDomain())
	}

	span.SetStatus(codes.Ok, "")
	return entries, nil
}

// MongoReviewRepository implements ReviewRepository on the review collection
type MongoReviewRepository struct {
	coll *mongo.Collection
}

// NewMongoReviewRepository creates a new MongoReviewRepository
func NewMongoReviewRepository(coll *mongo.Collection) *MongoReviewRepository {
	return &MongoReviewRepository{coll: coll}
}

// Create inserts a review
func (r *MongoReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.review.create")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_slug", review.WorkshopSlug))

	doc := &reviewDocument{
		WorkshopSlug: review.WorkshopSlug,
		Name:         review.Name,
		Rating:       review.Rating,
		Comment:      review.Comment,
		CreatedAt:    utcOrNow(review.CreatedAt),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create review: %w", err)
	}

	review.ID = res.InsertedID.(primitive.ObjectID).Hex()
	review.CreatedAt = doc.CreatedAt
	span.SetStatus(codes.Ok, "")
	return nil
}

// List returns reviews newest first
func (r *MongoReviewRepository) List(ctx context.Context, workshopSlug string, limit int) ([]*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.review.list")
	defer span.End()

	span.SetAttributes(
		attribute.String("workshop_slug", workshopSlug),
		attribute.Int("limit", limit),
	)

	filter := bson.M{}
	if workshopSlug != "" {
		filter["workshop_slug"] = workshopSlug
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	var docs []reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	reviews := make([]*domain.Review, 0, len(docs))
	for i := range docs {
		reviews = append(reviews, docs[i].toDomain())
	}

	span.SetStatus(codes.Ok, "")
	return reviews, nil
}

var (
	_ EmailLogRepository = (*MongoEmailLogRepository)(nil)
	_ ReviewRepository   = (*MongoReviewRepository)(nil)
)
