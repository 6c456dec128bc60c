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

// MongoSessionRepository implements SessionRepository on the session collection
type MongoSessionRepository struct {
	coll *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoSessionRepository
func NewMongoSessionRepository(coll *mongo.Collection) *MongoSessionRepository {
	return &MongoSessionRepository{coll: coll}
}

// Create inserts a session
func (r *MongoSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.session.create")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_slug", session.WorkshopSlug))

	doc := &sessionDocument{
		WorkshopSlug: session.WorkshopSlug,
		StartTime:    session.StartTime.UTC(),
		EndTime:      session.EndTime.UTC(),
		Capacity:     session.Capacity,
		CreatedAt:    utcOrNow(session.CreatedAt),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create session: %w", err)
	}

	session.ID = res.InsertedID.(primitive.ObjectID).Hex()
	session.CreatedAt = doc.CreatedAt
	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a session by its ID
func (r *MongoSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.session.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("session_id", id))

	oid, err := objectID(id, domain.ErrSessionNotFound)
	if err != nil {
		span.SetStatus(codes.Ok, "not found")
		return nil, err
	}

	var doc sessionDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			span.SetStatus(codes.Ok, "not found")
			return nil, domain.ErrSessionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return doc.toDomain(), nil
}

// ListUpcoming returns sessions starting at or after from, earliest first
func (r *MongoSessionRepository) ListUpcoming(ctx context.Context, workshopSlug string, from time.Time, limit int) ([]*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.session.list_upcoming")
	defer span.End()

	span.SetAttributes(
		attribute.String("workshop_slug", workshopSlug),
		attribute.Int("limit", limit),
	)

	filter := bson.M{"start_time": bson.M{"$gte": from.UTC()}}
	if workshopSlug != "" {
		filter["workshop_slug"] = workshopSlug
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	sessions, err := r.find(ctx, filter, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(sessions)))
	span.SetStatus(codes.Ok, "")
	return sessions, nil
}

// ListStartingBetween returns sessions with from <= start_time <= to
func (r *MongoSessionRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.session.list_starting_between")
	defer span.End()

	filter := bson.M{"start_time": bson.M{"$gte": from.UTC(), "$lte": to.UTC()}}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	sessions, err := r.find(ctx, filter, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(sessions)))
	span.SetStatus(codes.Ok, "")
	return sessions, nil
}

func (r *MongoSessionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Session, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}

	var docs []sessionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(docs))
	for i := range docs {
		sessions = append(sessions, docs[i].toDomain())
	}
	return sessions, nil
}

var _ SessionRepository = (*MongoSessionRepository)(nil)
