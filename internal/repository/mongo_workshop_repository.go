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

// MongoWorkshopRepository implements WorkshopRepository on the workshop collection
type MongoWorkshopRepository struct {
	coll *mongo.Collection
}

// NewMongoWorkshopRepository creates a new MongoWorkshopRepository
func NewMongoWorkshopRepository(coll *mongo.Collection) *MongoWorkshopRepository {
	return &MongoWorkshopRepository{coll: coll}
}

// Create inserts a workshop
func (r *MongoWorkshopRepository) Create(ctx context.Context, workshop *domain.Workshop) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.workshop.create")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_slug", workshop.Slug))

	doc := newWorkshopDocument(workshop)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if isDuplicateKey(err) {
			return domain.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create workshop: %w", err)
	}

	workshop.ID = res.InsertedID.(primitive.ObjectID).Hex()
	workshop.CreatedAt = doc.CreatedAt
	span.SetStatus(codes.Ok, "")
	return nil
}

// List returns every workshop in insertion order
func (r *MongoWorkshopRepository) List(ctx context.Context) ([]*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.workshop.list")
	defer span.End()

	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list workshops: %w", err)
	}

	var docs []workshopDocument
	if err := cursor.All(ctx, &docs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to decode workshops: %w", err)
	}

	workshops := make([]*domain.Workshop, 0, len(docs))
	for i := range docs {
		workshops = append(workshops, docs[i].toDomain())
	}

	span.SetAttributes(attribute.Int("count", len(workshops)))
	span.SetStatus(codes.Ok, "")
	return workshops, nil
}

// GetBySlug retrieves a workshop by slug
func (r *MongoWorkshopRepository) GetBySlug(ctx context.Context, slug string) (*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.workshop.get_by_slug")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_slug", slug))

	var doc workshopDocument
	err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			span.SetStatus(codes.Ok, "not found")
			return nil, domain.ErrWorkshopNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get workshop: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return doc.toDomain(), nil
}

// Count returns the number of workshops
func (r *MongoWorkshopRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.workshop.count")
	defer span.End()

	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to count workshops: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return n, nil
}

var _ WorkshopRepository = (*MongoWorkshopRepository)(nil)
