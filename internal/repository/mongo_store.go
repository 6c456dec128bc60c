package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/pkg/config"
	"github.com/prohmpiriya/handiq-workshops/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoStore creates a Store backed by MongoDB collections
func NewMongoStore(client *mongodb.Client) *Store {
	return &Store{
		IDs:       ObjectIDScheme{},
		Workshops: NewMongoWorkshopRepository(client.Collection(CollectionWorkshops)),
		Sessions:  NewMongoSessionRepository(client.Collection(CollectionSessions)),
		Bookings:  NewMongoBookingRepository(client.Collection(CollectionBookings)),
		Emails:    NewMongoEmailLogRepository(client.Collection(CollectionEmails)),
		Reviews:   NewMongoReviewRepository(client.Collection(CollectionReviews)),
		Info:      &mongoInfo{client: client},
	}
}

// EnsureMongoIndexes creates the indexes the queries rely on
func EnsureMongoIndexes(ctx context.Context, client *mongodb.Client) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionWorkshops: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionSessions: {
			{Keys: bson.D{{Key: "workshop_slug", Value: 1}, {Key: "start_time", Value: 1}}},
			{Keys: bson.D{{Key: "start_time", Value: 1}}},
		},
		CollectionBookings: {
			{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		CollectionEmails: {
			{Keys: bson.D{{Key: "booking_id", Value: 1}}},
		},
		CollectionReviews: {
			{Keys: bson.D{{Key: "workshop_slug", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := client.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

type mongoInfo struct {
	client *mongodb.Client
}

func (i *mongoInfo) Driver() string { return config.StoreDriverMongo }

func (i *mongoInfo) Ping(ctx context.Context) error { return i.client.Ping(ctx) }

func (i *mongoInfo) Collections(ctx context.Context) ([]string, error) {
	return i.client.CollectionNames(ctx)
}

// objectID parses a hex id; malformed ids map to notFound since they can never match a document
func objectID(id string, notFound error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func utcOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// workshopDocument is the bson shape of a workshop
type workshopDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Title             string             `bson:"title"`
	Slug              string             `bson:"slug"`
	Description       string             `bson:"description"`
	Price             float64            `bson:"price"`
	DurationMinutes   int                `bson:"duration_minutes"`
	Location          string             `bson:"location"`
	Instructor        string             `bson:"instructor"`
	Includes          []string           `bson:"includes"`
	Images            []string           `bson:"images"`
	WhatYouLearn      []string           `bson:"what_you_learn"`
	MaterialsProvided []string           `bson:"materials_provided"`
	AccentColor       string             `bson:"accent_color,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
}

func newWorkshopDocument(w *domain.Workshop) *workshopDocument {
	return &workshopDocument{
		Title:             w.Title,
		Slug:              w.Slug,
		Description:       w.Description,
		Price:             w.Price,
		DurationMinutes:   w.DurationMinutes,
		Location:          w.Location,
		Instructor:        w.Instructor,
		Includes:          w.Includes,
		Images:            w.Images,
		WhatYouLearn:      w.WhatYouLearn,
		MaterialsProvided: w.MaterialsProvided,
		AccentColor:       w.AccentColor,
		CreatedAt:         utcOrNow(w.CreatedAt),
	}
}

func (d *workshopDocument) toDomain() *domain.Workshop {
	return &domain.Workshop{
		ID:                d.ID.Hex(),
		Title:             d.Title,
		Slug:              d.Slug,
		Description:       d.Description,
		Price:             d.Price,
		DurationMinutes:   d.DurationMinutes,
		Location:          d.Location,
		Instructor:        d.Instructor,
		Includes:          d.Includes,
		Images:            d.Images,
		WhatYouLearn:      d.WhatYouLearn,
		MaterialsProvided: d.MaterialsProvided,
		AccentColor:       d.AccentColor,
		CreatedAt:         d.CreatedAt.UTC(),
	}
}

// sessionDocument is the bson shape of a session
type sessionDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	WorkshopSlug string             `bson:"workshop_slug"`
	StartTime    time.Time          `bson:"start_time"`
	EndTime      time.Time          `bson:"end_time"`
	Capacity     int                `bson:"capacity"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d *sessionDocument) toDomain() *domain.Session {
	return &domain.Session{
		ID:           d.ID.Hex(),
		WorkshopSlug: d.WorkshopSlug,
		StartTime:    d.StartTime.UTC(),
		EndTime:      d.EndTime.UTC(),
		Capacity:     d.Capacity,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

// bookingDocument is the bson shape of a booking; session_id is kept as the hex string
type bookingDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	WorkshopSlug     string             `bson:"workshop_slug"`
	SessionID        string             `bson:"session_id"`
	CustomerName     string             `bson:"customer_name"`
	CustomerEmail    string             `bson:"customer_email"`
	CustomerPhone    string             `bson:"customer_phone,omitempty"`
	Seats            int                `bson:"seats"`
	Amount           float64            `bson:"amount"`
	Status           string             `bson:"status"`
	PaymentReference string             `bson:"payment_reference,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func (d *bookingDocument) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:               d.ID.Hex(),
		WorkshopSlug:     d.WorkshopSlug,
		SessionID:        d.SessionID,
		CustomerName:     d.CustomerName,
		CustomerEmail:    d.CustomerEmail,
		CustomerPhone:    d.CustomerPhone,
		Seats:            d.Seats,
		Amount:           d.Amount,
		Status:           domain.BookingStatus(d.Status),
		PaymentReference: d.PaymentReference,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

// emailDocument is the bson shape of an email log entry
type emailDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Type             string             `bson:"type"`
	To               string             `bson:"to"`
	Subject          string             `bson:"subject"`
	BookingID        string             `bson:"booking_id"`
	PaymentReference string             `bson:"payment_reference,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
}

func (d *emailDocument) toDomain() *domain.EmailLog {
	return &domain.EmailLog{
		ID:               d.ID.Hex(),
		Type:             domain.EmailType(d.Type),
		To:               d.To,
		Subject:          d.Subject,
		BookingID:        d.BookingID,
		PaymentReference: d.PaymentReference,
		CreatedAt:        d.CreatedAt.UTC(),
	}
}

// reviewDocument is the bson shape of a review
type reviewDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	WorkshopSlug string             `bson:"workshop_slug"`
	Name         string             `bson:"name"`
	Rating       int                `bson:"rating"`
	Comment      string             `bson:"comment"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d *reviewDocument) toDomain() *domain.Review {
	return &domain.Review{
		ID:           d.ID.Hex(),
		WorkshopSlug: d.WorkshopSlug,
		Name:         d.Name,
		Rating:       d.Rating,
		Comment:      d.Comment,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}
