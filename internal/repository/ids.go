package repository

import (
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDScheme generates and validates the identifiers of a store
type IDScheme interface {
	NewID() string
	Valid(id string) bool
}

// ObjectIDScheme issues 24-char hex MongoDB ObjectIDs
type ObjectIDScheme struct{}

func (ObjectIDScheme) NewID() string {
	return primitive.NewObjectID().Hex()
}

func (ObjectIDScheme) Valid(id string) bool {
	return primitive.IsValidObjectID(id)
}

// UUIDScheme issues random UUIDs
type UUIDScheme struct{}

func (UUIDScheme) NewID() string {
	return uuid.New().String()
}

func (UUIDScheme) Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
