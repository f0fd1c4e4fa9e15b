package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh opaque identifier. Both storage backends use the
// 24-character hex form of a Mongo ObjectID so ids stay portable.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
