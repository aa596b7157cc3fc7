// internal/domain/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review rating bounds (inclusive).
const (
	RatingMin = 1
	RatingMax = 5
)

// Review is a collector's rating of a completed pickup. At most one
// review exists per pickup (unique index).
//
// ListingID and ProviderID are snapshots from the pickup at creation
// time, kept so provider review queries never need a join.
type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PickupID    primitive.ObjectID `bson:"pickup_id" json:"pickupId"`
	ListingID   primitive.ObjectID `bson:"listing_id" json:"listingId"`
	ProviderID  primitive.ObjectID `bson:"provider_id" json:"providerId"`
	CollectorID primitive.ObjectID `bson:"collector_id" json:"collectorId"`

	Rating  int    `bson:"rating" json:"rating"` // 1..5
	Comment string `bson:"comment,omitempty" json:"comment,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
