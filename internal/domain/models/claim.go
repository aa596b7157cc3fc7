// internal/domain/models/claim.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Claim status values. "accepted" and "rejected" are terminal: once a
// claim leaves "pending" no further status change is legal.
const (
	ClaimPending  = "pending"
	ClaimAccepted = "accepted"
	ClaimRejected = "rejected"
)

// Claim is a collector's request to collect a specific listing.
//
// Collected is a collector-confirmed flag independent of both the
// listing status and any pickup; it is a secondary signal, not part of
// the status state machine.
type Claim struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ListingID   primitive.ObjectID `bson:"listing_id" json:"listingId"`
	CollectorID primitive.ObjectID `bson:"collector_id" json:"collectorId"`
	Message     string             `bson:"message,omitempty" json:"message,omitempty"`
	Status      string             `bson:"status" json:"status"` // pending | accepted | rejected
	Collected   bool               `bson:"collected" json:"collected"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
