// internal/domain/models/pickup.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pickup status values. "completed" and "cancelled" are terminal.
const (
	PickupScheduled = "scheduled"
	PickupCompleted = "completed"
	PickupCancelled = "cancelled"
)

// Pickup is a scheduled collection event created after a claim is
// accepted. At most one pickup exists per claim (unique index).
//
// ListingID, CollectorID and ProviderID are snapshots taken from the
// claim and listing at creation time for query convenience. They are
// intentionally never re-synced afterwards.
type Pickup struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClaimID     primitive.ObjectID `bson:"claim_id" json:"claimId"`
	ListingID   primitive.ObjectID `bson:"listing_id" json:"listingId"`
	CollectorID primitive.ObjectID `bson:"collector_id" json:"collectorId"`
	ProviderID  primitive.ObjectID `bson:"provider_id" json:"providerId"`

	ScheduledTime string `bson:"scheduled_time" json:"scheduledTime"`
	Status        string `bson:"status" json:"status"` // scheduled | completed | cancelled

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
