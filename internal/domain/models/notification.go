// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is an append-only message recorded for a recipient as a
// side effect of a claim or pickup transition. The message text is
// assembled inline by the triggering handler; there is no templating.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipientId"`
	Message     string             `bson:"message" json:"message"`
	Read        bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
