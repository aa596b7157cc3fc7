// internal/app/store/pickups/pickupstore.go
package pickupstore

import (
	"context"
	"errors"
	"time"

	"github.com/farmcycle/farmcycle/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrAlreadyScheduled means a pickup already exists for the claim.
	// Backed by the unique claim_id index, so two racing schedules
	// cannot both succeed.
	ErrAlreadyScheduled = errors.New("a pickup is already scheduled for this claim")

	// ErrNotScheduled means the pickup has left the scheduled state and
	// can no longer be completed or cancelled.
	ErrNotScheduled = errors.New("pickup is no longer scheduled")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pickups")}
}

// Create inserts a scheduled pickup. The caller supplies the
// claim/listing/collector/provider snapshot references.
func (s *Store) Create(ctx context.Context, p models.Pickup) (models.Pickup, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Status = models.PickupScheduled
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Pickup{}, ErrAlreadyScheduled
		}
		return models.Pickup{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Pickup, error) {
	var p models.Pickup
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Pickup{}, err
	}
	return p, nil
}

// Complete moves a scheduled pickup to completed. The filter pins the
// current status, so completing a cancelled or already-completed pickup
// fails with ErrNotScheduled.
func (s *Store) Complete(ctx context.Context, id primitive.ObjectID) error {
	return s.transition(ctx, id, models.PickupCompleted)
}

// Cancel moves a scheduled pickup to cancelled.
func (s *Store) Cancel(ctx context.Context, id primitive.ObjectID) error {
	return s.transition(ctx, id, models.PickupCancelled)
}

func (s *Store) transition(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.PickupScheduled},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotScheduled
	}
	return nil
}

// FindByParticipant returns the pickups where the account is either the
// collector or the provider, newest first.
func (s *Store) FindByParticipant(ctx context.Context, accountID primitive.ObjectID) ([]models.Pickup, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"collector_id": accountID},
		bson.M{"provider_id": accountID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pickups []models.Pickup
	if err := cur.All(ctx, &pickups); err != nil {
		return nil, err
	}
	return pickups, nil
}
