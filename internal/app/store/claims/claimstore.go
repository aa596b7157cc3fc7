// internal/app/store/claims/claimstore.go
package claimstore

import (
	"context"
	"errors"
	"time"

	"github.com/farmcycle/farmcycle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists claims. Provider-side queries join through the
// listings collection to find claims on a provider's listings.
type Store struct {
	c        *mongo.Collection
	listings *mongo.Collection
}

var (
	// ErrDuplicatePending means the collector already has a pending
	// claim on the listing.
	ErrDuplicatePending = errors.New("you already have a pending claim on this listing")

	// ErrNotPending means the claim has left the pending state, so the
	// requested transition (approve, reject, cancel) is no longer legal.
	ErrNotPending = errors.New("claim is no longer pending")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("claims"),
		listings: db.Collection("listings"),
	}
}

// Create inserts a pending claim after checking that the collector has
// no other pending claim on the same listing. Multiple collectors may
// hold pending claims on one listing; one collector may not hold two.
func (s *Store) Create(ctx context.Context, c models.Claim) (models.Claim, error) {
	err := s.c.FindOne(ctx, bson.M{
		"listing_id":   c.ListingID,
		"collector_id": c.CollectorID,
		"status":       models.ClaimPending,
	}).Err()
	if err == nil {
		return models.Claim{}, ErrDuplicatePending
	}
	if err != mongo.ErrNoDocuments {
		return models.Claim{}, err
	}

	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Status = models.ClaimPending
	c.Collected = false
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Claim{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Claim, error) {
	var c models.Claim
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Claim{}, err
	}
	return c, nil
}

// SetStatus moves a claim out of pending into accepted or rejected.
// The filter pins the current status to pending, so re-transitions and
// racing approvals lose with ErrNotPending: exactly one caller wins.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != models.ClaimAccepted && status != models.ClaimRejected {
		return errors.New("illegal claim status " + status)
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ClaimPending},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotPending
	}
	return nil
}

// DeletePending hard-deletes a claim, but only while it is pending.
func (s *Store) DeletePending(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "status": models.ClaimPending})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotPending
	}
	return nil
}

// SetCollected flips the collector-confirmed flag. It is independent of
// the claim status and of any pickup.
func (s *Store) SetCollected(ctx context.Context, id primitive.ObjectID, collected bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"collected":  collected,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// FindByCollector returns the claims a collector has made, newest first.
func (s *Store) FindByCollector(ctx context.Context, collectorID primitive.ObjectID) ([]models.Claim, error) {
	return s.find(ctx, bson.M{"collector_id": collectorID})
}

// FindByListing returns every claim made against one listing.
func (s *Store) FindByListing(ctx context.Context, listingID primitive.ObjectID) ([]models.Claim, error) {
	return s.find(ctx, bson.M{"listing_id": listingID})
}

// FindByProvider returns the claims made against any listing the
// provider owns.
func (s *Store) FindByProvider(ctx context.Context, providerID primitive.ObjectID) ([]models.Claim, error) {
	cur, err := s.listings.Find(ctx, bson.M{"created_by": providerID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var owned []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &owned); err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, 0, len(owned))
	for _, l := range owned {
		ids = append(ids, l.ID)
	}
	return s.find(ctx, bson.M{"listing_id": bson.M{"$in": ids}})
}

// FindAccepted looks up the accepted claim a collector holds on a
// listing. Pickups can only be scheduled against such a claim.
func (s *Store) FindAccepted(ctx context.Context, listingID, collectorID primitive.ObjectID) (models.Claim, error) {
	var c models.Claim
	err := s.c.FindOne(ctx, bson.M{
		"listing_id":   listingID,
		"collector_id": collectorID,
		"status":       models.ClaimAccepted,
	}).Decode(&c)
	if err != nil {
		return models.Claim{}, err
	}
	return c, nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Claim, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var claims []models.Claim
	if err := cur.All(ctx, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}
