// internal/app/store/listings/listingstore.go
package listingstore

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

// Store persists listings. Deleting a listing also removes the claims
// made against it, so the claims collection is held too.
type Store struct {
	c      *mongo.Collection
	claims *mongo.Collection
}

var ErrAlreadyCollected = errors.New("listing is already marked collected")

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection("listings"),
		claims: db.Collection("claims"),
	}
}

func (s *Store) Create(ctx context.Context, l models.Listing) (models.Listing, error) {
	now := time.Now().UTC()
	l.ID = primitive.NewObjectID()
	if l.Status == "" {
		l.Status = models.ListingAvailable
	}
	l.CreatedAt = now
	l.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.Listing{}, err
	}
	return l, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Listing, error) {
	var l models.Listing
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return models.Listing{}, err
	}
	return l, nil
}

// Update holds the optional listing fields an owner may change. Nil
// pointers leave the stored value untouched.
type Update struct {
	Title       *string
	Description *string
	Quantity    *string
	WasteType   *string
	ImageURL    *string
	Location    *models.GeoPoint
}

// Apply writes the non-nil fields of upd and returns the updated
// listing. Ownership is checked by the caller.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) (models.Listing, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Quantity != nil {
		set["quantity"] = *upd.Quantity
	}
	if upd.WasteType != nil {
		set["waste_type"] = *upd.WasteType
	}
	if upd.ImageURL != nil {
		set["image_url"] = *upd.ImageURL
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if _, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		return models.Listing{}, err
	}
	return s.GetByID(ctx, id)
}

// MarkCollected transitions the listing to its terminal status. The
// filter requires the current status to still be "available", so a
// second call (or a racing one) gets ErrAlreadyCollected.
func (s *Store) MarkCollected(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ListingAvailable},
		bson.M{"$set": bson.M{"status": models.ListingCollected, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAlreadyCollected
	}
	return nil
}

// Delete removes the listing and every claim made against it.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.claims.DeleteMany(ctx, bson.M{"listing_id": id}); err != nil {
		return err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindAvailable returns available listings, newest first, optionally
// filtered by waste type.
func (s *Store) FindAvailable(ctx context.Context, wasteType string) ([]models.Listing, error) {
	filter := bson.M{"status": models.ListingAvailable}
	if wasteType != "" {
		filter["waste_type"] = wasteType
	}
	return s.find(ctx, filter)
}

// FindByOwner returns all of an account's listings regardless of status.
func (s *Store) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Listing, error) {
	return s.find(ctx, bson.M{"created_by": ownerID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var listings []models.Listing
	if err := cur.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}
