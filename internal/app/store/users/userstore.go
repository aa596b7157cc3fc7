// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/farmcycle/farmcycle/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store persists accounts. It also holds the collections touched by a
// cascading account delete.
type Store struct {
	c             *mongo.Collection
	listings      *mongo.Collection
	claims        *mongo.Collection
	pickups       *mongo.Collection
	reviews       *mongo.Collection
	notifications *mongo.Collection
}

var ErrEmailTaken = errors.New("an account with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{
		c:             db.Collection("users"),
		listings:      db.Collection("listings"),
		claims:        db.Collection("claims"),
		pickups:       db.Collection("pickups"),
		reviews:       db.Collection("reviews"),
		notifications: db.Collection("notifications"),
	}
}

// Create inserts a new account. The unique email index maps duplicate
// inserts to ErrEmailTaken.
func (s *Store) Create(ctx context.Context, a models.Account) (models.Account, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Account{}, ErrEmailTaken
		}
		return models.Account{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	var a models.Account
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Account{}, err
	}
	return a, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	var a models.Account
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		return models.Account{}, err
	}
	return a, nil
}

// ProfileUpdate holds the optional profile fields a caller may change.
// Nil pointers leave the stored value untouched. Role and email are
// deliberately absent: role is immutable and email is the login key.
type ProfileUpdate struct {
	Name             *string
	Contact          *string
	OrganizationType *string
	ProfilePicture   *string
}

// UpdateProfile applies the non-nil fields of upd and refreshes
// UpdatedAt, returning the updated account.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (models.Account, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Contact != nil {
		set["contact"] = *upd.Contact
	}
	if upd.OrganizationType != nil {
		set["organization_type"] = *upd.OrganizationType
	}
	if upd.ProfilePicture != nil {
		set["profile_picture"] = *upd.ProfilePicture
	}
	if _, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		return models.Account{}, err
	}
	return s.GetByID(ctx, id)
}

// UpdateLocation replaces the account's geographic point.
func (s *Store) UpdateLocation(ctx context.Context, id primitive.ObjectID, lng, lat float64) (models.Account, error) {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"location":   models.NewGeoPoint(lng, lat),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return models.Account{}, err
	}
	return s.GetByID(ctx, id)
}

// DeleteCascade removes the account and everything hanging off it: the
// account's listings, all claims on those listings, the account's own
// claims, pickups it participates in, reviews it wrote, and
// notifications addressed to it. Reviews other collectors wrote about a
// deleted provider stay, so that provider's public rating history is
// preserved.
//
// The deletes are sequential, not transactional; a failure partway
// leaves earlier deletes in place. Callers treat any error as fatal and
// surface it, so a retried delete simply resumes the remaining work.
func (s *Store) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	// Listings owned by the account, needed to find claims on them.
	cur, err := s.listings.Find(ctx, bson.M{"created_by": id})
	if err != nil {
		return err
	}
	var owned []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &owned); err != nil {
		return err
	}
	listingIDs := make([]primitive.ObjectID, 0, len(owned))
	for _, l := range owned {
		listingIDs = append(listingIDs, l.ID)
	}

	claimFilter := bson.M{"collector_id": id}
	if len(listingIDs) > 0 {
		claimFilter = bson.M{"$or": bson.A{
			bson.M{"collector_id": id},
			bson.M{"listing_id": bson.M{"$in": listingIDs}},
		}}
	}
	if _, err := s.claims.DeleteMany(ctx, claimFilter); err != nil {
		return err
	}
	if len(listingIDs) > 0 {
		if _, err := s.listings.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": listingIDs}}); err != nil {
			return err
		}
	}
	participant := bson.M{"$or": bson.A{
		bson.M{"collector_id": id},
		bson.M{"provider_id": id},
	}}
	if _, err := s.pickups.DeleteMany(ctx, participant); err != nil {
		return err
	}
	if _, err := s.reviews.DeleteMany(ctx, bson.M{"collector_id": id}); err != nil {
		return err
	}
	if _, err := s.notifications.DeleteMany(ctx, bson.M{"recipient_id": id}); err != nil {
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
