// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail
fast.

The unique indexes carry real invariants:
  - users.email        — one account per address
  - pickups.claim_id   — at most one pickup per claim
  - reviews.pickup_id  — at most one review per pickup
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureListings(ctx, db); err != nil {
		problems = append(problems, "listings: "+err.Error())
	}
	if err := ensureClaims(ctx, db); err != nil {
		problems = append(problems, "claims: "+err.Error())
	}
	if err := ensurePickups(ctx, db); err != nil {
		problems = append(problems, "pickups: "+err.Error())
	}
	if err := ensureReviews(ctx, db); err != nil {
		problems = append(problems, "reviews: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_email"),
		},
	})
	return err
}

func ensureListings(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("listings").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}},
			Options: options.Index().SetName("idx_listings_owner"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "waste_type", Value: 1}},
			Options: options.Index().SetName("idx_listings_status_type"),
		},
		{
			Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
			Options: options.Index().SetName("idx_listings_location"),
		},
	})
	return err
}

func ensureClaims(ctx context.Context, db *mongo.Database) error {
	// Note: (listing_id, collector_id) is deliberately NOT unique; only
	// *pending* duplicates are forbidden, which the store enforces at
	// creation. A rejected claim may be followed by a new one.
	_, err := db.Collection("claims").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "collector_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_claims_listing_collector"),
		},
		{
			Keys:    bson.D{{Key: "collector_id", Value: 1}},
			Options: options.Index().SetName("idx_claims_collector"),
		},
	})
	return err
}

func ensurePickups(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("pickups").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "claim_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_pickups_claim"),
		},
		{
			Keys:    bson.D{{Key: "collector_id", Value: 1}},
			Options: options.Index().SetName("idx_pickups_collector"),
		},
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}},
			Options: options.Index().SetName("idx_pickups_provider"),
		},
	})
	return err
}

func ensureReviews(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("reviews").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pickup_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_reviews_pickup"),
		},
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}},
			Options: options.Index().SetName("idx_reviews_provider"),
		},
	})
	return err
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("notifications").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_notifications_recipient"),
		},
	})
	return err
}
