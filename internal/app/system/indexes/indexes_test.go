package indexes_test

import (
	"context"
	"testing"

	"github.com/farmcycle/farmcycle/internal/app/system/indexes"
	"github.com/farmcycle/farmcycle/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func indexNames(t *testing.T, ctx context.Context, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes on %s failed: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_CreatesExpectedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"users":         {"idx_users_email"},
		"listings":      {"idx_listings_owner", "idx_listings_status_type", "idx_listings_location"},
		"claims":        {"idx_claims_listing_collector", "idx_claims_collector"},
		"pickups":       {"idx_pickups_claim", "idx_pickups_collector", "idx_pickups_provider"},
		"reviews":       {"idx_reviews_pickup", "idx_reviews_provider"},
		"notifications": {"idx_notifications_recipient"},
	}
	for coll, wanted := range expected {
		names := indexNames(t, ctx, db, coll)
		for _, name := range wanted {
			if !names[name] {
				t.Errorf("expected index %q to exist on %s collection", name, coll)
			}
		}
	}
}

func TestEnsureAll_UniqueIndexesEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// One account per email
	if _, err := db.Collection("users").InsertOne(ctx, bson.M{"email": "dup@example.com"}); err != nil {
		t.Fatalf("Insert user failed: %v", err)
	}
	if _, err := db.Collection("users").InsertOne(ctx, bson.M{"email": "dup@example.com"}); err == nil {
		t.Error("expected duplicate key error for unique index on users.email")
	}

	// One pickup per claim
	claimID := bson.M{"claim_id": "c1"}
	if _, err := db.Collection("pickups").InsertOne(ctx, claimID); err != nil {
		t.Fatalf("Insert pickup failed: %v", err)
	}
	if _, err := db.Collection("pickups").InsertOne(ctx, claimID); err == nil {
		t.Error("expected duplicate key error for unique index on pickups.claim_id")
	}

	// One review per pickup
	pickupID := bson.M{"pickup_id": "p1"}
	if _, err := db.Collection("reviews").InsertOne(ctx, pickupID); err != nil {
		t.Fatalf("Insert review failed: %v", err)
	}
	if _, err := db.Collection("reviews").InsertOne(ctx, pickupID); err == nil {
		t.Error("expected duplicate key error for unique index on reviews.pickup_id")
	}
}
