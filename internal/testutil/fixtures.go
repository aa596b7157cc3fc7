package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/farmcycle/farmcycle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateAccount creates a test account with the given role. The
// password for every fixture account is "secret123".
func (f *Fixtures) CreateAccount(ctx context.Context, name, email, role string) models.Account {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	a := models.Account{
		ID:               primitive.NewObjectID(),
		Name:             name,
		Email:            email,
		PasswordHash:     string(hash),
		Role:             role,
		OrganizationType: models.OrgFarm,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test account: %v", err)
	}
	return a
}

// CreateProvider creates a test provider account.
func (f *Fixtures) CreateProvider(ctx context.Context, name, email string) models.Account {
	f.t.Helper()
	return f.CreateAccount(ctx, name, email, models.RoleProvider)
}

// CreateCollector creates a test collector account.
func (f *Fixtures) CreateCollector(ctx context.Context, name, email string) models.Account {
	f.t.Helper()
	return f.CreateAccount(ctx, name, email, models.RoleCollector)
}

// CreateListing creates an available listing owned by the given account.
func (f *Fixtures) CreateListing(ctx context.Context, ownerID primitive.ObjectID, title string) models.Listing {
	f.t.Helper()

	now := time.Now().UTC()
	l := models.Listing{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: "Test listing description",
		Quantity:    "10kg",
		WasteType:   models.WasteFoodScraps,
		Location:    models.NewGeoPoint(-92.33, 38.95),
		CreatedBy:   ownerID,
		Status:      models.ListingAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("listings").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test listing: %v", err)
	}
	return l
}

// CreateClaim creates a claim with the given status.
func (f *Fixtures) CreateClaim(ctx context.Context, listingID, collectorID primitive.ObjectID, status string) models.Claim {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Claim{
		ID:          primitive.NewObjectID(),
		ListingID:   listingID,
		CollectorID: collectorID,
		Message:     "Test claim message",
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("claims").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test claim: %v", err)
	}
	return c
}

// CreatePickup creates a pickup with the given status, denormalizing
// references from the claim the way the schedule handler does.
func (f *Fixtures) CreatePickup(ctx context.Context, claim models.Claim, providerID primitive.ObjectID, status string) models.Pickup {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Pickup{
		ID:            primitive.NewObjectID(),
		ClaimID:       claim.ID,
		ListingID:     claim.ListingID,
		CollectorID:   claim.CollectorID,
		ProviderID:    providerID,
		ScheduledTime: "2026-09-01T10:00:00Z",
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("pickups").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test pickup: %v", err)
	}
	return p
}

// CreateReview creates a review of the given pickup.
func (f *Fixtures) CreateReview(ctx context.Context, pickup models.Pickup, rating int, comment string) models.Review {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Review{
		ID:          primitive.NewObjectID(),
		PickupID:    pickup.ID,
		ListingID:   pickup.ListingID,
		ProviderID:  pickup.ProviderID,
		CollectorID: pickup.CollectorID,
		Rating:      rating,
		Comment:     comment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("reviews").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test review: %v", err)
	}
	return r
}

// CreateNotification creates an unread notification for the recipient.
func (f *Fixtures) CreateNotification(ctx context.Context, recipientID primitive.ObjectID, message string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:          primitive.NewObjectID(),
		RecipientID: recipientID,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
