package claimstore_test

import (
	"testing"

	claimstore "github.com/farmcycle/farmcycle/internal/app/store/claims"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/farmcycle/farmcycle/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreate_DuplicatePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	s := claimstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	collector := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	other := fx.CreateCollector(ctx, "Biogas Co", "biogas@example.com")
	listing := fx.CreateListing(ctx, provider.ID, "Food Scraps")

	claim := models.Claim{ListingID: listing.ID, CollectorID: collector.ID}
	if _, err := s.Create(ctx, claim); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, err := s.Create(ctx, claim); err != claimstore.ErrDuplicatePending {
		t.Errorf("duplicate claim: err = %v, want ErrDuplicatePending", err)
	}

	// A different collector can still claim the same listing.
	if _, err := s.Create(ctx, models.Claim{ListingID: listing.ID, CollectorID: other.ID}); err != nil {
		t.Errorf("second collector's claim: %v", err)
	}
}

func TestSetStatus_OnlyFromPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	s := claimstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	collector := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	listing := fx.CreateListing(ctx, provider.ID, "Food Scraps")
	claim := fx.CreateClaim(ctx, listing.ID, collector.ID, models.ClaimPending)

	if err := s.SetStatus(ctx, claim.ID, models.ClaimAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := s.SetStatus(ctx, claim.ID, models.ClaimRejected); err != claimstore.ErrNotPending {
		t.Errorf("re-decide: err = %v, want ErrNotPending", err)
	}
	if err := s.SetStatus(ctx, claim.ID, "collected"); err == nil {
		t.Error("illegal status accepted, want error")
	}
}

func TestDeletePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	s := claimstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	collector := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	listing := fx.CreateListing(ctx, provider.ID, "Food Scraps")
	accepted := fx.CreateClaim(ctx, listing.ID, collector.ID, models.ClaimAccepted)

	if err := s.DeletePending(ctx, accepted.ID); err != claimstore.ErrNotPending {
		t.Errorf("delete accepted claim: err = %v, want ErrNotPending", err)
	}
}

func TestFindAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	s := claimstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	collector := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	listing := fx.CreateListing(ctx, provider.ID, "Food Scraps")
	fx.CreateClaim(ctx, listing.ID, collector.ID, models.ClaimPending)

	if _, err := s.FindAccepted(ctx, listing.ID, collector.ID); err != mongo.ErrNoDocuments {
		t.Errorf("pending only: err = %v, want ErrNoDocuments", err)
	}

	accepted := fx.CreateClaim(ctx, listing.ID, collector.ID, models.ClaimAccepted)
	got, err := s.FindAccepted(ctx, listing.ID, collector.ID)
	if err != nil {
		t.Fatalf("FindAccepted: %v", err)
	}
	if got.ID != accepted.ID {
		t.Errorf("found claim %s, want %s", got.ID.Hex(), accepted.ID.Hex())
	}
}
