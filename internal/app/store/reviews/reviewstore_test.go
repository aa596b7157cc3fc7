package reviewstore_test

import (
	"testing"

	reviewstore "github.com/farmcycle/farmcycle/internal/app/store/reviews"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/farmcycle/farmcycle/internal/testutil"
)

func TestCreate_OneReviewPerPickup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	s := reviewstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	collector := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	listing := fx.CreateListing(ctx, provider.ID, "Food Scraps")
	claim := fx.CreateClaim(ctx, listing.ID, collector.ID, models.ClaimAccepted)
	pickup := fx.CreatePickup(ctx, claim, provider.ID, models.PickupCompleted)

	r := models.Review{
		PickupID:    pickup.ID,
		ListingID:   pickup.ListingID,
		ProviderID:  pickup.ProviderID,
		CollectorID: pickup.CollectorID,
		Rating:      4,
	}
	if _, err := s.Create(ctx, r); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := s.Create(ctx, r); err != reviewstore.ErrAlreadyReviewed {
		t.Errorf("second review: err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestProviderAverage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	s := reviewstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	c1 := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	c2 := fx.CreateCollector(ctx, "Biogas Co", "biogas@example.com")
	l1 := fx.CreateListing(ctx, provider.ID, "Scraps A")
	l2 := fx.CreateListing(ctx, provider.ID, "Scraps B")
	p1 := fx.CreatePickup(ctx, fx.CreateClaim(ctx, l1.ID, c1.ID, models.ClaimAccepted), provider.ID, models.PickupCompleted)
	p2 := fx.CreatePickup(ctx, fx.CreateClaim(ctx, l2.ID, c2.ID, models.ClaimAccepted), provider.ID, models.PickupCompleted)
	fx.CreateReview(ctx, p1, 5, "great")
	fx.CreateReview(ctx, p2, 2, "late")

	avg, count, err := s.ProviderAverage(ctx, provider.ID)
	if err != nil {
		t.Fatalf("ProviderAverage: %v", err)
	}
	if avg != 3.5 || count != 2 {
		t.Errorf("avg = %v count = %d, want 3.5 and 2", avg, count)
	}

	// A provider with no reviews gets zeros, not an error.
	avg, count, err = s.ProviderAverage(ctx, c1.ID)
	if err != nil {
		t.Fatalf("ProviderAverage empty: %v", err)
	}
	if avg != 0 || count != 0 {
		t.Errorf("empty: avg = %v count = %d, want zeros", avg, count)
	}
}
