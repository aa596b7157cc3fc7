package reviews_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/farmcycle/farmcycle/internal/app/features/reviews"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/farmcycle/farmcycle/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestHandleCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := reviews.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	collector := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	listing := fx.CreateListing(ctx, provider.ID, "Food Scraps")
	claim := fx.CreateClaim(ctx, listing.ID, collector.ID, models.ClaimAccepted)
	pickup := fx.CreatePickup(ctx, claim, provider.ID, models.PickupCompleted)

	body := `{"pickupId":"` + pickup.ID.Hex() + `","rating":4,"comment":"smooth handoff"}`
	req := testutil.WithPrincipal(
		httptest.NewRequest("POST", "/", strings.NewReader(body)), collector)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var stored models.Review
	if err := db.Collection("reviews").FindOne(ctx, bson.M{"pickup_id": pickup.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload review: %v", err)
	}
	if stored.ProviderID != provider.ID {
		t.Error("provider reference not denormalized")
	}

	// One review per pickup.
	rec = httptest.NewRecorder()
	h.HandleCreate(rec, testutil.WithPrincipal(
		httptest.NewRequest("POST", "/", strings.NewReader(body)), collector))
	if rec.Code != http.StatusConflict {
		t.Errorf("second review: status = %d, want 409", rec.Code)
	}
}

func TestHandleCreate_Guards(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := reviews.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	collector := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	stranger := fx.CreateCollector(ctx, "Biogas Co", "biogas@example.com")
	listing := fx.CreateListing(ctx, provider.ID, "Food Scraps")
	claim := fx.CreateClaim(ctx, listing.ID, collector.ID, models.ClaimAccepted)
	scheduled := fx.CreatePickup(ctx, claim, provider.ID, models.PickupScheduled)

	post := func(as models.Account, body string) *httptest.ResponseRecorder {
		req := testutil.WithPrincipal(
			httptest.NewRequest("POST", "/", strings.NewReader(body)), as)
		rec := httptest.NewRecorder()
		h.HandleCreate(rec, req)
		return rec
	}

	// A pickup that has not completed cannot be reviewed.
	body := `{"pickupId":"` + scheduled.ID.Hex() + `","rating":5}`
	if rec := post(collector, body); rec.Code != http.StatusBadRequest {
		t.Errorf("scheduled pickup: status = %d, want 400", rec.Code)
	}

	// Only the pickup's collector may review it.
	if rec := post(stranger, body); rec.Code != http.StatusForbidden {
		t.Errorf("stranger: status = %d, want 403", rec.Code)
	}

	// Rating bounds.
	for _, bad := range []string{
		`{"pickupId":"` + scheduled.ID.Hex() + `","rating":0}`,
		`{"pickupId":"` + scheduled.ID.Hex() + `","rating":6}`,
		`{"pickupId":"` + scheduled.ID.Hex() + `"}`,
	} {
		if rec := post(collector, bad); rec.Code != http.StatusBadRequest {
			t.Errorf("rating guard: status = %d, want 400 for %s", rec.Code, bad)
		}
	}
}

func TestHandleUpdate_AuthorOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := reviews.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	collector := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	other := fx.CreateCollector(ctx, "Biogas Co", "biogas@example.com")
	listing := fx.CreateListing(ctx, provider.ID, "Food Scraps")
	claim := fx.CreateClaim(ctx, listing.ID, collector.ID, models.ClaimAccepted)
	pickup := fx.CreatePickup(ctx, claim, provider.ID, models.PickupCompleted)
	review := fx.CreateReview(ctx, pickup, 3, "fine")

	update := func(as models.Account, body string) *httptest.ResponseRecorder {
		req := testutil.WithPrincipal(
			httptest.NewRequest("PUT", "/"+review.ID.Hex(), strings.NewReader(body)), as)
		req = testutil.WithChiURLParam(req, "id", review.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleUpdate(rec, req)
		return rec
	}

	if rec := update(other, `{"rating":1}`); rec.Code != http.StatusForbidden {
		t.Errorf("non-author: status = %d, want 403", rec.Code)
	}
	if rec := update(collector, `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty update: status = %d, want 400", rec.Code)
	}
	if rec := update(collector, `{"rating":5,"comment":"great after all"}`); rec.Code != http.StatusOK {
		t.Fatalf("author update: status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var stored models.Review
	if err := db.Collection("reviews").FindOne(ctx, bson.M{"_id": review.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload review: %v", err)
	}
	if stored.Rating != 5 || stored.Comment != "great after all" {
		t.Errorf("stored = rating %d comment %q", stored.Rating, stored.Comment)
	}
}

func TestHandleDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := reviews.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	collector := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	listing := fx.CreateListing(ctx, provider.ID, "Food Scraps")
	claim := fx.CreateClaim(ctx, listing.ID, collector.ID, models.ClaimAccepted)
	pickup := fx.CreatePickup(ctx, claim, provider.ID, models.PickupCompleted)
	review := fx.CreateReview(ctx, pickup, 3, "fine")

	req := testutil.WithPrincipal(
		httptest.NewRequest("DELETE", "/"+review.ID.Hex(), nil), collector)
	req = testutil.WithChiURLParam(req, "id", review.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}

	n, err := db.Collection("reviews").CountDocuments(ctx, bson.M{"_id": review.ID})
	if err != nil {
		t.Fatalf("count reviews: %v", err)
	}
	if n != 0 {
		t.Error("review still present after delete")
	}
}

func TestServeProviderAverage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := reviews.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	c1 := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	c2 := fx.CreateCollector(ctx, "Biogas Co", "biogas@example.com")
	l1 := fx.CreateListing(ctx, provider.ID, "Scraps A")
	l2 := fx.CreateListing(ctx, provider.ID, "Scraps B")
	p1 := fx.CreatePickup(ctx, fx.CreateClaim(ctx, l1.ID, c1.ID, models.ClaimAccepted), provider.ID, models.PickupCompleted)
	p2 := fx.CreatePickup(ctx, fx.CreateClaim(ctx, l2.ID, c2.ID, models.ClaimAccepted), provider.ID, models.PickupCompleted)
	fx.CreateReview(ctx, p1, 4, "good")
	fx.CreateReview(ctx, p2, 2, "late")

	req := testutil.WithChiURLParam(
		httptest.NewRequest("GET", "/provider/"+provider.ID.Hex()+"/average", nil),
		"id", provider.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeProviderAverage(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AvgRating  float64 `json:"avgRating"`
		NumReviews int64   `json:"numReviews"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.AvgRating != 3 || resp.NumReviews != 2 {
		t.Errorf("avg = %v count = %d, want 3 and 2", resp.AvgRating, resp.NumReviews)
	}
}

func TestServeProviderAverage_NoReviews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := reviews.NewHandler(db, zap.NewNop())

	req := testutil.WithChiURLParam(
		httptest.NewRequest("GET", "/provider/ffffffffffffffffffffffff/average", nil),
		"id", "ffffffffffffffffffffffff")
	rec := httptest.NewRecorder()
	h.ServeProviderAverage(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"numReviews":0`) {
		t.Errorf("expected zero reviews, got %s", rec.Body.String())
	}
}
