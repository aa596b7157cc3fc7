package listings_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/farmcycle/farmcycle/internal/app/features/listings"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/farmcycle/farmcycle/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const createBody = `{
	"title": "Vegetable Peels",
	"description": "Daily kitchen prep waste",
	"quantity": "15kg",
	"wasteType": "vegetable_peels",
	"longitude": -92.33,
	"latitude": 38.95
}`

func TestHandleCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := listings.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")

	req := testutil.WithPrincipal(
		httptest.NewRequest("POST", "/", strings.NewReader(createBody)), provider)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "vegetable_peels") {
		t.Error("response missing waste type")
	}

	var stored models.Listing
	if err := db.Collection("listings").FindOne(ctx, bson.M{"created_by": provider.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	if stored.Status != models.ListingAvailable {
		t.Errorf("status = %q, want available", stored.Status)
	}
	if stored.Location.Type != "Point" {
		t.Errorf("location type = %q, want Point", stored.Location.Type)
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := listings.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"quantity":"5kg","wasteType":"other","longitude":0,"latitude":0}`},
		{"missing quantity", `{"title":"X","wasteType":"other","longitude":0,"latitude":0}`},
		{"bad waste type", `{"title":"X","quantity":"5kg","wasteType":"plastic","longitude":0,"latitude":0}`},
		{"missing coordinates", `{"title":"X","quantity":"5kg","wasteType":"other"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithPrincipal(
				httptest.NewRequest("POST", "/", strings.NewReader(tt.body)), provider)
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestServeList_FiltersByWasteType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := listings.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	fx.CreateListing(ctx, provider.ID, "Scraps A")
	fx.CreateListing(ctx, provider.ID, "Scraps B")

	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest("GET", "/?wasteType=food_scraps", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Scraps A") {
		t.Error("filtered list missing matching listing")
	}

	rec = httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest("GET", "/?wasteType=dairy_waste", nil))
	if body := rec.Body.String(); strings.Contains(body, "Scraps A") {
		t.Errorf("filter leaked non-matching listings: %s", body)
	}

	rec = httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest("GET", "/?wasteType=plastic", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown waste type: status = %d, want 400", rec.Code)
	}
}

func TestServeList_ExcludesCollected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := listings.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	open := fx.CreateListing(ctx, provider.ID, "Still Open")
	done := fx.CreateListing(ctx, provider.ID, "Already Collected")
	if _, err := db.Collection("listings").UpdateByID(ctx, done.ID,
		bson.M{"$set": bson.M{"status": models.ListingCollected}}); err != nil {
		t.Fatalf("mark collected: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest("GET", "/", nil))
	body := rec.Body.String()
	if !strings.Contains(body, open.Title) {
		t.Error("available listing missing from browse results")
	}
	if strings.Contains(body, done.Title) {
		t.Error("collected listing leaked into browse results")
	}
}

func TestHandleUpdate_OwnerOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := listings.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	other := fx.CreateProvider(ctx, "Other Farm", "other@example.com")
	listing := fx.CreateListing(ctx, owner.ID, "Food Scraps")

	req := testutil.WithPrincipal(
		httptest.NewRequest("PUT", "/"+listing.ID.Hex(), strings.NewReader(`{"quantity":"20kg"}`)), other)
	req = testutil.WithChiURLParam(req, "id", listing.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner update: status = %d, want 403", rec.Code)
	}

	req = testutil.WithPrincipal(
		httptest.NewRequest("PUT", "/"+listing.ID.Hex(), strings.NewReader(`{"quantity":"20kg"}`)), owner)
	req = testutil.WithChiURLParam(req, "id", listing.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleUpdate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner update: status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var stored models.Listing
	if err := db.Collection("listings").FindOne(ctx, bson.M{"_id": listing.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	if stored.Quantity != "20kg" {
		t.Errorf("quantity = %q, want 20kg", stored.Quantity)
	}
	if stored.Title != listing.Title {
		t.Errorf("title changed unexpectedly: %q", stored.Title)
	}
}

func TestHandleMarkCollected_Twice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := listings.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	listing := fx.CreateListing(ctx, owner.ID, "Food Scraps")

	mark := func() *httptest.ResponseRecorder {
		req := testutil.WithPrincipal(
			httptest.NewRequest("PUT", "/"+listing.ID.Hex()+"/collected", nil), owner)
		req = testutil.WithChiURLParam(req, "id", listing.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleMarkCollected(rec, req)
		return rec
	}

	if rec := mark(); rec.Code != http.StatusOK {
		t.Fatalf("first mark: status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if rec := mark(); rec.Code != http.StatusConflict {
		t.Errorf("second mark: status = %d, want 409", rec.Code)
	}
}

func TestHandleDelete_CascadesClaims(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := listings.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateProvider(ctx, "Green Farm", "farm@example.com")
	collector := fx.CreateCollector(ctx, "City Compost", "compost@example.com")
	listing := fx.CreateListing(ctx, owner.ID, "Food Scraps")
	fx.CreateClaim(ctx, listing.ID, collector.ID, models.ClaimPending)

	req := testutil.WithPrincipal(
		httptest.NewRequest("DELETE", "/"+listing.ID.Hex(), nil), owner)
	req = testutil.WithChiURLParam(req, "id", listing.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	for _, coll := range []string{"listings", "claims"} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("%s count = %d after delete, want 0", coll, n)
		}
	}
}

func TestServeListing_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := listings.NewHandler(db, zap.NewNop())

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/ffffffffffffffffffffffff", nil),
		"id", "ffffffffffffffffffffffff")
	rec := httptest.NewRecorder()
	h.ServeListing(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	req = testutil.WithChiURLParam(httptest.NewRequest("GET", "/nope", nil), "id", "nope")
	rec = httptest.NewRecorder()
	h.ServeListing(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id: status = %d, want 400", rec.Code)
	}
}
