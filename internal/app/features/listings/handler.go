// internal/app/features/listings/handler.go
package listings

import (
	"net/http"

	listingstore "github.com/farmcycle/farmcycle/internal/app/store/listings"
	"github.com/farmcycle/farmcycle/internal/app/system/apperr"
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/farmcycle/farmcycle/internal/app/system/httpjson"
	"github.com/farmcycle/farmcycle/internal/app/system/normalize"
	"github.com/farmcycle/farmcycle/internal/app/system/sanitize"
	"github.com/farmcycle/farmcycle/internal/app/system/timeouts"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the listing REST surface.
type Handler struct {
	Log      *zap.Logger
	Listings *listingstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Listings: listingstore.New(db)}
}

func listingID(r *http.Request) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid listing id")
	}
	return oid, nil
}

type createRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Quantity    string   `json:"quantity"`
	WasteType   string   `json:"wasteType"`
	Longitude   *float64 `json:"longitude"`
	Latitude    *float64 `json:"latitude"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// HandleCreate posts a new available listing.
// POST /api/listings  (provider only)
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Title = sanitize.Text(req.Title)
	req.Description = sanitize.Text(req.Description)
	req.Quantity = sanitize.Text(req.Quantity)
	req.WasteType = normalize.Category(req.WasteType)

	switch {
	case req.Title == "":
		httpjson.Error(w, h.Log, apperr.Validation("title is required"))
		return
	case req.Quantity == "":
		httpjson.Error(w, h.Log, apperr.Validation("quantity is required"))
		return
	case !models.ValidWasteType(req.WasteType):
		httpjson.Error(w, h.Log, apperr.Validation("unknown waste type"))
		return
	case req.Longitude == nil || req.Latitude == nil:
		httpjson.Error(w, h.Log, apperr.Validation("longitude and latitude are required"))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	listing, err := h.Listings.Create(ctx, models.Listing{
		Title:       req.Title,
		Description: req.Description,
		Quantity:    req.Quantity,
		WasteType:   req.WasteType,
		Location:    models.NewGeoPoint(*req.Longitude, *req.Latitude),
		CreatedBy:   uid,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("listing created",
		zap.String("listing_id", listing.ID.Hex()),
		zap.String("owner_id", uid.Hex()))
	httpjson.Respond(w, http.StatusCreated, listing)
}

// ServeList returns available listings for browsing, optionally
// filtered with ?wasteType=.
// GET /api/listings
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	wasteType := normalize.Category(r.URL.Query().Get("wasteType"))
	if wasteType != "" && !models.ValidWasteType(wasteType) {
		httpjson.Error(w, h.Log, apperr.Validation("unknown waste type"))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	listings, err := h.Listings.FindAvailable(ctx, wasteType)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	httpjson.Respond(w, http.StatusOK, listings)
}

// ServeMine returns the caller's own listings regardless of status.
// GET /api/listings/my  (provider only)
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	listings, err := h.Listings.FindByOwner(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	httpjson.Respond(w, http.StatusOK, listings)
}

// ServeListing returns one listing by ID.
// GET /api/listings/{id}
func (h *Handler) ServeListing(w http.ResponseWriter, r *http.Request) {
	id, err := listingID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	listing, err := h.Listings.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.NotFound("listing not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Respond(w, http.StatusOK, listing)
}

type updateRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Quantity    *string  `json:"quantity,omitempty"`
	WasteType   *string  `json:"wasteType,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
}

// HandleUpdate applies a partial edit to an owned listing.
// PUT /api/listings/{id}  (owner only)
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	listing, _, err := h.loadOwned(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	upd := listingstore.Update{ImageURL: req.ImageURL}
	if req.Title != nil {
		title := sanitize.Text(*req.Title)
		if title == "" {
			httpjson.Error(w, h.Log, apperr.Validation("title cannot be empty"))
			return
		}
		upd.Title = &title
	}
	if req.Description != nil {
		desc := sanitize.Text(*req.Description)
		upd.Description = &desc
	}
	if req.Quantity != nil {
		qty := sanitize.Text(*req.Quantity)
		if qty == "" {
			httpjson.Error(w, h.Log, apperr.Validation("quantity cannot be empty"))
			return
		}
		upd.Quantity = &qty
	}
	if req.WasteType != nil {
		wt := normalize.Category(*req.WasteType)
		if !models.ValidWasteType(wt) {
			httpjson.Error(w, h.Log, apperr.Validation("unknown waste type"))
			return
		}
		upd.WasteType = &wt
	}
	if req.Longitude != nil || req.Latitude != nil {
		if req.Longitude == nil || req.Latitude == nil {
			httpjson.Error(w, h.Log, apperr.Validation("longitude and latitude must be set together"))
			return
		}
		loc := models.NewGeoPoint(*req.Longitude, *req.Latitude)
		upd.Location = &loc
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	updated, err := h.Listings.Apply(ctx, listing.ID, upd)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleMarkCollected transitions an owned listing to its terminal
// status. This is an explicit owner action, deliberately independent of
// pickup completion.
// PUT /api/listings/{id}/collected  (owner only)
func (h *Handler) HandleMarkCollected(w http.ResponseWriter, r *http.Request) {
	listing, _, err := h.loadOwned(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	if err := h.Listings.MarkCollected(ctx, listing.ID); err != nil {
		if err == listingstore.ErrAlreadyCollected {
			httpjson.Error(w, h.Log, apperr.Conflict(err.Error()))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Message(w, http.StatusOK, "listing marked as collected")
}

// HandleDelete removes an owned listing and the claims against it.
// DELETE /api/listings/{id}  (owner only)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	listing, _, err := h.loadOwned(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	if err := h.Listings.Delete(ctx, listing.ID); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("listing deleted", zap.String("listing_id", listing.ID.Hex()))
	httpjson.Message(w, http.StatusOK, "listing deleted")
}

// loadOwned fetches the listing from the URL and verifies the caller
// owns it. The ownership guard is the equality check against CreatedBy.
func (h *Handler) loadOwned(r *http.Request) (models.Listing, primitive.ObjectID, error) {
	uid, err := auth.CallerID(r)
	if err != nil {
		return models.Listing{}, primitive.NilObjectID, err
	}
	id, err := listingID(r)
	if err != nil {
		return models.Listing{}, primitive.NilObjectID, err
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	listing, err := h.Listings.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.Listing{}, primitive.NilObjectID, apperr.NotFound("listing not found")
	}
	if err != nil {
		return models.Listing{}, primitive.NilObjectID, apperr.Internal(err)
	}
	if listing.CreatedBy != uid {
		return models.Listing{}, primitive.NilObjectID, apperr.Authorization("you do not own this listing")
	}
	return listing, uid, nil
}
