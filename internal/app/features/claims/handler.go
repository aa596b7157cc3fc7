// internal/app/features/claims/handler.go
package claims

import (
	"net/http"

	claimstore "github.com/farmcycle/farmcycle/internal/app/store/claims"
	listingstore "github.com/farmcycle/farmcycle/internal/app/store/listings"
	notificationstore "github.com/farmcycle/farmcycle/internal/app/store/notifications"
	"github.com/farmcycle/farmcycle/internal/app/system/apperr"
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/farmcycle/farmcycle/internal/app/system/httpjson"
	"github.com/farmcycle/farmcycle/internal/app/system/sanitize"
	"github.com/farmcycle/farmcycle/internal/app/system/timeouts"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the claim workflow: collectors raise claims on listings,
// listing owners approve or reject them.
type Handler struct {
	Log           *zap.Logger
	Claims        *claimstore.Store
	Listings      *listingstore.Store
	Notifications *notificationstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:           logger,
		Claims:        claimstore.New(db),
		Listings:      listingstore.New(db),
		Notifications: notificationstore.New(db),
	}
}

// notify appends a notification and logs failures instead of surfacing
// them: the side channel never fails the main operation.
func (h *Handler) notify(r *http.Request, recipientID primitive.ObjectID, message string) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()
	if _, err := h.Notifications.Create(ctx, recipientID, message); err != nil {
		h.Log.Warn("notification write failed",
			zap.String("recipient_id", recipientID.Hex()),
			zap.Error(err))
	}
}

func pathID(r *http.Request, name, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid " + what + " id")
	}
	return oid, nil
}

type createRequest struct {
	Message string `json:"message,omitempty"`
}

// HandleCreate raises a pending claim on a listing and notifies its
// owner.
// POST /api/claims/{listingId}/claim  (collector only)
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	listingID, err := pathID(r, "listingId", "listing")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req createRequest
	if r.ContentLength > 0 {
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	listing, err := h.Listings.GetByID(ctx, listingID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.NotFound("listing not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	claim, err := h.Claims.Create(ctx, models.Claim{
		ListingID:   listing.ID,
		CollectorID: uid,
		Message:     sanitize.Text(req.Message),
	})
	if err != nil {
		if err == claimstore.ErrDuplicatePending {
			httpjson.Error(w, h.Log, apperr.Conflict(err.Error()))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.notify(r, listing.CreatedBy, "New claim on your listing \""+listing.Title+"\"")

	h.Log.Info("claim created",
		zap.String("claim_id", claim.ID.Hex()),
		zap.String("listing_id", listing.ID.Hex()),
		zap.String("collector_id", uid.Hex()))
	httpjson.Respond(w, http.StatusCreated, claim)
}

// ServeMine returns the caller's own claims.
// GET /api/claims/my/claims  (collector only)
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	claims, err := h.Claims.FindByCollector(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if claims == nil {
		claims = []models.Claim{}
	}
	httpjson.Respond(w, http.StatusOK, claims)
}

// ServeReceived returns the claims made against any listing the caller
// owns.
// GET /api/claims/provider/claims  (provider only)
func (h *Handler) ServeReceived(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	claims, err := h.Claims.FindByProvider(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if claims == nil {
		claims = []models.Claim{}
	}
	httpjson.Respond(w, http.StatusOK, claims)
}

// ServeForListing returns the claims on one listing, for its owner.
// GET /api/claims/listing/{listingId}  (listing owner only)
func (h *Handler) ServeForListing(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	listingID, err := pathID(r, "listingId", "listing")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	listing, err := h.Listings.GetByID(ctx, listingID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.NotFound("listing not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if listing.CreatedBy != uid {
		httpjson.Error(w, h.Log, apperr.Authorization("you do not own this listing"))
		return
	}

	claims, err := h.Claims.FindByListing(ctx, listingID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if claims == nil {
		claims = []models.Claim{}
	}
	httpjson.Respond(w, http.StatusOK, claims)
}

// HandleApprove accepts a pending claim.
// PUT /api/claims/{id}/approve  (listing owner only)
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.ClaimAccepted, "Your claim was approved")
}

// HandleReject rejects a pending claim.
// PUT /api/claims/{id}/reject  (listing owner only)
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.ClaimRejected, "Your claim was rejected")
}

// decide moves a pending claim to its decided status and notifies the
// collector. Only the listing owner may decide, and only once: the
// conditional update means a second decision (or the loser of a race)
// gets a conflict.
func (h *Handler) decide(w http.ResponseWriter, r *http.Request, status, note string) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	claimID, err := pathID(r, "id", "claim")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	claim, err := h.Claims.GetByID(ctx, claimID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.NotFound("claim not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	listing, err := h.Listings.GetByID(ctx, claim.ListingID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.NotFound("listing not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if listing.CreatedBy != uid {
		httpjson.Error(w, h.Log, apperr.Authorization("you do not own this listing"))
		return
	}

	if err := h.Claims.SetStatus(ctx, claim.ID, status); err != nil {
		if err == claimstore.ErrNotPending {
			httpjson.Error(w, h.Log, apperr.Conflict(err.Error()))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.notify(r, claim.CollectorID, note+" for \""+listing.Title+"\"")

	h.Log.Info("claim decided",
		zap.String("claim_id", claim.ID.Hex()),
		zap.String("status", status))
	httpjson.Message(w, http.StatusOK, "claim "+status)
}

// HandleCancel hard-deletes the caller's own pending claim.
// DELETE /api/claims/{id}/cancel  (claim's collector only)
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	claimID, err := pathID(r, "id", "claim")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	claim, err := h.Claims.GetByID(ctx, claimID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.NotFound("claim not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if claim.CollectorID != uid {
		httpjson.Error(w, h.Log, apperr.Authorization("this is not your claim"))
		return
	}

	if err := h.Claims.DeletePending(ctx, claim.ID); err != nil {
		if err == claimstore.ErrNotPending {
			httpjson.Error(w, h.Log, apperr.Conflict(err.Error()))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Message(w, http.StatusOK, "claim cancelled")
}

// HandleMarkCollected sets the collector's collected flag on their own
// claim. Independent of claim status and of any pickup.
// PUT /api/claims/{id}/collected  (claim's collector only)
func (h *Handler) HandleMarkCollected(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	claimID, err := pathID(r, "id", "claim")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	claim, err := h.Claims.GetByID(ctx, claimID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.NotFound("claim not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if claim.CollectorID != uid {
		httpjson.Error(w, h.Log, apperr.Authorization("this is not your claim"))
		return
	}

	if err := h.Claims.SetCollected(ctx, claim.ID, true); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Message(w, http.StatusOK, "claim marked as collected")
}
