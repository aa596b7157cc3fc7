// internal/app/features/reviews/handler.go
package reviews

import (
	"net/http"

	pickupstore "github.com/farmcycle/farmcycle/internal/app/store/pickups"
	reviewstore "github.com/farmcycle/farmcycle/internal/app/store/reviews"
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

// Handler owns reviews: collectors rate providers after a completed
// pickup, and anyone can read a provider's reviews.
type Handler struct {
	Log     *zap.Logger
	Reviews *reviewstore.Store
	Pickups *pickupstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:     logger,
		Reviews: reviewstore.New(db),
		Pickups: pickupstore.New(db),
	}
}

type createRequest struct {
	PickupID string `json:"pickupId"`
	Rating   *int   `json:"rating"`
	Comment  string `json:"comment,omitempty"`
}

// HandleCreate posts a review of a completed pickup. One review per
// pickup, author must be the pickup's collector.
// POST /api/reviews  (collector only)
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

	pickupID, err := primitive.ObjectIDFromHex(req.PickupID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("invalid pickup id"))
		return
	}
	if req.Rating == nil || *req.Rating < models.RatingMin || *req.Rating > models.RatingMax {
		httpjson.Error(w, h.Log, apperr.Validation("rating must be between 1 and 5"))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	pickup, err := h.Pickups.GetByID(ctx, pickupID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.NotFound("pickup not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if pickup.CollectorID != uid {
		httpjson.Error(w, h.Log, apperr.Authorization("you are not this pickup's collector"))
		return
	}
	if pickup.Status != models.PickupCompleted {
		httpjson.Error(w, h.Log, apperr.Validation("only completed pickups can be reviewed"))
		return
	}

	review, err := h.Reviews.Create(ctx, models.Review{
		PickupID:    pickup.ID,
		ListingID:   pickup.ListingID,
		ProviderID:  pickup.ProviderID,
		CollectorID: uid,
		Rating:      *req.Rating,
		Comment:     sanitize.Text(req.Comment),
	})
	if err != nil {
		if err == reviewstore.ErrAlreadyReviewed {
			httpjson.Error(w, h.Log, apperr.Conflict(err.Error()))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("review created",
		zap.String("review_id", review.ID.Hex()),
		zap.String("pickup_id", pickup.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, review)
}

type updateRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// HandleUpdate edits the caller's own review.
// PUT /api/reviews/{id}  (author only)
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	review, err := h.loadOwn(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.Rating == nil && req.Comment == nil {
		httpjson.Error(w, h.Log, apperr.Validation("nothing to update"))
		return
	}
	if req.Rating != nil && (*req.Rating < models.RatingMin || *req.Rating > models.RatingMax) {
		httpjson.Error(w, h.Log, apperr.Validation("rating must be between 1 and 5"))
		return
	}
	if req.Comment != nil {
		clean := sanitize.Text(*req.Comment)
		req.Comment = &clean
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	updated, err := h.Reviews.Update(ctx, review.ID, req.Rating, req.Comment)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete removes the caller's own review.
// DELETE /api/reviews/{id}  (author only)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	review, err := h.loadOwn(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	if err := h.Reviews.Delete(ctx, review.ID); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Message(w, http.StatusOK, "review deleted")
}

// ServeForProvider returns a provider's reviews, newest first. Public.
// GET /api/reviews/provider/{id}
func (h *Handler) ServeForProvider(w http.ResponseWriter, r *http.Request) {
	providerID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("invalid provider id"))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	reviews, err := h.Reviews.FindByProvider(ctx, providerID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	httpjson.Respond(w, http.StatusOK, reviews)
}

type averageResponse struct {
	AvgRating  float64 `json:"avgRating"`
	NumReviews int64   `json:"numReviews"`
}

// ServeProviderAverage returns the provider's average rating, computed
// on read. Public.
// GET /api/reviews/provider/{id}/average
func (h *Handler) ServeProviderAverage(w http.ResponseWriter, r *http.Request) {
	providerID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("invalid provider id"))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	avg, count, err := h.Reviews.ProviderAverage(ctx, providerID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Respond(w, http.StatusOK, averageResponse{AvgRating: avg, NumReviews: count})
}

// loadOwn fetches the review from the URL and verifies the caller wrote
// it.
func (h *Handler) loadOwn(r *http.Request) (models.Review, error) {
	uid, err := auth.CallerID(r)
	if err != nil {
		return models.Review{}, err
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Review{}, apperr.Validation("invalid review id")
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	review, err := h.Reviews.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.Review{}, apperr.NotFound("review not found")
	}
	if err != nil {
		return models.Review{}, apperr.Internal(err)
	}
	if review.CollectorID != uid {
		return models.Review{}, apperr.Authorization("this is not your review")
	}
	return review, nil
}
