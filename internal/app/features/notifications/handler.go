// internal/app/features/notifications/handler.go
package notifications

import (
	"net/http"

	notificationstore "github.com/farmcycle/farmcycle/internal/app/store/notifications"
	"github.com/farmcycle/farmcycle/internal/app/system/apperr"
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/farmcycle/farmcycle/internal/app/system/httpjson"
	"github.com/farmcycle/farmcycle/internal/app/system/timeouts"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the caller's notification feed. Writes happen in the
// claims and pickups features; this surface only reads, marks, and
// deletes.
type Handler struct {
	Log           *zap.Logger
	Notifications *notificationstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Notifications: notificationstore.New(db)}
}

// ServeMine returns the caller's notifications, newest first.
// GET /api/notifications
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	ns, err := h.Notifications.FindByRecipient(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if ns == nil {
		ns = []models.Notification{}
	}
	httpjson.Respond(w, http.StatusOK, ns)
}

// HandleMarkRead marks one of the caller's notifications read. A
// notification belonging to someone else is indistinguishable from a
// missing one.
// PUT /api/notifications/{id}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	uid, id, err := callerAndID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id, uid); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("notification not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Message(w, http.StatusOK, "notification marked as read")
}

// HandleDelete removes one of the caller's notifications.
// DELETE /api/notifications/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, id, err := callerAndID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Notifications.Delete(ctx, id, uid); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("notification not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Message(w, http.StatusOK, "notification deleted")
}

func callerAndID(r *http.Request) (uid, id primitive.ObjectID, err error) {
	uid, err = auth.CallerID(r)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	id, err = primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, apperr.Validation("invalid notification id")
	}
	return uid, id, nil
}
