package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bytecart/internal/expiry"
	"bytecart/internal/metrics"
	"bytecart/internal/model"
	"bytecart/internal/store"
)

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB     *sql.DB
	Logger *logrus.Logger
}

// itemRequest is the shared body for create and update. Updates are
// full-record replaces: optional fields left out of the body reset to empty
// rather than keeping their previous value.
type itemRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Quantity   int    `json:"quantity"`
	ExpiryDate string `json:"expiryDate"`
	Notes      string `json:"notes"`
	ImageURL   string `json:"imageUrl"`
}

// toItem validates the request and converts it to a model.Item.
// The returned message is empty when the request is valid.
func (req *itemRequest) toItem() (model.Item, string) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Item{}, "name is required"
	}
	if !model.ValidItemType(req.Type) {
		return model.Item{}, "type must be 'grocery' or 'medicine'"
	}
	if req.Quantity < 1 {
		return model.Item{}, "quantity must be at least 1"
	}
	if req.ExpiryDate == "" {
		return model.Item{}, "expiryDate is required"
	}
	expiryDate, err := parseDate(req.ExpiryDate)
	if err != nil {
		return model.Item{}, "expiryDate must be YYYY-MM-DD or RFC 3339"
	}

	return model.Item{
		Name:       name,
		Type:       req.Type,
		Quantity:   req.Quantity,
		ExpiryDate: expiryDate,
		Notes:      strings.TrimSpace(req.Notes),
		ImageURL:   strings.TrimSpace(req.ImageURL),
	}, ""
}

// parseDate accepts a bare calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// annotate fills the derived status fields on an item. The classification
// depends on the current time, so it runs on every read.
func annotate(item *model.Item, now time.Time) {
	status, days := expiry.Classify(item.ExpiryDate, now)
	item.Status = string(status)
	item.DaysUntilExpiry = days
}

func annotateAll(items []model.Item, now time.Time) {
	for i := range items {
		annotate(&items[i], now)
	}
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	items, err := store.ListItems(r.Context(), h.DB, claims.UserID)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list items")
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	annotateAll(items, time.Now())
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, msg := req.toItem()
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}
	item.UserID = claims.UserID

	created, err := store.CreateItem(r.Context(), h.DB, item)
	if err != nil {
		h.Logger.WithError(err).Error("failed to create item")
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	metrics.ItemsCreated.Inc()
	annotate(created, time.Now())
	jsonResponse(w, http.StatusCreated, created)
}

// Expiring handles GET /api/items/expiring. The window starts where the
// reminder sweep's ends, so the dashboard shows upcoming rather than urgent
// items.
func (h *ItemsHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	items, err := store.ListExpiringSoon(r.Context(), h.DB, claims.UserID, time.Now())
	if err != nil {
		h.Logger.WithError(err).Error("failed to list expiring items")
		jsonError(w, http.StatusInternalServerError, "failed to list expiring items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	annotateAll(items, time.Now())
	jsonResponse(w, http.StatusOK, items)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, msg := req.toItem()
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := store.UpdateItemOwned(r.Context(), h.DB, id, claims.UserID, item)
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
		return
	case errors.Is(err, store.ErrNotOwner):
		jsonError(w, http.StatusUnauthorized, "not authorized")
		return
	case err != nil:
		h.Logger.WithError(err).Error("failed to update item")
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	annotate(updated, time.Now())
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	err = store.DeleteItemOwned(r.Context(), h.DB, id, claims.UserID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
		return
	case errors.Is(err, store.ErrNotOwner):
		jsonError(w, http.StatusUnauthorized, "not authorized")
		return
	case err != nil:
		h.Logger.WithError(err).Error("failed to delete item")
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item removed"})
}
