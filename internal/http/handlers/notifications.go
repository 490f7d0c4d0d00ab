package handlers

import "net/http"

// NotificationHandler serves the notification feed endpoints.
type NotificationHandler struct{ uc NotificationsUsecase }

// NewNotificationHandler wires a NotificationsUsecase into HTTP handlers.
func NewNotificationHandler(uc NotificationsUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List handles GET /notifications/.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	list, err := h.uc.List(ctx, actor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toNotificationResponses(list))
}

// Unread handles GET /notifications/unread.
func (h *NotificationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	list, err := h.uc.Unread(ctx, actor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toNotificationResponses(list))
}

// MarkRead handles POST /notifications/{id}/mark_as_read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeDetail(w, r, http.StatusBadRequest, "Invalid id.")
		return
	}
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	if err := h.uc.MarkRead(ctx, actor, id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// MarkAllRead handles POST /notifications/mark_all_as_read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	if err := h.uc.MarkAllRead(ctx, actor); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
