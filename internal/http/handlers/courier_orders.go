package handlers

import (
	"net/http"

	"delivery-marketplace/internal/domain"
)

// CourierOrderHandler serves the courier-facing order endpoints.
type CourierOrderHandler struct{ uc OrdersUsecase }

// NewCourierOrderHandler wires an OrdersUsecase into HTTP handlers.
func NewCourierOrderHandler(uc OrdersUsecase) *CourierOrderHandler {
	return &CourierOrderHandler{uc: uc}
}

// ListAvailable handles GET /courier/orders/.
func (h *CourierOrderHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	list, err := h.uc.ListAvailable(ctx, actor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponses(list))
}

// ListAssigned handles GET /courier/orders/assigned_orders.
func (h *CourierOrderHandler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	list, err := h.uc.ListAssigned(ctx, actor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponses(list))
}

// ListCompleted handles GET /courier/orders/completed_orders.
func (h *CourierOrderHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	list, err := h.uc.ListCompleted(ctx, actor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponses(list))
}

// GetByID handles GET /courier/orders/{id}.
func (h *CourierOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
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

	o, err := h.uc.Get(ctx, id, actor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponse(o))
}

// Assign handles PATCH /courier/orders/{id}/assign.
func (h *CourierOrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
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

	o, err := h.uc.Claim(ctx, id, actor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponse(o))
}

// Unassign handles PATCH /courier/orders/{id}/unassign.
func (h *CourierOrderHandler) Unassign(w http.ResponseWriter, r *http.Request) {
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

	o, err := h.uc.Unclaim(ctx, id, actor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponse(o))
}

// UpdateStatus handles PATCH /courier/orders/{id}/update_status.
func (h *CourierOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeDetail(w, r, http.StatusBadRequest, "Invalid id.")
		return
	}
	var req updateStatusRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}
	if req.Status == "" {
		writeDetail(w, r, http.StatusBadRequest, "Status not provided.")
		return
	}

	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	o, err := h.uc.Advance(ctx, id, actor, domain.OrderStatus(req.Status))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponse(o))
}
