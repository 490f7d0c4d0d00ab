package handlers

import (
	"net/http"
	"strconv"

	"delivery-marketplace/internal/auth"
	"delivery-marketplace/internal/domain"
	"delivery-marketplace/internal/service/orders"
)

// ClientOrderHandler serves the client-facing order endpoints.
type ClientOrderHandler struct{ uc OrdersUsecase }

// NewClientOrderHandler wires an OrdersUsecase into HTTP handlers.
func NewClientOrderHandler(uc OrdersUsecase) *ClientOrderHandler {
	return &ClientOrderHandler{uc: uc}
}

func actorFromRequest(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return nil, false
	}
	return u, true
}

// Create handles POST /client/orders/.
func (h *ClientOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	var req createOrderRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	o, err := h.uc.Create(ctx, actor, orders.CreateInput{
		ServiceID:   req.Service,
		City:        req.City,
		Street:      req.Street,
		BuildingNum: req.BuildingNum,
		Building:    req.Building,
		Floor:       req.Floor,
		Apartment:   req.Apartment,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Comment:     req.Comment,
		Image:       req.Image,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/client/orders/"+strconv.FormatInt(o.ID, 10))
	writeJSON(w, r, http.StatusCreated, toOrderResponse(o))
}

// List handles GET /client/orders/.
func (h *ClientOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	list, err := h.uc.ListForCustomer(ctx, actor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponses(list))
}

// GetByID handles GET /client/orders/{id}.
func (h *ClientOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
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

// Update handles PATCH /client/orders/{id} with partial pre-assignment fields.
func (h *ClientOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeDetail(w, r, http.StatusBadRequest, "Invalid id.")
		return
	}
	var req updateOrderRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	o, err := h.uc.UpdateFields(ctx, actor, domain.PartialOrderUpdate{
		ID:          id,
		City:        req.City,
		Street:      req.Street,
		BuildingNum: req.BuildingNum,
		Building:    req.Building,
		Floor:       req.Floor,
		Apartment:   req.Apartment,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Comment:     req.Comment,
		Image:       req.Image,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponse(o))
}

// Delete handles DELETE /client/orders/{id}.
func (h *ClientOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.uc.Delete(ctx, id, actor); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
