package handlers

import (
	"time"

	"delivery-marketplace/internal/domain"
)

type orderResponse struct {
	ID              int64    `json:"id"`
	Service         int64    `json:"service"`
	Customer        int64    `json:"customer"`
	Courier         *int64   `json:"courier"`
	City            string   `json:"city"`
	Street          string   `json:"street"`
	BuildingNum     string   `json:"building_num,omitempty"`
	Building        string   `json:"building,omitempty"`
	Floor           string   `json:"floor,omitempty"`
	Apartment       string   `json:"apartment,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Status          string   `json:"status"`
	StatusChangedAt string   `json:"status_changed_at"`
	CreatedAt       string   `json:"created_at"`
	Comment         string   `json:"comment,omitempty"`
	Image           string   `json:"image,omitempty"`
	Price           float64  `json:"price"`
}

type notificationResponse struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Order     *int64 `json:"order"`
	CreatedAt string `json:"created_at"`
	IsRead    bool   `json:"is_read"`
}

type createOrderRequest struct {
	Service     int64    `json:"service"`
	City        string   `json:"city"`
	Street      string   `json:"street"`
	BuildingNum string   `json:"building_num"`
	Building    string   `json:"building"`
	Floor       string   `json:"floor"`
	Apartment   string   `json:"apartment"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Comment     string   `json:"comment"`
	Image       string   `json:"image"`
}

type updateOrderRequest struct {
	City        *string  `json:"city"`
	Street      *string  `json:"street"`
	BuildingNum *string  `json:"building_num"`
	Building    *string  `json:"building"`
	Floor       *string  `json:"floor"`
	Apartment   *string  `json:"apartment"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Comment     *string  `json:"comment"`
	Image       *string  `json:"image"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		Service:         o.ServiceID,
		Customer:        o.CustomerID,
		Courier:         o.CourierID,
		City:            o.City,
		Street:          o.Street,
		BuildingNum:     o.BuildingNum,
		Building:        o.Building,
		Floor:           o.Floor,
		Apartment:       o.Apartment,
		Latitude:        o.Latitude,
		Longitude:       o.Longitude,
		Status:          string(o.Status),
		StatusChangedAt: o.StatusChangedAt.Format(time.RFC3339),
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
		Comment:         o.Comment,
		Image:           o.Image,
		Price:           o.Price,
	}
}

func toOrderResponses(list []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(list))
	for i := range list {
		out = append(out, toOrderResponse(&list[i]))
	}
	return out
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Order:     n.OrderID,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
		IsRead:    n.IsRead,
	}
}

func toNotificationResponses(list []domain.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(list))
	for i := range list {
		out = append(out, toNotificationResponse(&list[i]))
	}
	return out
}
