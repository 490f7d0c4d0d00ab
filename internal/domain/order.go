package domain

import "time"

// Order represents a client's service order.
type Order struct {
	ID              int64
	ServiceID       int64
	CustomerID      int64
	CourierID       *int64
	City            string
	Street          string
	BuildingNum     string
	Building        string
	Floor           string
	Apartment       string
	Latitude        *float64
	Longitude       *float64
	Status          OrderStatus
	StatusChangedAt time.Time
	CreatedAt       time.Time
	Comment         string
	Image           string
	Price           float64
}

// AssignedTo reports whether the order is assigned to the given courier.
func (o *Order) AssignedTo(userID int64) bool {
	return o.CourierID != nil && *o.CourierID == userID
}

// PartialOrderUpdate carries optional pre-assignment fields to update an order.
// A nil field means “do not change” that attribute.
type PartialOrderUpdate struct {
	ID          int64
	City        *string
	Street      *string
	BuildingNum *string
	Building    *string
	Floor       *string
	Apartment   *string
	Latitude    *float64
	Longitude   *float64
	Comment     *string
	Image       *string
}

// Empty reports whether the update changes nothing.
func (u *PartialOrderUpdate) Empty() bool {
	return u.City == nil && u.Street == nil && u.BuildingNum == nil &&
		u.Building == nil && u.Floor == nil && u.Apartment == nil &&
		u.Latitude == nil && u.Longitude == nil && u.Comment == nil && u.Image == nil
}

// CatalogService is the minimal catalog entry an order references:
// the price is snapshotted onto the order at creation time.
type CatalogService struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Slug        string
}
