package domain

import "time"

// NotificationType represents the type of a notification.
type NotificationType string

// List of possible notification types
const (
	NotifyNewOrder         NotificationType = "new_order"
	NotifyOrderCancelled   NotificationType = "order_cancelled"
	NotifyCourierAssigned  NotificationType = "courier_assigned"
	NotifyCourierOnTheWay  NotificationType = "courier_on_the_way"
	NotifyAtLocation       NotificationType = "at_location"
	NotifyOnTheWayToMaster NotificationType = "courier_on_the_way_to_master"
	NotifyInProgress       NotificationType = "in_progress"
	NotifyCompleted        NotificationType = "completed"
	NotifyCancelled        NotificationType = "cancelled"
	NotifyReturn           NotificationType = "return"
	NotifySystem           NotificationType = "system"
)

// courierTypes are the notification types a courier may receive.
var courierTypes = []NotificationType{
	NotifyNewOrder, NotifyOrderCancelled, NotifySystem,
}

// clientTypes are the notification types a client may receive.
var clientTypes = []NotificationType{
	NotifyCourierAssigned, NotifyCourierOnTheWay, NotifyAtLocation,
	NotifyOnTheWayToMaster, NotifyInProgress, NotifyCompleted,
	NotifyCancelled, NotifyReturn, NotifySystem,
}

// AllowedTypes returns the set of notification types permitted for a role.
// It gates both persistence and realtime delivery.
func AllowedTypes(role Role) []NotificationType {
	switch role {
	case RoleCourier:
		return courierTypes
	case RoleClient, RoleAdmin:
		return clientTypes
	default:
		return nil
	}
}

// TypeAllowed reports whether a notification type is allowed for a role.
func TypeAllowed(role Role, t NotificationType) bool {
	for _, v := range AllowedTypes(role) {
		if v == t {
			return true
		}
	}
	return false
}

// StatusNotification maps an order status to its canonical notification type.
// Call sites always hand the dispatcher this canonical type, never an ad hoc string.
func StatusNotification(s OrderStatus) (NotificationType, bool) {
	switch s {
	case StatusCourierAssigned:
		return NotifyCourierAssigned, true
	case StatusCourierOnTheWay:
		return NotifyCourierOnTheWay, true
	case StatusAtLocation:
		return NotifyAtLocation, true
	case StatusOnTheWayToMaster:
		return NotifyOnTheWayToMaster, true
	case StatusInProgress:
		return NotifyInProgress, true
	case StatusCompleted:
		return NotifyCompleted, true
	case StatusCancelled:
		return NotifyCancelled, true
	case StatusReturn:
		return NotifyReturn, true
	default:
		return "", false
	}
}

// Notification is a durable per-recipient notification record.
type Notification struct {
	ID          int64
	RecipientID int64
	OrderID     *int64
	Type        NotificationType
	Title       string
	Message     string
	CreatedAt   time.Time
	IsRead      bool
}
