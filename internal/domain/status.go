package domain

// OrderStatus represents the status of an order.
type OrderStatus string

// List of possible order statuses
const (
	StatusPending          OrderStatus = "pending"
	StatusCourierAssigned  OrderStatus = "courier_assigned"
	StatusCourierOnTheWay  OrderStatus = "courier_on_the_way"
	StatusAtLocation       OrderStatus = "at_location"
	StatusOnTheWayToMaster OrderStatus = "courier_on_the_way_to_master"
	StatusInProgress       OrderStatus = "in_progress"
	StatusCompleted        OrderStatus = "completed"
	StatusCancelled        OrderStatus = "cancelled"
	StatusReturn           OrderStatus = "return"
)

var allowedStatuses = [...]OrderStatus{
	StatusPending, StatusCourierAssigned, StatusCourierOnTheWay,
	StatusAtLocation, StatusOnTheWayToMaster, StatusInProgress,
	StatusCompleted, StatusCancelled, StatusReturn,
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends the order lifecycle.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusReturn
}

// forwardTable is the strict linear flow a courier advances an order through.
var forwardTable = map[OrderStatus]OrderStatus{
	StatusCourierAssigned:  StatusCourierOnTheWay,
	StatusCourierOnTheWay:  StatusAtLocation,
	StatusAtLocation:       StatusOnTheWayToMaster,
	StatusOnTheWayToMaster: StatusInProgress,
	StatusInProgress:       StatusCompleted,
}

// rollbackTable is the inverse of every forward edge except the one into completed.
var rollbackTable = map[OrderStatus]OrderStatus{
	StatusCourierOnTheWay:  StatusCourierAssigned,
	StatusAtLocation:       StatusCourierOnTheWay,
	StatusOnTheWayToMaster: StatusAtLocation,
	StatusInProgress:       StatusOnTheWayToMaster,
}

// ForwardOf returns the next status in the forward flow, if any.
func (s OrderStatus) ForwardOf() (OrderStatus, bool) {
	next, ok := forwardTable[s]
	return next, ok
}

// RollbackOf returns the status a time-boxed revert leads back to, if any.
func (s OrderStatus) RollbackOf() (OrderStatus, bool) {
	prev, ok := rollbackTable[s]
	return prev, ok
}

var statusMessages = map[OrderStatus]string{
	StatusPending:          "Order is waiting for a courier",
	StatusCourierAssigned:  "A courier has accepted your order",
	StatusCourierOnTheWay:  "The courier is on the way to you",
	StatusAtLocation:       "The courier has arrived",
	StatusOnTheWayToMaster: "The courier is taking your order to the master",
	StatusInProgress:       "Your order is being worked on",
	StatusCompleted:        "Order completed",
	StatusCancelled:        "Order cancelled",
	StatusReturn:           "Order refund has been issued",
}

// StatusMessage returns a human-readable client-facing message for a status.
func StatusMessage(s OrderStatus) string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return "Order status changed"
}
