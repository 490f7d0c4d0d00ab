package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "delivery_db",
}

var defaultAuth = Auth{
	Secret: "dev-secret",
}

var defaultKafka = Kafka{
	GroupID: "delivery-admin-worker",
	Topic:   "order-admin-events",
}

// defaultRollbackWindow bounds how long a courier may revert a status change.
const defaultRollbackWindow = 10 * time.Minute

var defaultDelivery = Delivery{
	RollbackWindow: defaultRollbackWindow,
}

var defaultRateLimit = RateLimit{
	Limit:  30,
	Window: time.Second,
	TTL:    10 * time.Minute,
}
