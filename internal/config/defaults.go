package config

import "time"

const defaultPort = 8080

const defaultLogLevel = "info"

var defaultDB = DB{
	Host:        "127.0.0.1",
	Port:        "5432",
	User:        "myuser",
	Pass:        "mypassword",
	Name:        "test_db",
	LockTimeout: 2 * time.Second,
}

var defaultAssignment = Assignment{
	OperationTimeout:       3 * time.Second,
	RequireRejectionReason: false,
	DefaultRejectionReason: "no reason provided",
}

var defaultKafka = Kafka{
	NotificationsTopic: "assignment-notifications",
	NotifierGroup:      "assignment-notifier",
}

var defaultNotify = Notify{
	QueueSize:   256,
	Workers:     2,
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultAssignment returns the default assignment engine settings.
func DefaultAssignment() Assignment {
	return defaultAssignment
}

// DefaultKafka returns the default Kafka settings.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultNotify returns the default notification dispatch settings.
func DefaultNotify() Notify {
	return defaultNotify
}
