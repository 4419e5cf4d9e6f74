package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "consolidate",
	Pass: "consolidate",
	Name: "consolidate_db",
}

var defaultRedis = Redis{Addr: ""}

var defaultKafka = Kafka{
	Brokers: nil,
	Topic:   "consolidate.notifications",
}

var defaultEngine = Engine{
	OperationTimeout:        5 * time.Second,
	DisableMajorityOverride: false,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultRedis returns the default cache settings.
func DefaultRedis() Redis {
	return defaultRedis
}

// DefaultKafka returns the default notification sink settings.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultEngine returns the default engine tunables.
func DefaultEngine() Engine {
	return defaultEngine
}
