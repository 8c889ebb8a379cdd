package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hotelier"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultEnvFile  = ".env"

	DefaultRateLimitRPS   = 20.0
	DefaultRateLimitBurst = 40

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRedisDB = 0

	DefaultTaxPercent     = "20"
	DefaultBookingLockTTL = 10 * time.Second

	DefaultKafkaEnabled       = false
	DefaultKafkaTopicBookings = "hotel.bookings"
	DefaultKafkaTopicStays    = "hotel.stays"
	DefaultKafkaTopicSales    = "hotel.service-sales"

	DefaultPaginationLimit = 100
	MinPaginationLimit     = 10
)
