package config

import "time"

// Database and performance constants
const (
	DefaultQueryTimeout = 30 * time.Second
	SearchTimeout       = 10 * time.Second
	IngestTimeout       = 5 * time.Minute
	NetworkDialTimeout  = 5 * time.Second

	CacheExpiration = 5 * time.Minute
	CacheSize       = 1024

	DefaultBatchSize = 500
	MaxRetries       = 3
)

// Pagination constants
const (
	DefaultPageSize = 24
	MaxPageSize     = 100
)

// Search constants
const (
	MaxSuggestions = 10
)

// Security constants
const (
	SessionTimeout    = 24 * time.Hour
	MaxUsernameLength = 32
	MinPasswordLength = 8
)
