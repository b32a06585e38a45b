package constants

import (
	"net/http"
	"time"
)

// Elasticsearch Connection Constants
const (
	DefaultHost   = "localhost"
	DefaultPort   = 9200
	DefaultScheme = "http"

	// Timeout for the initial connectivity probe
	DefaultProbeTimeout = 10 * time.Second
)

// Retry Constants
const (
	// DefaultMaxAttempts is the total attempt budget per remote call.
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the fixed delay between attempts. No growth, no jitter.
	DefaultRetryDelay = 2 * time.Second
)

// Wait Configuration Constants
const (
	DefaultWaitTimeout  = 60 * time.Second
	DefaultWaitInterval = 2 * time.Second
	DefaultWaitStatus   = http.StatusOK
	DefaultWaitMethod   = "GET"
)

// Directory Layout Constants
const (
	DefaultConfigDir   = "./config"
	DefaultVersionsDir = "./versions"
	EnvironmentsSubdir = "environments"
	OperationsSubdir   = "operations"

	LatestVersionKeyword = "latest"
)
