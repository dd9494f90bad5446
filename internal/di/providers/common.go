package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// sessionGCInterval is how often the session store's value log is compacted.
	sessionGCInterval = 30 * time.Minute
)
