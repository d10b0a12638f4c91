package cache

import (
	"github.com/flexprice/costinvoice/internal/logger"
)

// Initialize creates the process-scoped cache handed to services through fx
func Initialize(log *logger.Logger) Cache {
	log.Info("Initializing cache system")
	c := NewInMemoryCache()
	log.Info("Cache system initialized")
	return c
}
