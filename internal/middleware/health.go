package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthStatus struct {
	Status      string    `json:"status"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

var (
	healthStatus = HealthStatus{
		Status:      "ok",
		LastChecked: time.Now(),
		Uptime:      "0s",
		Version:     "1.0.0",
	}
	healthMutex      sync.RWMutex
	startTime        = time.Now()
	lastResponse     []byte
	lastResponseTime time.Time
	cacheDuration    = 5 * time.Second
)

// HealthCheckHandler serves a cached health snapshot so probes do not
// generate work on every hit.
func HealthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		healthMutex.RLock()
		if time.Since(lastResponseTime) < cacheDuration && lastResponse != nil {
			response := lastResponse
			healthMutex.RUnlock()
			c.Data(http.StatusOK, "application/json", response)
			return
		}
		healthMutex.RUnlock()

		healthMutex.Lock()
		// Another request may have refreshed the cache while we waited.
		if time.Since(lastResponseTime) >= cacheDuration || lastResponse == nil {
			healthStatus.Uptime = time.Since(startTime).String()
			healthStatus.LastChecked = time.Now()

			response, _ := json.Marshal(healthStatus)
			lastResponse = response
			lastResponseTime = time.Now()
		}
		response := lastResponse
		healthMutex.Unlock()

		c.Data(http.StatusOK, "application/json", response)
	}
}

// UpdateHealthStatus flips the reported status and invalidates the cached
// response so the change is visible on the next probe.
func UpdateHealthStatus(status string) {
	healthMutex.Lock()
	defer healthMutex.Unlock()

	healthStatus.Status = status
	healthStatus.LastChecked = time.Now()
	lastResponse = nil
}

func SetVersion(version string) {
	healthMutex.Lock()
	defer healthMutex.Unlock()

	healthStatus.Version = version
	lastResponse = nil
}
