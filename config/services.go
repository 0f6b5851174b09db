package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP API.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeExpirer runs the loop that times out stale pending jobs.
	ServiceModeExpirer ServiceMode = "expirer"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeExpirer}
}

// ParseServices parses a comma-delimited list of service names.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeExpirer:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: http, expirer)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// ExpiryConfig controls the pending job expiry loop.
type ExpiryConfig struct {
	// Interval is the tick interval between expiry sweeps.
	Interval time.Duration `env:"INTERVAL" envDefault:"5m"`

	// BatchSize caps the number of jobs timed out per sweep.
	BatchSize int `env:"BATCH_SIZE" envDefault:"500"`
}

// Sanitize enforces a minimum interval and batch bounds.
func (e *ExpiryConfig) Sanitize() {
	if e.Interval < 10*time.Second {
		e.Interval = 10 * time.Second
	}
	if e.BatchSize < 1 {
		e.BatchSize = 1
	}
	if e.BatchSize > 10000 {
		e.BatchSize = 10000
	}
}
