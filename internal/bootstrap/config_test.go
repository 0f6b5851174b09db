package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtapi/booking-api/config"
)

func TestGetEnabledServices(t *testing.T) {
	assert.Equal(t, []string{}, GetEnabledServices(nil))
	assert.Equal(t, []string{"expirer", "http"}, GetEnabledServices(&config.AppConfig{Services: "http, expirer"}))
	assert.Equal(t, []string{}, GetEnabledServices(&config.AppConfig{Services: "bogus"}))
}

func TestValidateServiceConfig(t *testing.T) {
	require.Error(t, ValidateServiceConfig(nil))
	require.Error(t, ValidateServiceConfig(&config.AppConfig{Services: "bogus"}))
	require.NoError(t, ValidateServiceConfig(&config.AppConfig{Services: "http"}))
}
